// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"cogentcore.org/urdf/robot"
	"cogentcore.org/urdf/scene"
	"cogentcore.org/urdf/urdf"
	"github.com/muesli/termenv"
)

// printer prints models and assemblies as indented trees.
type printer struct {
	w   io.Writer
	out *termenv.Output
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, out: termenv.NewOutput(w)}
}

func (pr *printer) name(s string) string {
	return pr.out.String(s).Bold().String()
}

func (pr *printer) path(s string) string {
	return pr.out.String(s).Foreground(pr.out.Color("4")).String()
}

func (pr *printer) warn(s string) string {
	return pr.out.String(s).Foreground(pr.out.Color("1")).String()
}

func (pr *printer) line(depth int, format string, args ...any) {
	fmt.Fprintf(pr.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

// model prints the link tree of the model, following joints from the
// root link, with the resolved path of every mesh.
func (pr *printer) model(m *urdf.Model, basePath string, pt urdf.PathTable) {
	pr.line(0, "robot %s: %d links, %d joints", pr.name(m.Name), len(m.Links), len(m.Joints))
	seen := map[string]bool{}
	var link func(l *urdf.Link, depth int)
	link = func(l *urdf.Link, depth int) {
		if seen[l.Name] {
			return
		}
		seen[l.Name] = true
		pr.line(depth, "link %s", pr.name(l.Name))
		for _, v := range l.Visuals {
			g := &v.Geometry
			switch {
			case g.Mesh != nil:
				pr.line(depth+1, "mesh %s -> %s", g.Mesh.Filename, pr.path(urdf.ResolvePath(g.Mesh.Filename, basePath, pt)))
			case g.Box != nil:
				pr.line(depth+1, "box %v", g.Box.Size)
			case g.Cylinder != nil:
				pr.line(depth+1, "cylinder r=%g l=%g", g.Cylinder.Radius, g.Cylinder.Length)
			case g.Sphere != nil:
				pr.line(depth+1, "sphere r=%g", g.Sphere.Radius)
			}
		}
		for _, j := range m.Joints {
			if j.Parent == l.Name {
				pr.line(depth+1, "joint %s (%s)", pr.name(j.Name), j.Type)
				link(m.Link(j.Child), depth+2)
			}
		}
	}
	for _, l := range m.Links {
		if m.ParentJoint(l.Name) == nil {
			link(l, 1)
		}
	}
	// links only reachable through a cycle
	for _, l := range m.Links {
		if !seen[l.Name] {
			pr.line(1, "%s link %s", pr.warn("unreachable"), pr.name(l.Name))
		}
	}
}

// assembly prints the frames of the assembly with their poses and geometry.
func (pr *printer) assembly(as *robot.Assembly) {
	pr.line(0, "%s: %d frames", pr.name(as.Root.Name), len(as.Frames))
	for _, fr := range as.Frames {
		ps := fr.PoseCopy()
		pr.line(1, "frame %s pos %v", pr.name(fr.FrameID), ps.Pos)
		for _, g := range fr.Geometry() {
			sld, ok := g.(*scene.Solid)
			if !ok || sld.Mesh == nil {
				continue
			}
			src := sld.Source
			if src == "" {
				src = "primitive"
			}
			pr.line(2, "%s %d triangles from %s", sld.Name, sld.Mesh.NumTriangles(), pr.path(src))
		}
	}
}

// failures prints the mesh loads that failed.
func (pr *printer) failures(failed []*robot.MeshFailure) {
	for _, mf := range failed {
		pr.line(0, "%s %s/%s %s: %v", pr.warn("failed"), mf.Link, mf.Visual, mf.Path, mf.Err)
	}
}
