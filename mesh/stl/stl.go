// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stl decodes binary and ASCII STL files (*.stl) into a
// triangle mesh, using github.com/hschendel/stl.
package stl

import (
	"bytes"
	"io"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/scene"
	"github.com/hschendel/stl"
)

func init() {
	mesh.Register(".stl", &Decoder{})
}

// Decoder implements [mesh.Decoder] for STL files.
type Decoder struct {

	// Solid is the decoded solid, after Decode.
	Solid *stl.Solid
}

func (dec *Decoder) New() mesh.Decoder {
	return &Decoder{}
}

func (dec *Decoder) Desc() string {
	return ".stl = STL stereolithography format, binary or ASCII; facet normals are used as vertex normals."
}

// Decode reads the STL data. STL has no shared vertices, so each
// facet contributes three vertices with the facet normal.
func (dec *Decoder) Decode(r io.Reader, name string) (*scene.Mesh, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		rs = bytes.NewReader(b)
	}
	sol, err := stl.ReadAll(rs)
	if err != nil {
		return nil, err
	}
	dec.Solid = sol
	nt := len(sol.Triangles)
	ms := &scene.Mesh{
		Name:     name,
		Vertices: make([]math32.Vector3, 0, nt*3),
		Normals:  make([]math32.Vector3, 0, nt*3),
		Indices:  make([]uint32, 0, nt*3),
	}
	zeroNormal := false
	for _, tri := range sol.Triangles {
		n := vec3(tri.Normal)
		if n.Length() == 0 {
			zeroNormal = true
		}
		for _, v := range tri.Vertices {
			ms.Indices = append(ms.Indices, uint32(len(ms.Vertices)))
			ms.Vertices = append(ms.Vertices, vec3(v))
			ms.Normals = append(ms.Normals, n)
		}
	}
	// many exporters write zero normals; recompute from the winding
	if zeroNormal {
		ms.Normals = nil
	}
	return ms, nil
}

func vec3(v stl.Vec3) math32.Vector3 {
	return math32.Vec3(v[0], v[1], v[2])
}
