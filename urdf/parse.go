// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urdf

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
)

// ParseError is returned by [Parse] when the text is not a well-formed
// robot description. The offending text is retained for diagnostics.
type ParseError struct {

	// Text is the full description text that failed to parse.
	Text string

	// Err is the underlying cause.
	Err error
}

func (e *ParseError) Error() string {
	return "urdf: invalid robot description: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// xml document shapes

type xmlRobot struct {
	XMLName   xml.Name      `xml:"robot"`
	Name      string        `xml:"name,attr"`
	Materials []xmlMaterial `xml:"material"`
	Links     []xmlLink     `xml:"link"`
	Joints    []xmlJoint    `xml:"joint"`
}

type xmlLink struct {
	Name       string      `xml:"name,attr"`
	Visuals    []xmlVisual `xml:"visual"`
	Collisions []xmlVisual `xml:"collision"`
}

type xmlVisual struct {
	Name     string       `xml:"name,attr"`
	Origin   *xmlOrigin   `xml:"origin"`
	Geometry xmlGeometry  `xml:"geometry"`
	Material *xmlMaterial `xml:"material"`
}

type xmlOrigin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type xmlGeometry struct {
	Mesh *struct {
		Filename string `xml:"filename,attr"`
		Scale    string `xml:"scale,attr"`
	} `xml:"mesh"`
	Box *struct {
		Size string `xml:"size,attr"`
	} `xml:"box"`
	Cylinder *struct {
		Radius string `xml:"radius,attr"`
		Length string `xml:"length,attr"`
	} `xml:"cylinder"`
	Sphere *struct {
		Radius string `xml:"radius,attr"`
	} `xml:"sphere"`
}

type xmlMaterial struct {
	Name  string `xml:"name,attr"`
	Color *struct {
		RGBA string `xml:"rgba,attr"`
	} `xml:"color"`
	Texture *struct {
		Filename string `xml:"filename,attr"`
	} `xml:"texture"`
}

type xmlJoint struct {
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Origin *xmlOrigin `xml:"origin"`
	Parent struct {
		Link string `xml:"link,attr"`
	} `xml:"parent"`
	Child struct {
		Link string `xml:"link,attr"`
	} `xml:"child"`
	Axis *struct {
		XYZ string `xml:"xyz,attr"`
	} `xml:"axis"`
	Limit *struct {
		Lower    string `xml:"lower,attr"`
		Upper    string `xml:"upper,attr"`
		Effort   string `xml:"effort,attr"`
		Velocity string `xml:"velocity,attr"`
	} `xml:"limit"`
}

// Parse parses the given URDF text into a [Model]. It returns a
// [*ParseError] if the text is not well-formed XML, has no robot
// root element, or is structurally inconsistent (unnamed or duplicate
// links, joints referring to unknown links). No partial model is
// returned on failure.
func Parse(text string) (*Model, error) {
	var xr xmlRobot
	if err := xml.Unmarshal([]byte(text), &xr); err != nil {
		return nil, &ParseError{Text: text, Err: err}
	}
	m, err := xr.model()
	if err != nil {
		return nil, &ParseError{Text: text, Err: err}
	}
	return m, nil
}

func (xr *xmlRobot) model() (*Model, error) {
	m := &Model{
		Name:      xr.Name,
		Materials: map[string]*Material{},
		links:     map[string]*Link{},
		joints:    map[string]*Joint{},
	}
	var errs []error
	for i := range xr.Materials {
		mat, err := xr.Materials[i].material()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if mat.Name != "" {
			m.Materials[mat.Name] = mat
		}
	}
	for i := range xr.Links {
		xl := &xr.Links[i]
		if xl.Name == "" {
			errs = append(errs, fmt.Errorf("link %d has no name", i))
			continue
		}
		if _, has := m.links[xl.Name]; has {
			errs = append(errs, fmt.Errorf("duplicate link name %q", xl.Name))
			continue
		}
		l := &Link{Name: xl.Name}
		for vi := range xl.Visuals {
			xv := &xl.Visuals[vi]
			v := &Visual{Name: xv.Name}
			var err error
			if v.Origin, err = xv.Origin.origin(); err != nil {
				errs = append(errs, fmt.Errorf("link %q visual %d: %w", xl.Name, vi, err))
			}
			if v.Geometry, err = xv.Geometry.geometry(); err != nil {
				errs = append(errs, fmt.Errorf("link %q visual %d: %w", xl.Name, vi, err))
			}
			if xv.Material != nil {
				v.Material, err = m.visualMaterial(xv.Material)
				if err != nil {
					errs = append(errs, fmt.Errorf("link %q visual %d: %w", xl.Name, vi, err))
				}
			}
			l.Visuals = append(l.Visuals, v)
		}
		for ci := range xl.Collisions {
			xc := &xl.Collisions[ci]
			c := &Collision{Name: xc.Name}
			var err error
			if c.Origin, err = xc.Origin.origin(); err != nil {
				errs = append(errs, fmt.Errorf("link %q collision %d: %w", xl.Name, ci, err))
			}
			if c.Geometry, err = xc.Geometry.geometry(); err != nil {
				errs = append(errs, fmt.Errorf("link %q collision %d: %w", xl.Name, ci, err))
			}
			l.Collisions = append(l.Collisions, c)
		}
		m.Links = append(m.Links, l)
		m.links[l.Name] = l
	}
	for i := range xr.Joints {
		j, err := xr.Joints[i].joint(m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m.Joints = append(m.Joints, j)
		m.joints[j.Name] = j
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// visualMaterial returns the material for a visual, falling back on
// the robot-level material of the same name when the visual only names it.
func (m *Model) visualMaterial(xm *xmlMaterial) (*Material, error) {
	mat, err := xm.material()
	if err != nil {
		return nil, err
	}
	if mat.Color == nil && mat.Texture == "" {
		if rm, has := m.Materials[mat.Name]; has {
			return rm, nil
		}
	}
	return mat, nil
}

func (xm *xmlMaterial) material() (*Material, error) {
	mat := &Material{Name: xm.Name}
	if xm.Texture != nil {
		mat.Texture = xm.Texture.Filename
	}
	if xm.Color != nil {
		c, err := parseRGBA(xm.Color.RGBA)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", xm.Name, err)
		}
		mat.Color = &c
	}
	return mat, nil
}

func (xo *xmlOrigin) origin() (Origin, error) {
	var o Origin
	if xo == nil {
		return o, nil
	}
	var err error
	if o.XYZ, err = parseVector3(xo.XYZ, math32.Vector3{}); err != nil {
		return o, fmt.Errorf("origin xyz: %w", err)
	}
	if o.RPY, err = parseVector3(xo.RPY, math32.Vector3{}); err != nil {
		return o, fmt.Errorf("origin rpy: %w", err)
	}
	return o, nil
}

func (xg *xmlGeometry) geometry() (Geometry, error) {
	var g Geometry
	var err error
	switch {
	case xg.Mesh != nil:
		ms := &Mesh{Filename: xg.Mesh.Filename}
		ms.Scale, err = parseVector3(xg.Mesh.Scale, math32.Vec3(1, 1, 1))
		g.Mesh = ms
	case xg.Box != nil:
		bx := &Box{}
		bx.Size, err = parseVector3(xg.Box.Size, math32.Vector3{})
		g.Box = bx
	case xg.Cylinder != nil:
		cy := &Cylinder{}
		if cy.Radius, err = parseFloat(xg.Cylinder.Radius); err == nil {
			cy.Length, err = parseFloat(xg.Cylinder.Length)
		}
		g.Cylinder = cy
	case xg.Sphere != nil:
		sp := &Sphere{}
		sp.Radius, err = parseFloat(xg.Sphere.Radius)
		g.Sphere = sp
	}
	if err != nil {
		return g, fmt.Errorf("geometry: %w", err)
	}
	return g, nil
}

func (xj *xmlJoint) joint(m *Model) (*Joint, error) {
	if xj.Name == "" {
		return nil, errors.New("joint has no name")
	}
	j := &Joint{Name: xj.Name, Type: JointTypes(xj.Type), Parent: xj.Parent.Link, Child: xj.Child.Link}
	if m.links[j.Parent] == nil {
		return nil, fmt.Errorf("joint %q: unknown parent link %q", j.Name, j.Parent)
	}
	if m.links[j.Child] == nil {
		return nil, fmt.Errorf("joint %q: unknown child link %q", j.Name, j.Child)
	}
	var err error
	if j.Origin, err = xj.Origin.origin(); err != nil {
		return nil, fmt.Errorf("joint %q: %w", j.Name, err)
	}
	j.Axis = math32.Vec3(1, 0, 0)
	if xj.Axis != nil {
		if j.Axis, err = parseVector3(xj.Axis.XYZ, j.Axis); err != nil {
			return nil, fmt.Errorf("joint %q axis: %w", j.Name, err)
		}
	}
	if xj.Limit != nil {
		lm := &Limit{}
		for _, f := range []struct {
			s string
			v *float32
		}{{xj.Limit.Lower, &lm.Lower}, {xj.Limit.Upper, &lm.Upper}, {xj.Limit.Effort, &lm.Effort}, {xj.Limit.Velocity, &lm.Velocity}} {
			if f.s == "" {
				continue
			}
			if *f.v, err = parseFloat(f.s); err != nil {
				return nil, fmt.Errorf("joint %q limit: %w", j.Name, err)
			}
		}
		j.Limit = lm
	}
	return j, nil
}

func parseFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	return float32(f), err
}

func parseFloats(s string, n int) ([]float32, error) {
	fs := strings.Fields(s)
	if len(fs) != n {
		return nil, fmt.Errorf("expected %d numbers, got %q", n, s)
	}
	vals := make([]float32, n)
	for i, f := range fs {
		v, err := parseFloat(f)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// parseVector3 parses "x y z", returning def for an empty string.
func parseVector3(s string, def math32.Vector3) (math32.Vector3, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := parseFloats(s, 3)
	if err != nil {
		return def, err
	}
	return math32.Vec3(v[0], v[1], v[2]), nil
}

// parseRGBA parses "r g b a" with straight (non-premultiplied)
// components in [0, 1], returning the premultiplied color.
func parseRGBA(s string) (color.RGBA, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color rgba: %w", err)
	}
	to8 := func(f float32) uint8 {
		return uint8(math32.Round(math32.Clamp(f, 0, 1) * 255))
	}
	nc := color.NRGBA{R: to8(v[0]), G: to8(v[1]), B: to8(v[2]), A: to8(v[3])}
	return color.RGBAModel.Convert(nc).(color.RGBA), nil
}
