// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package collada decodes the geometry of COLLADA files (*.dae) into a
// single triangle mesh. Geometry instanced by the visual scene is placed
// with its node transforms; without a visual scene every geometry is
// used as is. The result is scaled to meters and rotated so that Z is up.
// Materials, textures, animation and skinning are ignored.
package collada

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/scene"
)

func init() {
	mesh.Register(".dae", &Decoder{})
}

// Decoder implements [mesh.Decoder] for COLLADA files.
type Decoder struct {

	// Meter is the length of the document unit in meters, after Decode.
	Meter float32

	// UpAxis is the up axis of the document (X_UP, Y_UP or Z_UP), after Decode.
	UpAxis string

	// Warnings are the parts of the document that were skipped.
	Warnings []string

	doc        *xmlCollada
	geometries map[string]*xmlGeometry
	normals    bool
}

func (dec *Decoder) New() mesh.Decoder {
	return &Decoder{}
}

func (dec *Decoder) Desc() string {
	return ".dae = COLLADA format; the triangles, polylists and polygons of all instanced geometry are merged, and materials are ignored."
}

type xmlCollada struct {
	XMLName xml.Name `xml:"COLLADA"`
	Asset   struct {
		Unit *struct {
			Meter string `xml:"meter,attr"`
		} `xml:"unit"`
		UpAxis string `xml:"up_axis"`
	} `xml:"asset"`
	Geometries []xmlGeometry    `xml:"library_geometries>geometry"`
	Scenes     []xmlVisualScene `xml:"library_visual_scenes>visual_scene"`
	Scene      struct {
		Instance *struct {
			URL string `xml:"url,attr"`
		} `xml:"instance_visual_scene"`
	} `xml:"scene"`
}

type xmlGeometry struct {
	ID   string   `xml:"id,attr"`
	Name string   `xml:"name,attr"`
	Mesh *xmlMesh `xml:"mesh"`
}

type xmlMesh struct {
	Sources  []xmlSource `xml:"source"`
	Vertices struct {
		ID     string     `xml:"id,attr"`
		Inputs []xmlInput `xml:"input"`
	} `xml:"vertices"`
	Triangles []xmlPrimitive `xml:"triangles"`
	Polylists []xmlPrimitive `xml:"polylist"`
	Polygons  []xmlPrimitive `xml:"polygons"`
}

type xmlSource struct {
	ID         string `xml:"id,attr"`
	FloatArray *struct {
		Data string `xml:",chardata"`
	} `xml:"float_array"`
	Accessor struct {
		Stride int `xml:"stride,attr"`
	} `xml:"technique_common>accessor"`
}

type xmlInput struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   int    `xml:"offset,attr"`
}

// xmlPrimitive is a triangles, polylist or polygons element. Polygons
// have one p element per polygon; the others have a single p.
type xmlPrimitive struct {
	Count  int        `xml:"count,attr"`
	Inputs []xmlInput `xml:"input"`
	VCount string     `xml:"vcount"`
	P      []string   `xml:"p"`
}

type xmlVisualScene struct {
	ID    string    `xml:"id,attr"`
	Nodes []xmlNode `xml:"node"`
}

type xmlNode struct {
	Name       string    `xml:"name,attr"`
	Nodes      []xmlNode `xml:"node"`
	Geometries []struct {
		URL string `xml:"url,attr"`
	} `xml:"instance_geometry"`

	// Transforms are all other child elements in document order,
	// of which matrix, translate, rotate and scale are used.
	Transforms []struct {
		XMLName xml.Name
		Data    string `xml:",chardata"`
	} `xml:",any"`
}

// source is a float array with its accessor stride.
type source struct {
	data   []float32
	stride int
}

// vec returns the vector at the given index.
func (src *source) vec(i int) (math32.Vector3, error) {
	off := i * src.stride
	if i < 0 || off+3 > len(src.data) {
		return math32.Vector3{}, fmt.Errorf("index %d out of range", i)
	}
	return math32.Vec3(src.data[off], src.data[off+1], src.data[off+2]), nil
}

// Decode decodes the document and returns the merged mesh of all
// instanced geometry.
func (dec *Decoder) Decode(r io.Reader, name string) (*scene.Mesh, error) {
	doc := &xmlCollada{}
	if err := xml.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("collada: %w", err)
	}
	dec.doc = doc
	dec.Meter = 1
	if u := doc.Asset.Unit; u != nil && strings.TrimSpace(u.Meter) != "" {
		m, err := strconv.ParseFloat(strings.TrimSpace(u.Meter), 32)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("collada: invalid unit meter %q", u.Meter)
		}
		dec.Meter = float32(m)
	}
	dec.UpAxis = strings.TrimSpace(doc.Asset.UpAxis)
	if dec.UpAxis == "" {
		dec.UpAxis = "Y_UP"
	}
	root, err := dec.rootMatrix()
	if err != nil {
		return nil, err
	}
	dec.geometries = map[string]*xmlGeometry{}
	for i := range doc.Geometries {
		dec.geometries[doc.Geometries[i].ID] = &doc.Geometries[i]
	}

	ms := &scene.Mesh{Name: name}
	dec.normals = true
	if vs := dec.visualScene(); vs != nil {
		for i := range vs.Nodes {
			if err := dec.addNode(ms, &vs.Nodes[i], root); err != nil {
				return nil, err
			}
		}
	} else {
		for i := range doc.Geometries {
			if err := dec.addGeometry(ms, &doc.Geometries[i], root); err != nil {
				return nil, err
			}
		}
	}
	if len(ms.Indices) == 0 {
		return nil, fmt.Errorf("collada: no triangle geometry")
	}
	if !dec.normals {
		ms.Normals = nil
	}
	return ms, nil
}

// rootMatrix returns the unit scale and up axis conversion to a Z up frame.
func (dec *Decoder) rootMatrix() (*math32.Matrix4, error) {
	var axis math32.Matrix4
	switch dec.UpAxis {
	case "Z_UP":
		axis.SetIdentity()
	case "Y_UP":
		axis.SetRotationX(math32.Pi / 2)
	case "X_UP":
		axis.SetRotationY(-math32.Pi / 2)
	default:
		return nil, fmt.Errorf("collada: invalid up axis %q", dec.UpAxis)
	}
	var scale math32.Matrix4
	scale.SetScale(dec.Meter, dec.Meter, dec.Meter)
	return axis.Mul(&scale), nil
}

// visualScene returns the visual scene instanced by the scene element,
// or the first one, or nil.
func (dec *Decoder) visualScene() *xmlVisualScene {
	scs := dec.doc.Scenes
	if len(scs) == 0 {
		return nil
	}
	if inst := dec.doc.Scene.Instance; inst != nil {
		id := strings.TrimPrefix(inst.URL, "#")
		for i := range scs {
			if scs[i].ID == id {
				return &scs[i]
			}
		}
	}
	return &scs[0]
}

// addNode adds the geometry of the node and its children, transformed
// by the node transforms following the parent transform.
func (dec *Decoder) addNode(ms *scene.Mesh, nd *xmlNode, parent *math32.Matrix4) error {
	m, err := dec.nodeMatrix(nd)
	if err != nil {
		return err
	}
	m = parent.Mul(m)
	for _, ig := range nd.Geometries {
		id := strings.TrimPrefix(ig.URL, "#")
		geom, has := dec.geometries[id]
		if !has {
			dec.warn("node %q: unknown geometry %q", nd.Name, ig.URL)
			continue
		}
		if err := dec.addGeometry(ms, geom, m); err != nil {
			return err
		}
	}
	for i := range nd.Nodes {
		if err := dec.addNode(ms, &nd.Nodes[i], m); err != nil {
			return err
		}
	}
	return nil
}

func (dec *Decoder) nodeMatrix(nd *xmlNode) (*math32.Matrix4, error) {
	m := math32.Identity4()
	for _, tr := range nd.Transforms {
		var t math32.Matrix4
		var v []float32
		var err error
		switch tr.XMLName.Local {
		case "matrix":
			if v, err = parseFloats(tr.Data, 16); err == nil {
				t.Set(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8], v[9], v[10], v[11], v[12], v[13], v[14], v[15])
			}
		case "translate":
			if v, err = parseFloats(tr.Data, 3); err == nil {
				t.SetTranslation(v[0], v[1], v[2])
			}
		case "rotate":
			if v, err = parseFloats(tr.Data, 4); err == nil {
				axis := math32.Vec3(v[0], v[1], v[2]).Normal()
				t.SetRotationAxis(&axis, math32.DegToRad(v[3]))
			}
		case "scale":
			if v, err = parseFloats(tr.Data, 3); err == nil {
				t.SetScale(v[0], v[1], v[2])
			}
		case "lookat", "skew":
			dec.warn("node %q: %s transform not supported", nd.Name, tr.XMLName.Local)
			continue
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("collada: node %q %s: %w", nd.Name, tr.XMLName.Local, err)
		}
		m.SetMul(&t)
	}
	return m, nil
}

// addGeometry adds the polygons of the geometry, transformed by m.
func (dec *Decoder) addGeometry(ms *scene.Mesh, geom *xmlGeometry, m *math32.Matrix4) error {
	if geom.Mesh == nil {
		dec.warn("geometry %q: only mesh geometry is supported", geom.ID)
		return nil
	}
	gm := geom.Mesh
	sources := map[string]*source{}
	for _, xs := range gm.Sources {
		if xs.FloatArray == nil {
			continue
		}
		data, err := parseFloats(xs.FloatArray.Data, -1)
		if err != nil {
			return fmt.Errorf("collada: geometry %q source %q: %w", geom.ID, xs.ID, err)
		}
		stride := xs.Accessor.Stride
		if stride == 0 {
			stride = 3
		}
		if stride < 3 {
			return fmt.Errorf("collada: geometry %q source %q: stride %d is less than 3", geom.ID, xs.ID, stride)
		}
		sources[xs.ID] = &source{data: data, stride: stride}
	}
	var nrm math32.Matrix3
	if err := nrm.SetNormalMatrix(m); err != nil {
		dec.normals = false
	}
	pg := &polygons{dec: dec, ms: ms, m: m, nrm: &nrm, sources: sources, mesh: gm}
	for _, el := range []struct {
		kind  string
		prims []xmlPrimitive
	}{{"triangles", gm.Triangles}, {"polylist", gm.Polylists}, {"polygons", gm.Polygons}} {
		for pi := range el.prims {
			if err := pg.add(el.kind, &el.prims[pi]); err != nil {
				return fmt.Errorf("collada: geometry %q %s %d: %w", geom.ID, el.kind, pi, err)
			}
		}
	}
	return nil
}

// polygons adds the primitives of one mesh element.
type polygons struct {
	dec     *Decoder
	ms      *scene.Mesh
	m       *math32.Matrix4
	nrm     *math32.Matrix3
	sources map[string]*source
	mesh    *xmlMesh
}

// inputs resolves the position and normal sources of a primitive and
// their offsets in its index list, returning the number of indices per
// polygon corner. The normal offset is -1 without normals.
func (pg *polygons) inputs(prim *xmlPrimitive) (pos, nrm *source, posOff, nrmOff, stride int, err error) {
	posOff, nrmOff = -1, -1
	for _, in := range prim.Inputs {
		stride = max(stride, in.Offset+1)
		id := strings.TrimPrefix(in.Source, "#")
		switch in.Semantic {
		case "VERTEX":
			if id != pg.mesh.Vertices.ID {
				return nil, nil, 0, 0, 0, fmt.Errorf("unknown vertices %q", in.Source)
			}
			posOff = in.Offset
			for _, vin := range pg.mesh.Vertices.Inputs {
				vid := strings.TrimPrefix(vin.Source, "#")
				switch vin.Semantic {
				case "POSITION":
					pos = pg.sources[vid]
				case "NORMAL":
					if nrm == nil {
						nrm, nrmOff = pg.sources[vid], in.Offset
					}
				}
			}
		case "NORMAL":
			nrm, nrmOff = pg.sources[id], in.Offset
		}
	}
	if pos == nil || posOff < 0 {
		return nil, nil, 0, 0, 0, fmt.Errorf("no vertex positions")
	}
	if nrm == nil {
		nrmOff = -1
	}
	return pos, nrm, posOff, nrmOff, stride, nil
}

// add adds one triangles, polylist or polygons element.
func (pg *polygons) add(kind string, prim *xmlPrimitive) error {
	pos, nrm, posOff, nrmOff, stride, err := pg.inputs(prim)
	if err != nil {
		return err
	}
	if nrm == nil {
		pg.dec.normals = false
	}
	// each polygon is a list of corner indices into p
	var polys [][]int
	switch kind {
	case "triangles":
		p, err := parseInts(strings.Join(prim.P, " "))
		if err != nil {
			return err
		}
		if len(p) != prim.Count*3*stride {
			return fmt.Errorf("expected %d indices, got %d", prim.Count*3*stride, len(p))
		}
		for i := 0; i+3*stride <= len(p); i += 3 * stride {
			polys = append(polys, p[i:i+3*stride])
		}
	case "polylist":
		p, err := parseInts(strings.Join(prim.P, " "))
		if err != nil {
			return err
		}
		vc, err := parseInts(prim.VCount)
		if err != nil {
			return fmt.Errorf("vcount: %w", err)
		}
		off := 0
		for _, n := range vc {
			end := off + n*stride
			if n < 0 || end > len(p) {
				return fmt.Errorf("vcount exceeds the index list")
			}
			polys = append(polys, p[off:end])
			off = end
		}
	case "polygons":
		for _, ps := range prim.P {
			p, err := parseInts(ps)
			if err != nil {
				return err
			}
			polys = append(polys, p)
		}
	}
	for _, p := range polys {
		n := len(p) / stride
		if n < 3 {
			continue
		}
		base := uint32(len(pg.ms.Vertices))
		for c := range n {
			v, err := pos.vec(p[c*stride+posOff])
			if err != nil {
				return fmt.Errorf("position: %w", err)
			}
			pg.ms.Vertices = append(pg.ms.Vertices, v.MulMatrix4(pg.m))
			if nrmOff >= 0 {
				nv, err := nrm.vec(p[c*stride+nrmOff])
				if err != nil {
					return fmt.Errorf("normal: %w", err)
				}
				pg.ms.Normals = append(pg.ms.Normals, nv.MulMatrix3(pg.nrm).Normal())
			}
		}
		for c := 2; c < n; c++ {
			pg.ms.Indices = append(pg.ms.Indices, base, base+uint32(c-1), base+uint32(c))
		}
	}
	return nil
}

func (dec *Decoder) warn(format string, args ...any) {
	dec.Warnings = append(dec.Warnings, "collada: "+fmt.Sprintf(format, args...))
}

// parseFloats parses n space separated numbers, or any number if n < 0.
func parseFloats(s string, n int) ([]float32, error) {
	fs := strings.Fields(s)
	if n >= 0 && len(fs) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(fs))
	}
	vals := make([]float32, len(fs))
	for i, f := range fs {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		vals[i] = float32(v)
	}
	return vals, nil
}

func parseInts(s string) ([]int, error) {
	fs := strings.Fields(s)
	vals := make([]int, len(fs))
	for i, f := range fs {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}
