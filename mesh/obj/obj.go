// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This package is based extensively on https://github.com/g3n/engine :
// Copyright 2016 The G3N Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package obj is used to parse the Wavefront OBJ file format (*.obj)
// into a single triangle mesh. Only geometry is supported: materials,
// texture coordinates and smoothing groups are ignored.
// Basic format info: https://en.wikipedia.org/wiki/Wavefront_.obj_file
package obj

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/scene"
)

func init() {
	mesh.Register(".obj", &Decoder{})
}

// Decoder contains all decoded data from an obj file.
// It also implements the [mesh.Decoder] interface and an instance
// is registered to handle .obj files.
type Decoder struct {
	Objects  []Object         // decoded objects
	Vertices []math32.Vector3 // vertex positions
	Normals  []math32.Vector3 // vertex normals
	Warnings []string         // warning messages

	line       int     // current line number
	objCurrent *Object // current object
}

// Object contains all information about one decoded object.
type Object struct {
	Name  string
	Faces []Face
}

// Face contains the vertex and normal indexes of an object face.
// A Normals entry is -1 when the face vertex has no normal.
type Face struct {
	Vertices []int
	Normals  []int
}

func (dec *Decoder) New() mesh.Decoder {
	return &Decoder{line: 1}
}

func (dec *Decoder) Desc() string {
	return ".obj = Wavefront OBJ format; all objects and groups are merged into one mesh, and materials are ignored."
}

// Decode reads the given obj data and returns the merged mesh of
// all of its objects.
func (dec *Decoder) Decode(r io.Reader, name string) (*scene.Mesh, error) {
	if err := dec.parse(r); err != nil {
		return nil, err
	}
	ms := &scene.Mesh{Name: name}
	for oi := range dec.Objects {
		if err := dec.setObject(ms, &dec.Objects[oi]); err != nil {
			return nil, err
		}
	}
	// normals are only usable if every vertex has one
	if len(ms.Normals) != len(ms.Vertices) {
		ms.Normals = nil
	}
	return ms, nil
}

// setObject appends the faces of the object to the mesh, triangulating
// polygons as fans around their first vertex.
func (dec *Decoder) setObject(ms *scene.Mesh, ob *Object) error {
	for fi := range ob.Faces {
		face := &ob.Faces[fi]
		base := uint32(len(ms.Vertices))
		for i, vi := range face.Vertices {
			if vi < 0 || vi >= len(dec.Vertices) {
				return fmt.Errorf("obj: object %q face %d: vertex index %d out of range", ob.Name, fi, vi+1)
			}
			ms.Vertices = append(ms.Vertices, dec.Vertices[vi])
			if ni := face.Normals[i]; ni >= 0 && ni < len(dec.Normals) {
				ms.Normals = append(ms.Normals, dec.Normals[ni])
			}
		}
		for idx := 2; idx < len(face.Vertices); idx++ {
			ms.Indices = append(ms.Indices, base, base+uint32(idx-1), base+uint32(idx))
		}
	}
	return nil
}

// parse reads the lines from the specified reader.
func (dec *Decoder) parse(reader io.Reader) error {
	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	dec.line = 1
	for sc.Scan() {
		if err := dec.parseObjLine(sc.Text()); err != nil {
			return err
		}
		dec.line++
	}
	return sc.Err()
}

// parseObjLine parses one obj file line, dispatching to specific parsers.
func (dec *Decoder) parseObjLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	ltype := fields[0]
	if strings.HasPrefix(ltype, "#") {
		return nil
	}
	switch ltype {
	// groups are treated the same as objects
	case "o", "g":
		return dec.parseObject(fields[1:])
	case "v":
		return dec.parseVector(fields[1:], &dec.Vertices)
	case "vn":
		return dec.parseVector(fields[1:], &dec.Normals)
	case "f":
		return dec.parseFace(fields[1:])
	case "vt", "mtllib", "usemtl", "s", "l", "p":
	default:
		dec.appendWarn("field not supported: " + ltype)
	}
	return nil
}

// parseObject parses an object line:
// o <name>
func (dec *Decoder) parseObject(fields []string) error {
	name := fmt.Sprintf("unnamed%d", dec.line)
	if len(fields) > 0 {
		name = fields[0]
	}
	dec.Objects = append(dec.Objects, Object{Name: name})
	dec.objCurrent = &dec.Objects[len(dec.Objects)-1]
	return nil
}

// parseVector parses a vertex position or normal line:
// v <x> <y> <z> [w]
func (dec *Decoder) parseVector(fields []string, to *[]math32.Vector3) error {
	if len(fields) < 3 {
		return dec.formatError("less than 3 coordinates in vector line")
	}
	var v [3]float32
	for i, f := range fields[:3] {
		val, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return dec.formatError(err.Error())
		}
		v[i] = float32(val)
	}
	*to = append(*to, math32.Vec3(v[0], v[1], v[2]))
	return nil
}

// parseFace parses a face decription line:
// f v1[/vt1][/vn1] v2[/vt2][/vn2] v3[/vt3][/vn3] ...
func (dec *Decoder) parseFace(fields []string) error {
	if dec.objCurrent == nil {
		// a face before any g or o line (allowed in OBJ format)
		// goes into a new default object
		dec.parseObject(nil)
	}
	if len(fields) < 3 {
		return dec.formatError("face line with less than 3 fields")
	}
	face := Face{Vertices: make([]int, len(fields)), Normals: make([]int, len(fields))}
	for pos, f := range fields {
		vfields := strings.Split(f, "/")
		vi, err := dec.index(vfields[0], len(dec.Vertices))
		if err != nil {
			return err
		}
		face.Vertices[pos] = vi
		face.Normals[pos] = -1
		if len(vfields) >= 3 && vfields[2] != "" {
			ni, err := dec.index(vfields[2], len(dec.Normals))
			if err != nil {
				return err
			}
			face.Normals[pos] = ni
		}
	}
	dec.objCurrent.Faces = append(dec.objCurrent.Faces, face)
	return nil
}

// index converts a 1-based or negative (relative to the end)
// obj index to a 0-based one, given the current count of elements.
func (dec *Decoder) index(s string, count int) (int, error) {
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0, dec.formatError(err.Error())
	}
	switch {
	case val > 0:
		return val - 1, nil
	case val < 0:
		return count + val, nil
	}
	return 0, dec.formatError("index value equal to 0")
}

func (dec *Decoder) formatError(msg string) error {
	return fmt.Errorf("obj: line %d: %s", dec.line, msg)
}

func (dec *Decoder) appendWarn(msg string) {
	dec.Warnings = append(dec.Warnings, fmt.Sprintf("obj: line %d: %s", dec.line, msg))
}
