// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gltf decodes glTF 2.0 files (*.gltf and *.glb) into a single
// triangle mesh, using github.com/qmuntal/gltf.
package gltf

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func init() {
	mesh.Register(".gltf", &Decoder{})
	mesh.Register(".glb", &Decoder{})
}

// Decoder implements [mesh.Decoder] for glTF files.
type Decoder struct {

	// Document is the decoded document, after Decode.
	Document *gltf.Document
}

func (dec *Decoder) New() mesh.Decoder {
	return &Decoder{}
}

func (dec *Decoder) Desc() string {
	return ".gltf, .glb = glTF 2.0 format; the triangle primitives of all meshes are merged, and node transforms and materials are ignored."
}

// Decode decodes the document. External buffers are read relative to
// the directory of name, so they are only available for local files;
// embedded and binary-chunk buffers always work.
func (dec *Decoder) Decode(r io.Reader, name string) (*scene.Mesh, error) {
	doc := &gltf.Document{}
	gd := gltf.NewDecoder(r).WithReadHandler(&gltf.RelativeFileHandler{Dir: localDir(name)})
	if err := gd.Decode(doc); err != nil {
		return nil, err
	}
	dec.Document = doc
	ms := &scene.Mesh{Name: name}
	hasNormals := true
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			nrm, err := dec.addPrimitive(ms, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf: mesh %d primitive %d: %w", mi, pi, err)
			}
			hasNormals = hasNormals && nrm
		}
	}
	if !hasNormals {
		ms.Normals = nil
	}
	return ms, nil
}

// addPrimitive appends the primitive to the mesh, returning whether
// it had normals.
func (dec *Decoder) addPrimitive(ms *scene.Mesh, prim *gltf.Primitive) (bool, error) {
	doc := dec.Document
	pi, has := prim.Attributes[gltf.POSITION]
	if !has {
		return false, fmt.Errorf("no %s attribute", gltf.POSITION)
	}
	acc, err := accessor(doc, pi)
	if err != nil {
		return false, err
	}
	pos, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return false, err
	}
	base := uint32(len(ms.Vertices))
	for _, p := range pos {
		ms.Vertices = append(ms.Vertices, math32.Vec3(p[0], p[1], p[2]))
	}
	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return false, err
		}
		idx, err := modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return false, err
		}
		for _, i := range idx {
			if int(i) >= len(pos) {
				return false, fmt.Errorf("vertex index %d out of range", i)
			}
			ms.Indices = append(ms.Indices, base+i)
		}
	} else {
		for i := range pos {
			ms.Indices = append(ms.Indices, base+uint32(i))
		}
	}
	ni, has := prim.Attributes[gltf.NORMAL]
	if !has {
		return false, nil
	}
	acc, err = accessor(doc, ni)
	if err != nil {
		return false, err
	}
	nrm, err := modeler.ReadNormal(doc, acc, nil)
	if err != nil {
		return false, err
	}
	if len(nrm) != len(pos) {
		return false, nil
	}
	for _, n := range nrm {
		ms.Normals = append(ms.Normals, math32.Vec3(n[0], n[1], n[2]))
	}
	return true, nil
}

// accessor returns the accessor with the given index, which must
// exist and have its data in a buffer view.
func accessor[T ~int | ~uint32](doc *gltf.Document, idx T) (*gltf.Accessor, error) {
	i := int(idx)
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", i)
	}
	acc := doc.Accessors[i]
	if acc == nil || acc.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no buffer view", i)
	}
	if bv := int(*acc.BufferView); bv < 0 || bv >= len(doc.BufferViews) {
		return nil, fmt.Errorf("accessor %d buffer view %d out of range", i, bv)
	}
	return acc, nil
}

// localDir returns the directory of a local file path, or "" for URLs.
func localDir(name string) string {
	if strings.Contains(name, "://") && !strings.HasPrefix(name, "file://") {
		return ""
	}
	return filepath.Dir(strings.TrimPrefix(name, "file://"))
}
