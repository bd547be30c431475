// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Mesh is an indexed triangle mesh. Every three Indices form one
// triangle; Normals is either empty or has one entry per vertex.
type Mesh struct {

	// Name is typically the path the mesh was loaded from.
	Name string

	Vertices []math32.Vector3

	Normals []math32.Vector3

	Indices []uint32

	// BBox is the bounding box of the vertices,
	// valid after [Mesh.ComputeBBox].
	BBox math32.Box3
}

// NumTriangles returns the number of triangles.
func (ms *Mesh) NumTriangles() int {
	return len(ms.Indices) / 3
}

// ComputeBBox updates the bounding box from the vertices.
func (ms *Mesh) ComputeBBox() {
	ms.BBox.SetEmpty()
	for _, v := range ms.Vertices {
		ms.BBox.ExpandByPoint(v)
	}
}

// ComputeNormals sets per-vertex normals by averaging the normals of the
// faces that share each vertex.
func (ms *Mesh) ComputeNormals() {
	ms.Normals = make([]math32.Vector3, len(ms.Vertices))
	for i := 0; i+2 < len(ms.Indices); i += 3 {
		a, b, c := ms.Indices[i], ms.Indices[i+1], ms.Indices[i+2]
		fn := faceNormal(ms.Vertices[a], ms.Vertices[b], ms.Vertices[c])
		ms.Normals[a] = ms.Normals[a].Add(fn)
		ms.Normals[b] = ms.Normals[b].Add(fn)
		ms.Normals[c] = ms.Normals[c].Add(fn)
	}
	for i, n := range ms.Normals {
		if n.Length() > 0 {
			ms.Normals[i] = n.Normal()
		}
	}
}

// Validate returns an error if the mesh is not a well-formed
// indexed triangle mesh.
func (ms *Mesh) Validate() error {
	if len(ms.Indices)%3 != 0 {
		return fmt.Errorf("scene.Mesh %q: %d indices is not a multiple of 3", ms.Name, len(ms.Indices))
	}
	if len(ms.Normals) != 0 && len(ms.Normals) != len(ms.Vertices) {
		return fmt.Errorf("scene.Mesh %q: %d normals for %d vertices", ms.Name, len(ms.Normals), len(ms.Vertices))
	}
	nv := uint32(len(ms.Vertices))
	for i, idx := range ms.Indices {
		if idx >= nv {
			return fmt.Errorf("scene.Mesh %q: index %d at %d out of range of %d vertices", ms.Name, idx, i, nv)
		}
	}
	return nil
}

// faceNormal returns the unit normal of the counter-clockwise triangle a, b, c.
func faceNormal(a, b, c math32.Vector3) math32.Vector3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() == 0 {
		return n
	}
	return n.Normal()
}
