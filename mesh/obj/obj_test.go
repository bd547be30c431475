// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package obj

import (
	"strings"
	"testing"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quad = `# a unit quad and a triangle
mtllib quad.mtl
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
usemtl grey
f 1//1 2//1 3//1 4//1
g tri
v 0 0 1
f -3 -2 -1
`

func TestDecode(t *testing.T) {
	ms, err := mesh.Decode("quad.obj", strings.NewReader(quad))
	require.NoError(t, err)
	assert.Equal(t, "quad.obj", ms.Name)
	// quad fan = 2 triangles, plus 1 triangle
	assert.Equal(t, 3, ms.NumTriangles())
	assert.Len(t, ms.Vertices, 7)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 4, 5, 6}, ms.Indices)
	assert.Len(t, ms.Normals, 7) // computed, since the triangle had none
	assert.Equal(t, math32.Vec3(0, 0, 0), ms.BBox.Min)
	assert.Equal(t, math32.Vec3(1, 1, 1), ms.BBox.Max)
}

func TestDecodeObjects(t *testing.T) {
	dec := (&Decoder{}).New().(*Decoder)
	_, err := dec.Decode(strings.NewReader(quad), "quad.obj")
	require.NoError(t, err)
	require.Len(t, dec.Objects, 2)
	assert.Equal(t, "quad", dec.Objects[0].Name)
	assert.Equal(t, "tri", dec.Objects[1].Name)
	assert.Equal(t, []int{2, 3, 4}, dec.Objects[1].Faces[0].Vertices)
	assert.Empty(t, dec.Warnings)
}

func TestDecodeErrors(t *testing.T) {
	for _, src := range []string{
		"v 0 0\n",
		"v 0 0 0\nv 1 0 0\nf 1 2\n",
		"v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n",
		"v 0 0 0\nf 1 2 9\n",
		"v a b c\n",
	} {
		_, err := mesh.Decode("bad.obj", strings.NewReader(src))
		assert.Error(t, err, src)
	}
}
