// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// DefaultSegments is the number of segments used around the
// circumference of spheres and cylinders.
var DefaultSegments = 24

// NewBox returns a box mesh of the given size centered at the origin.
// Each face has its own four vertices so that normals are flat.
func NewBox(name string, size math32.Vector3) *Mesh {
	ms := &Mesh{Name: name}
	h := size.MulScalar(0.5)
	// each face: normal, and two in-plane axes u, v with u x v = normal
	faces := []struct{ n, u, v math32.Vector3 }{
		{math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(-1, 0, 0), math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 1, 0), math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0)},
		{math32.Vec3(0, -1, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 0, 1)},
		{math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		{math32.Vec3(0, 0, -1), math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0)},
	}
	for _, f := range faces {
		base := uint32(len(ms.Vertices))
		c := f.n.Mul(h)
		u := f.u.Mul(h)
		v := f.v.Mul(h)
		ms.Vertices = append(ms.Vertices,
			c.Sub(u).Sub(v), c.Add(u).Sub(v), c.Add(u).Add(v), c.Sub(u).Add(v))
		ms.Normals = append(ms.Normals, f.n, f.n, f.n, f.n)
		ms.Indices = append(ms.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	ms.ComputeBBox()
	return ms
}

// NewSphere returns a UV sphere mesh with the given radius centered at
// the origin, using segs segments around and segs/2 rings from pole to pole.
func NewSphere(name string, radius float32, segs int) *Mesh {
	segs = max(segs, 4)
	rings := max(segs/2, 2)
	ms := &Mesh{Name: name}
	for r := 0; r <= rings; r++ {
		theta := math32.Pi * float32(r) / float32(rings)
		st, ct := math32.Sincos(theta)
		for s := 0; s <= segs; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segs)
			sp, cp := math32.Sincos(phi)
			n := math32.Vec3(st*cp, st*sp, ct)
			ms.Vertices = append(ms.Vertices, n.MulScalar(radius))
			ms.Normals = append(ms.Normals, n)
		}
	}
	row := uint32(segs + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segs); s++ {
			a := r*row + s
			b := a + row
			ms.Indices = append(ms.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	ms.ComputeBBox()
	return ms
}

// NewCylinder returns a capped cylinder mesh along the Z axis with the
// given radius and length, centered at the origin.
func NewCylinder(name string, radius, length float32, segs int) *Mesh {
	segs = max(segs, 3)
	ms := &Mesh{Name: name}
	hl := length / 2
	// side
	for s := 0; s <= segs; s++ {
		phi := 2 * math32.Pi * float32(s) / float32(segs)
		sp, cp := math32.Sincos(phi)
		n := math32.Vec3(cp, sp, 0)
		ms.Vertices = append(ms.Vertices, math32.Vec3(radius*cp, radius*sp, -hl), math32.Vec3(radius*cp, radius*sp, hl))
		ms.Normals = append(ms.Normals, n, n)
	}
	for s := uint32(0); s < uint32(segs); s++ {
		a := 2 * s
		ms.Indices = append(ms.Indices, a, a+2, a+1, a+1, a+2, a+3)
	}
	// caps
	for _, z := range []float32{-hl, hl} {
		n := math32.Vec3(0, 0, math32.Sign(z))
		center := uint32(len(ms.Vertices))
		ms.Vertices = append(ms.Vertices, math32.Vec3(0, 0, z))
		ms.Normals = append(ms.Normals, n)
		for s := 0; s <= segs; s++ {
			phi := 2 * math32.Pi * float32(s) / float32(segs)
			sp, cp := math32.Sincos(phi)
			ms.Vertices = append(ms.Vertices, math32.Vec3(radius*cp, radius*sp, z))
			ms.Normals = append(ms.Normals, n)
		}
		for s := uint32(1); s <= uint32(segs); s++ {
			if z > 0 {
				ms.Indices = append(ms.Indices, center, center+s, center+s+1)
			} else {
				ms.Indices = append(ms.Indices, center, center+s+1, center+s)
			}
		}
	}
	ms.ComputeBBox()
	return ms
}
