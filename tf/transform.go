// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tf tracks a tree of named coordinate frames whose relative
// transforms are updated over time, and binds scene [scene.Frame] nodes
// to them so that each node follows the pose of its frame in a fixed
// frame.
package tf

import (
	"cogentcore.org/core/math32"
)

// Transform is a rigid transform: a rotation followed by a translation.
type Transform struct {
	Translation math32.Vector3
	Rotation    math32.Quat
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: math32.NewQuat(0, 0, 0, 1)}
}

// rotation returns the rotation, treating a zero quaternion as identity.
func (t Transform) rotation() math32.Quat {
	if t.Rotation.IsNil() {
		return math32.NewQuat(0, 0, 0, 1)
	}
	return t.Rotation
}

// Mul returns the composition t * c: the transform c expressed in the
// parent space of t.
func (t Transform) Mul(c Transform) Transform {
	q := t.rotation()
	cq := c.rotation()
	return Transform{
		Translation: c.Translation.MulQuat(q).Add(t.Translation),
		Rotation:    q.Mul(cq),
	}
}

// Inverse returns the inverse transform.
func (t Transform) Inverse() Transform {
	q := t.rotation()
	iq := q.Inverse()
	return Transform{
		Translation: t.Translation.MulQuat(iq).MulScalar(-1),
		Rotation:    iq,
	}
}

// Apply transforms the given point.
func (t Transform) Apply(v math32.Vector3) math32.Vector3 {
	return v.MulQuat(t.rotation()).Add(t.Translation)
}
