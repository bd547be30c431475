// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/math32"
)

// Pose contains the full specification of position and orientation,
// always relative to the parent element.
type Pose struct {

	// Pos is the position of the center of the element, relative to the parent.
	Pos math32.Vector3

	// Scale is relative to the parent.
	Scale math32.Vector3

	// Quat is the rotation relative to the parent.
	Quat math32.Quat

	// Matrix is the local matrix combining Pos, Quat and Scale.
	Matrix math32.Matrix4 `display:"-"`
}

// Defaults sets defaults only if current values are nil.
func (ps *Pose) Defaults() {
	if ps.Scale == (math32.Vector3{}) {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// UpdateMatrix updates the local transform matrix based on its position,
// quaternion, and scale. It also checks for degenerate nil values.
func (ps *Pose) UpdateMatrix() {
	ps.Defaults()
	ps.Matrix.SetTransform(ps.Pos, ps.Quat, ps.Scale)
}

// Apply returns the given point, in the local space of this pose,
// transformed into the space of the parent.
func (ps *Pose) Apply(v math32.Vector3) math32.Vector3 {
	sc := ps.Scale
	if sc == (math32.Vector3{}) {
		sc.Set(1, 1, 1)
	}
	q := ps.Quat
	if q.IsNil() {
		q.SetIdentity()
	}
	return v.Mul(sc).MulQuat(q).Add(ps.Pos)
}
