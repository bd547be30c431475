// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image/color"
)

// DefaultColor is the color of solids whose description gives none.
var DefaultColor = color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}

// Solid represents an individual 3D solid element.
// It has its own pose relative to its parent and a color,
// and points to the mesh defining its shape.
type Solid struct {
	NodeBase

	// Mesh is the shape of the solid. Meshes can be shared
	// between solids and must not be modified.
	Mesh *Mesh `set:"-"`

	// Color is the main color of the surface.
	Color color.RGBA

	// Source is the path the mesh was loaded from, if any.
	Source string
}

// NewSolid returns a new unattached solid with the given name and mesh.
func NewSolid(name string, ms *Mesh) *Solid {
	sld := &Solid{Mesh: ms, Color: DefaultColor}
	sld.Name = name
	return sld
}

// SetMesh sets the mesh.
func (sld *Solid) SetMesh(ms *Mesh) *Solid {
	sld.Mesh = ms
	return sld
}

// SetColor sets the [Solid.Color].
func (sld *Solid) SetColor(v color.RGBA) *Solid {
	sld.Color = v
	return sld
}
