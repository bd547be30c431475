// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package urdf provides the data model for robot descriptions in the
// Unified Robot Description Format (URDF), a parser that produces that
// model from XML text, and the resolution of mesh references into
// concrete loadable paths.
package urdf

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// Model is the kinematic model of a robot: an ordered collection of
// [Link]s connected by [Joint]s. A Model is immutable once returned
// by [Parse].
type Model struct {

	// Name is the robot name from the root element.
	Name string

	// Links are the rigid bodies of the robot, in document order.
	Links []*Link

	// Joints connect pairs of links, in document order.
	Joints []*Joint

	// Materials are the named robot-level materials, which visuals
	// can refer to by name.
	Materials map[string]*Material

	links  map[string]*Link
	joints map[string]*Joint
}

// Link is a rigid body segment of the robot.
type Link struct {

	// Name is unique within the model, and is also the name of the
	// coordinate frame that tracks the link origin.
	Name string

	// Visuals are the geometry entries used for display.
	Visuals []*Visual

	// Collisions are the geometry entries used for collision checking.
	Collisions []*Collision
}

// HasGeometry returns whether the link has at least one visual entry.
func (l *Link) HasGeometry() bool {
	return len(l.Visuals) > 0
}

// Visual is one display geometry entry of a [Link].
type Visual struct {
	Name string

	// Origin is the fixed offset of the geometry from the link frame.
	Origin Origin

	Geometry Geometry

	// Material is nil if the visual does not specify one.
	Material *Material
}

// Collision is one collision geometry entry of a [Link].
type Collision struct {
	Name     string
	Origin   Origin
	Geometry Geometry
}

// Geometry is a shape description. Exactly one of the fields is
// non-nil for a well-formed entry.
type Geometry struct {
	Mesh     *Mesh
	Box      *Box
	Cylinder *Cylinder
	Sphere   *Sphere
}

// IsEmpty returns whether no shape was specified.
func (g *Geometry) IsEmpty() bool {
	return g.Mesh == nil && g.Box == nil && g.Cylinder == nil && g.Sphere == nil
}

// Mesh refers to an external mesh file.
type Mesh struct {

	// Filename is the mesh reference URI, which may use the
	// package:// scheme.
	Filename string

	// Scale is applied to the mesh vertices; it defaults to 1,1,1.
	Scale math32.Vector3
}

// Box is an axis-aligned box centered at the geometry origin.
type Box struct {
	Size math32.Vector3
}

// Cylinder is a cylinder along the Z axis centered at the geometry origin.
type Cylinder struct {
	Radius float32
	Length float32
}

// Sphere is centered at the geometry origin.
type Sphere struct {
	Radius float32
}

// Origin is a fixed transform given as a translation and fixed-axis
// roll, pitch, yaw rotation in radians.
type Origin struct {
	XYZ math32.Vector3
	RPY math32.Vector3
}

// Quat returns the rotation of the origin as a quaternion, using the
// URDF convention of rotating about the fixed X axis (roll), then Y
// (pitch), then Z (yaw).
func (o *Origin) Quat() math32.Quat {
	hr, hp, hy := o.RPY.X/2, o.RPY.Y/2, o.RPY.Z/2
	sr, cr := math32.Sin(hr), math32.Cos(hr)
	sp, cp := math32.Sin(hp), math32.Cos(hp)
	sy, cy := math32.Sin(hy), math32.Cos(hy)
	return math32.NewQuat(
		sr*cp*cy-cr*sp*sy,
		cr*sp*cy+sr*cp*sy,
		cr*cp*sy-sr*sp*cy,
		cr*cp*cy+sr*sp*sy,
	)
}

// Material is a named display material.
type Material struct {
	Name string

	// Color is nil if only a texture or a name was given.
	Color *color.RGBA

	// Texture is the texture filename, if any.
	Texture string
}

// JointTypes are the URDF joint types.
type JointTypes string

const (
	Revolute   JointTypes = "revolute"
	Continuous JointTypes = "continuous"
	Prismatic  JointTypes = "prismatic"
	Fixed      JointTypes = "fixed"
	Floating   JointTypes = "floating"
	Planar     JointTypes = "planar"
)

// Joint connects a parent link to a child link.
type Joint struct {
	Name string
	Type JointTypes

	// Parent and Child are link names.
	Parent string
	Child  string

	// Origin is the transform from the parent link frame to the
	// joint frame, which is also the child link frame at rest.
	Origin Origin

	// Axis is the joint axis in the joint frame; it defaults to 1,0,0.
	Axis math32.Vector3

	// Limit is nil when not specified.
	Limit *Limit
}

// Limit are the joint limits.
type Limit struct {
	Lower, Upper, Effort, Velocity float32
}

// Link returns the link with the given name, or nil.
func (m *Model) Link(name string) *Link {
	return m.links[name]
}

// Joint returns the joint with the given name, or nil.
func (m *Model) Joint(name string) *Joint {
	return m.joints[name]
}

// ParentJoint returns the joint whose child is the given link,
// or nil for the root link.
func (m *Model) ParentJoint(link string) *Joint {
	for _, j := range m.Joints {
		if j.Child == link {
			return j
		}
	}
	return nil
}

// Root returns the first link that is not the child of any joint,
// or nil for an empty model.
func (m *Model) Root() *Link {
	for _, l := range m.Links {
		if m.ParentJoint(l.Name) == nil {
			return l
		}
	}
	return nil
}

// MeshURIs returns the mesh references of all visuals in link order.
func (m *Model) MeshURIs() []string {
	var uris []string
	for _, l := range m.Links {
		for _, v := range l.Visuals {
			if v.Geometry.Mesh != nil {
				uris = append(uris, v.Geometry.Mesh.Filename)
			}
		}
	}
	return uris
}
