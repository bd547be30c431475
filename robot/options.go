// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

import (
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/scene"
	"cogentcore.org/urdf/urdf"

	// standard mesh formats for the default loader
	_ "cogentcore.org/urdf/mesh/collada"
	_ "cogentcore.org/urdf/mesh/gltf"
	_ "cogentcore.org/urdf/mesh/obj"
	_ "cogentcore.org/urdf/mesh/stl"
)

// DefaultParam is the default name of the description parameter.
const DefaultParam = "robot_description"

// Options are the options of a [Client].
type Options struct {

	// Fetcher fetches the description text, for example a rosbridge client.
	Fetcher Fetcher

	// Param is the name of the description parameter.
	Param string

	// BasePath is joined with relative mesh paths, and with package
	// paths that have no entry in PathTable.
	BasePath string

	// FrameBinder creates the link frames, for example a tf tracker.
	// Frames are static if it is nil.
	FrameBinder FrameBinder

	// Root is the node that the robot is added to. A new root group
	// is made if it is nil.
	Root scene.Node

	// FramePrefix is prepended to link names to get frame names,
	// for example "robot1/" to tell apart several robots.
	FramePrefix string

	// MeshLoader loads mesh geometry; a new [mesh.Loader] if nil.
	MeshLoader MeshLoader

	// PathTable maps package names to directories; all mesh paths are
	// resolved with BasePath only if it is nil.
	PathTable urdf.PathTable
}

// Defaults sets default values for unset options.
func (o *Options) Defaults() {
	if o.Param == "" {
		o.Param = DefaultParam
	}
	if o.BasePath == "" {
		o.BasePath = "/"
	}
	if o.FrameBinder == nil {
		o.FrameBinder = StaticFrames
	}
	if o.Root == nil {
		o.Root = scene.NewRoot("root")
	}
	if o.MeshLoader == nil {
		o.MeshLoader = mesh.NewLoader()
	}
}

// assembleOptions returns the options for [Assemble].
func (o *Options) assembleOptions() AssembleOptions {
	return AssembleOptions{
		BasePath:    o.BasePath,
		PathTable:   o.PathTable,
		FramePrefix: o.FramePrefix,
		MeshLoader:  o.MeshLoader,
		FrameBinder: o.FrameBinder,
	}
}
