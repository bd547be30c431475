// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"cogentcore.org/core/tree"
)

// Group collects individual elements in a scene but does not have a Mesh
// of its own. It does have a transform that applies to all nodes under it.
type Group struct {
	NodeBase
}

// NewRoot returns a new [Group] with the given name that is the root of
// its own tree, for use as the root object that robots are attached to.
func NewRoot(name string) *Group {
	gp := &Group{}
	gp.Name = name
	tree.InitNode(gp)
	return gp
}

// NewGroup adds a new [Group] with the given name to the given parent.
func NewGroup(parent tree.Node, name string) *Group {
	gp := &Group{}
	gp.Name = name
	parent.AsTree().AddChild(gp)
	return gp
}

// Frames returns all of the [Frame]s at or below the given node,
// in depth-first order.
func Frames(n tree.Node) []*Frame {
	var frs []*Frame
	n.AsTree().WalkDown(func(k tree.Node) bool {
		if fr, ok := k.(*Frame); ok {
			frs = append(frs, fr)
		}
		return tree.Continue
	})
	return frs
}

// Solids returns all of the [Solid]s at or below the given node,
// in depth-first order.
func Solids(n tree.Node) []*Solid {
	var sls []*Solid
	n.AsTree().WalkDown(func(k tree.Node) bool {
		if sld, ok := k.(*Solid); ok {
			sls = append(sls, sld)
		}
		return tree.Continue
	})
	return sls
}
