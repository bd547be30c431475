// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene provides the scene-graph node types that a robot model
// is assembled into: plain [Group]s, [Frame]s whose pose tracks a live
// coordinate frame, and [Solid]s holding loaded [Mesh] geometry. It has
// no rendering of its own; a renderer walks the tree and reads the poses
// and meshes.
package scene

import (
	"sync"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// Node is the interface for all scene nodes.
type Node interface {
	tree.Node

	// AsNode returns the generic [NodeBase] for this node.
	AsNode() *NodeBase
}

// NodeBase is the basic scene node type, which all other types embed.
// It has a [Pose] relative to its parent.
type NodeBase struct {
	tree.NodeBase

	// Pose is the position, rotation and scale relative to the parent.
	// Use [NodeBase.SetPose] and [NodeBase.PoseCopy] when the pose can be
	// updated from another goroutine.
	Pose Pose

	// PoseMu protects Pose for concurrent updates.
	PoseMu sync.RWMutex `copier:"-" json:"-" xml:"-" display:"-"`
}

// AsNode returns a generic [Node] interface and [NodeBase] for a tree
// node, or nil values if it is not a scene node.
func AsNode(n tree.Node) (Node, *NodeBase) {
	if n == nil {
		return nil, nil
	}
	nii, ok := n.(Node)
	if ok {
		return nii, nii.AsNode()
	}
	return nil, nil
}

func (nb *NodeBase) AsNode() *NodeBase {
	return nb
}

func (nb *NodeBase) Init() {
	nb.Pose.Defaults()
}

// SetPose sets the position and rotation of the node and updates
// its matrix. It is safe to call from any goroutine.
func (nb *NodeBase) SetPose(pos math32.Vector3, quat math32.Quat) {
	nb.PoseMu.Lock()
	nb.Pose.Pos = pos
	nb.Pose.Quat = quat
	nb.Pose.UpdateMatrix()
	nb.PoseMu.Unlock()
}

// PoseCopy returns a copy of the current pose.
// It is safe to call from any goroutine.
func (nb *NodeBase) PoseCopy() Pose {
	nb.PoseMu.RLock()
	defer nb.PoseMu.RUnlock()
	return nb.Pose
}

// IsDestroyed returns whether the node has been destroyed.
func (nb *NodeBase) IsDestroyed() bool {
	return nb.This == nil
}
