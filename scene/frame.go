// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"sync"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// Frame is a node whose pose is continuously driven by an external
// coordinate-frame subscription, identified by FrameID. Geometry that
// belongs to the frame is added as children with a fixed local offset.
//
// Geometry may arrive from other goroutines at any time, including after
// the frame has been released or destroyed; [Frame.AddGeometry] and
// [Frame.SetFramePose] are safe to call concurrently and become no-ops
// once the frame is released.
type Frame struct {
	NodeBase

	// FrameID is the name of the tracked coordinate frame,
	// including any prefix.
	FrameID string

	// mu protects the children list, release and released.
	mu sync.Mutex

	// release cancels the subscription driving this frame.
	release func()

	released bool
}

// NewFrame returns a new unattached frame node with the given name
// tracking the given frame id. It must be added to a parent.
func NewFrame(name, frameID string) *Frame {
	fr := &Frame{FrameID: frameID}
	fr.Name = name
	return fr
}

// SetRelease sets the function that cancels the subscription driving
// this frame. If the frame is already released, the function is called
// immediately.
func (fr *Frame) SetRelease(release func()) {
	fr.mu.Lock()
	if fr.released {
		fr.mu.Unlock()
		if release != nil {
			release()
		}
		return
	}
	fr.release = release
	fr.mu.Unlock()
}

// Release cancels the frame subscription, after which the pose is no
// longer updated and no more geometry can be added. It is idempotent.
func (fr *Frame) Release() {
	fr.mu.Lock()
	if fr.released {
		fr.mu.Unlock()
		return
	}
	fr.released = true
	rel := fr.release
	fr.release = nil
	fr.mu.Unlock()
	if rel != nil {
		rel()
	}
}

// IsReleased returns whether [Frame.Release] has been called.
func (fr *Frame) IsReleased() bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.released
}

// Destroy releases the subscription and then destroys the node
// and its geometry.
func (fr *Frame) Destroy() {
	fr.Release()
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.NodeBase.Destroy()
}

// SetFramePose sets the pose from the tracked frame.
// It does nothing once the frame is released.
func (fr *Frame) SetFramePose(pos math32.Vector3, quat math32.Quat) {
	if fr.IsReleased() {
		return
	}
	fr.SetPose(pos, quat)
}

// AddGeometry adds the given geometry node as a child of the frame.
// It returns false and does not add the node if the frame has been
// released or destroyed.
func (fr *Frame) AddGeometry(n Node) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if fr.released || fr.This == nil {
		return false
	}
	fr.AddChild(n)
	return true
}

// Geometry returns a snapshot of the geometry nodes of the frame.
func (fr *Frame) Geometry() []Node {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	var geom []Node
	for _, k := range fr.Children {
		if ni, _ := AsNode(k); ni != nil {
			geom = append(geom, ni)
		}
	}
	return geom
}

// NumGeometry returns the number of geometry nodes of the frame.
func (fr *Frame) NumGeometry() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.Children)
}

var _ tree.Node = (*Frame)(nil)
