// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tf

import (
	"log/slog"
	"strings"
	"sync"

	"cogentcore.org/urdf/scene"
)

// Tracker holds the current transform tree and notifies subscribers
// when the pose of a frame in the FixedFrame changes. It is safe for
// concurrent use; callbacks are called without the lock held, from the
// goroutine that changed the tree.
type Tracker struct {

	// FixedFrame is the frame that all poses are expressed in.
	FixedFrame string

	mu sync.Mutex

	// edges maps each child frame to its parent and the transform
	// from the parent to the child.
	edges map[string]edge

	subs   map[string]map[int]*subscription
	nextID int

	// seq orders the poses computed for delivery.
	seq uint64
}

// subscription delivers poses to one callback in the order they were
// computed, dropping any that arrive after a newer one.
type subscription struct {
	fn func(Transform)

	mu   sync.Mutex
	last uint64
}

func (s *subscription) deliver(seq uint64, tr Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.last {
		return
	}
	s.last = seq
	s.fn(tr)
}

type edge struct {
	parent string
	tr     Transform
}

// NewTracker returns a new [Tracker] with the given fixed frame.
func NewTracker(fixedFrame string) *Tracker {
	return &Tracker{
		FixedFrame: FrameID(fixedFrame),
		edges:      map[string]edge{},
		subs:       map[string]map[int]*subscription{},
	}
}

// FrameID returns the canonical form of a frame id, without a leading "/".
func FrameID(id string) string {
	return strings.TrimPrefix(id, "/")
}

// SetTransform records the transform from parent to child, replacing any
// previous parent of child, and notifies the subscribers of child and of
// every frame below it.
func (tk *Tracker) SetTransform(parent, child string, t Transform) {
	parent, child = FrameID(parent), FrameID(child)
	if parent == child || child == "" {
		slog.Warn("tf: ignoring invalid transform", "parent", parent, "child", child)
		return
	}
	type call struct {
		sub *subscription
		seq uint64
		tr  Transform
	}
	var calls []call
	tk.mu.Lock()
	tk.edges[child] = edge{parent: parent, tr: t}
	for frame, fns := range tk.subs {
		if !tk.below(frame, child) {
			continue
		}
		tr, ok := tk.lookup(frame)
		if !ok {
			continue
		}
		for _, sub := range fns {
			tk.seq++
			calls = append(calls, call{sub, tk.seq, tr})
		}
	}
	tk.mu.Unlock()
	for _, c := range calls {
		c.sub.deliver(c.seq, c.tr)
	}
}

// Lookup returns the pose of the given frame in the fixed frame, and
// whether the two frames are connected.
func (tk *Tracker) Lookup(frame string) (Transform, bool) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return tk.lookup(FrameID(frame))
}

// Frames returns the number of frames that have a parent.
func (tk *Tracker) Frames() int {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	return len(tk.edges)
}

// toRoot returns the root of the given frame and the pose of the frame
// in that root. It stops at a cycle.
func (tk *Tracker) toRoot(frame string) (string, Transform) {
	tr := Identity()
	seen := map[string]bool{}
	for {
		e, has := tk.edges[frame]
		if !has || seen[frame] {
			return frame, tr
		}
		seen[frame] = true
		tr = e.tr.Mul(tr)
		frame = e.parent
	}
}

func (tk *Tracker) lookup(frame string) (Transform, bool) {
	if frame == tk.FixedFrame {
		return Identity(), true
	}
	root, tr := tk.toRoot(frame)
	froot, ftr := tk.toRoot(tk.FixedFrame)
	if root != froot {
		return Transform{}, false
	}
	return ftr.Inverse().Mul(tr), true
}

// below returns whether frame is child or a descendant of it,
// or whether child is on the path from the fixed frame to the root.
func (tk *Tracker) below(frame, child string) bool {
	return tk.onPath(frame, child) || tk.onPath(tk.FixedFrame, child)
}

func (tk *Tracker) onPath(frame, target string) bool {
	seen := map[string]bool{}
	for !seen[frame] {
		if frame == target {
			return true
		}
		seen[frame] = true
		e, has := tk.edges[frame]
		if !has {
			return false
		}
		frame = e.parent
	}
	return false
}

// Subscribe calls fn with the pose of the given frame in the fixed frame
// whenever it changes, and immediately if it is already known. The
// returned function cancels the subscription; it is idempotent.
// fn is never called with a pose older than one it has already received.
func (tk *Tracker) Subscribe(frame string, fn func(Transform)) (cancel func()) {
	frame = FrameID(frame)
	sub := &subscription{fn: fn}
	tk.mu.Lock()
	id := tk.nextID
	tk.nextID++
	if tk.subs[frame] == nil {
		tk.subs[frame] = map[int]*subscription{}
	}
	tk.subs[frame][id] = sub
	tr, ok := tk.lookup(frame)
	var seq uint64
	if ok {
		tk.seq++
		seq = tk.seq
	}
	tk.mu.Unlock()
	if ok {
		sub.deliver(seq, tr)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			tk.mu.Lock()
			defer tk.mu.Unlock()
			delete(tk.subs[frame], id)
			if len(tk.subs[frame]) == 0 {
				delete(tk.subs, frame)
			}
		})
	}
}

// NumSubscriptions returns the number of active subscriptions.
func (tk *Tracker) NumSubscriptions() int {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	n := 0
	for _, fns := range tk.subs {
		n += len(fns)
	}
	return n
}

// BindFrame returns a new [scene.Frame] named after the given frame id
// whose pose follows the frame. Releasing or destroying the returned
// frame cancels its subscription.
func (tk *Tracker) BindFrame(frame string) *scene.Frame {
	fr := scene.NewFrame(frame, frame)
	cancel := tk.Subscribe(frame, func(t Transform) {
		fr.SetFramePose(t.Translation, t.Rotation)
	})
	fr.SetRelease(cancel)
	return fr
}
