// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tf

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"cogentcore.org/urdf/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var yaw90 = math32.NewQuat(0, 0, math32.Sin(math32.Pi/4), math32.Cos(math32.Pi/4))

func assertVec(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-5, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-5, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-5, "z")
}

func TestTransform(t *testing.T) {
	a := Transform{Translation: math32.Vec3(1, 0, 0), Rotation: yaw90}
	b := Transform{Translation: math32.Vec3(1, 0, 0), Rotation: math32.NewQuat(0, 0, 0, 1)}
	ab := a.Mul(b)
	assertVec(t, math32.Vec3(1, 1, 0), ab.Translation)
	assertVec(t, math32.Vec3(1, 2, 0), ab.Apply(math32.Vec3(1, 0, 0)))

	id := ab.Mul(ab.Inverse())
	assertVec(t, math32.Vector3{}, id.Translation)
	assertVec(t, math32.Vec3(3, 4, 5), id.Apply(math32.Vec3(3, 4, 5)))

	var zero Transform
	assertVec(t, math32.Vec3(1, 2, 3), zero.Apply(math32.Vec3(1, 2, 3)))
}

func TestTrackerLookup(t *testing.T) {
	tk := NewTracker("/world")
	assert.Equal(t, "world", tk.FixedFrame)
	_, ok := tk.Lookup("base")
	assert.False(t, ok)

	tk.SetTransform("world", "base", Transform{Translation: math32.Vec3(1, 0, 0), Rotation: yaw90})
	tk.SetTransform("/base", "/arm1", Transform{Translation: math32.Vec3(1, 0, 0), Rotation: math32.NewQuat(0, 0, 0, 1)})
	assert.Equal(t, 2, tk.Frames())

	tr, ok := tk.Lookup("arm1")
	require.True(t, ok)
	assertVec(t, math32.Vec3(1, 1, 0), tr.Translation)

	tr, ok = tk.Lookup("world")
	require.True(t, ok)
	assertVec(t, math32.Vector3{}, tr.Translation)

	// fixed frame below the root of the tree
	tk2 := NewTracker("base")
	tk2.SetTransform("world", "base", Transform{Translation: math32.Vec3(1, 0, 0), Rotation: math32.NewQuat(0, 0, 0, 1)})
	tk2.SetTransform("world", "cam", Transform{Translation: math32.Vec3(0, 2, 0), Rotation: math32.NewQuat(0, 0, 0, 1)})
	tr, ok = tk2.Lookup("cam")
	require.True(t, ok)
	assertVec(t, math32.Vec3(-1, 2, 0), tr.Translation)
}

func TestTrackerCycle(t *testing.T) {
	tk := NewTracker("world")
	id := Identity()
	tk.SetTransform("a", "b", id)
	tk.SetTransform("b", "a", id)
	_, ok := tk.Lookup("a")
	assert.False(t, ok)
	tk.SetTransform("a", "a", id)
	assert.Equal(t, 2, tk.Frames())
}

func TestTrackerSubscribe(t *testing.T) {
	tk := NewTracker("world")
	tk.SetTransform("world", "base", Identity())

	var got []math32.Vector3
	cancel := tk.Subscribe("arm1", func(tr Transform) {
		got = append(got, tr.Translation)
	})
	assert.Empty(t, got)
	assert.Equal(t, 1, tk.NumSubscriptions())

	tk.SetTransform("base", "arm1", Transform{Translation: math32.Vec3(0, 0, 1)})
	require.Len(t, got, 1)
	assertVec(t, math32.Vec3(0, 0, 1), got[0])

	// moving an ancestor moves the subscribed frame
	tk.SetTransform("world", "base", Transform{Translation: math32.Vec3(2, 0, 0)})
	require.Len(t, got, 2)
	assertVec(t, math32.Vec3(2, 0, 1), got[1])

	// unrelated frames do not notify
	tk.SetTransform("world", "other", Identity())
	assert.Len(t, got, 2)

	// immediate delivery for a known frame
	var now []Transform
	cancel2 := tk.Subscribe("base", func(tr Transform) { now = append(now, tr) })
	assert.Len(t, now, 1)

	cancel()
	cancel()
	cancel2()
	assert.Equal(t, 0, tk.NumSubscriptions())
	tk.SetTransform("base", "arm1", Identity())
	assert.Len(t, got, 2)
}

func TestBindFrame(t *testing.T) {
	tk := NewTracker("world")
	root := scene.NewRoot("root")
	fr := tk.BindFrame("robot1/base")
	root.AddChild(fr)
	assert.Equal(t, "robot1/base", fr.FrameID)
	assert.Equal(t, 1, tk.NumSubscriptions())

	tk.SetTransform("world", "robot1/base", Transform{Translation: math32.Vec3(1, 2, 3), Rotation: yaw90})
	ps := fr.PoseCopy()
	assertVec(t, math32.Vec3(1, 2, 3), ps.Pos)
	assert.InDelta(t, yaw90.Z, ps.Quat.Z, 1e-6)

	fr.Delete()
	assert.Equal(t, 0, tk.NumSubscriptions())
	tk.SetTransform("world", "robot1/base", Identity())
	assertVec(t, math32.Vec3(1, 2, 3), fr.PoseCopy().Pos)
}

func TestHandleTFMessage(t *testing.T) {
	tk := NewTracker("world")
	msg := `{"transforms": [
		{"header": {"frame_id": "/world"}, "child_frame_id": "base",
		 "transform": {"translation": {"x": 1, "y": 0, "z": 0}, "rotation": {"x": 0, "y": 0, "z": 0, "w": 1}}},
		{"header": {"frame_id": "base"}, "child_frame_id": "arm1",
		 "transform": {"translation": {"x": 0, "y": 0, "z": 0.5}, "rotation": {"x": 0, "y": 0, "z": 0, "w": 1}}}
	]}`
	require.NoError(t, tk.HandleTFMessage([]byte(msg)))
	tr, ok := tk.Lookup("arm1")
	require.True(t, ok)
	assertVec(t, math32.Vec3(1, 0, 0.5), tr.Translation)

	assert.Error(t, tk.HandleTFMessage([]byte("{")))
}

type fakeSubscriber struct {
	mu   sync.Mutex
	subs map[string]func(json.RawMessage)
}

func (fs *fakeSubscriber) Subscribe(topic, msgType string, fn func(json.RawMessage)) (func(), error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.subs[topic] = fn
	return func() {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		delete(fs.subs, topic)
	}, nil
}

func (fs *fakeSubscriber) num() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.subs)
}

func (fs *fakeSubscriber) publish(topic, msg string) {
	fs.mu.Lock()
	fn := fs.subs[topic]
	fs.mu.Unlock()
	fn(json.RawMessage(msg))
}

func TestFollow(t *testing.T) {
	fs := &fakeSubscriber{subs: map[string]func(json.RawMessage){}}
	tk := NewTracker("world")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop, err := Follow(ctx, fs, tk)
	require.NoError(t, err)
	assert.Equal(t, 2, fs.num())

	fs.publish("/tf_static", `{"transforms": [{"header": {"frame_id": "world"}, "child_frame_id": "base",
		"transform": {"translation": {"x": 0, "y": 3, "z": 0}, "rotation": {"w": 1}}}]}`)
	tr, ok := tk.Lookup("base")
	require.True(t, ok)
	assertVec(t, math32.Vec3(0, 3, 0), tr.Translation)

	stop()
	stop()
	require.Eventually(t, func() bool { return fs.num() == 0 }, time.Second, time.Millisecond)

	_, err = Follow(ctx, fs, tk, "/tf")
	require.NoError(t, err)
	cancel()
	require.Eventually(t, func() bool { return fs.num() == 0 }, time.Second, time.Millisecond)
}

func TestSubscribeOrder(t *testing.T) {
	tk := NewTracker("world")
	tk.SetTransform("world", "base", Transform{Translation: math32.Vec3(0, 0, 0)})

	const n = 200
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= n; i++ {
			tk.SetTransform("world", "base", Transform{Translation: math32.Vec3(float32(i), 0, 0)})
		}
	}()
	var mu sync.Mutex
	var xs []float32
	cancel := tk.Subscribe("base", func(tr Transform) {
		mu.Lock()
		xs = append(xs, tr.Translation.X)
		mu.Unlock()
	})
	defer cancel()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, xs)
	for i := 1; i < len(xs); i++ {
		assert.Less(t, xs[i-1], xs[i])
	}
	assert.Equal(t, float32(n), xs[len(xs)-1])
}

func TestSubscriptionDropsStale(t *testing.T) {
	var got []float32
	sub := &subscription{fn: func(tr Transform) { got = append(got, tr.Translation.X) }}
	sub.deliver(2, Transform{Translation: math32.Vec3(2, 0, 0)})
	sub.deliver(1, Transform{Translation: math32.Vec3(1, 0, 0)})
	sub.deliver(3, Transform{Translation: math32.Vec3(3, 0, 0)})
	assert.Equal(t, []float32{2, 3}, got)
}
