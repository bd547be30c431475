// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"cogentcore.org/urdf/scene"
	"cogentcore.org/urdf/tf"
	"cogentcore.org/urdf/urdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFetcher returns text or err, counting calls.
type countingFetcher struct {
	text  string
	err   error
	calls atomic.Int32
}

func (cf *countingFetcher) Fetch(ctx context.Context, param string) (string, error) {
	cf.calls.Add(1)
	return cf.text, cf.err
}

func waitClient(t *testing.T, c *Client) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func TestClientAttach(t *testing.T) {
	cf := &countingFetcher{text: twoLinks}
	ld := &testLoader{mode: "never"}
	root := scene.NewRoot("scene")
	c := New(Options{Fetcher: cf, Root: root, MeshLoader: ld, PathTable: robotXTable, FramePrefix: "robot1/"})
	assert.Equal(t, Idle, c.State())

	var changes atomic.Int32
	c.On(Change, func(e *Event) {
		changes.Add(1)
		assert.Equal(t, Attached, e.State)
		assert.Same(t, c, e.Client)
	})
	c.On(Error, func(e *Event) { t.Error("unexpected error event", e.Err) })
	require.NoError(t, c.Start())
	require.NoError(t, waitClient(t, c))

	assert.Equal(t, Attached, c.State())
	assert.EqualValues(t, 1, changes.Load())
	assert.EqualValues(t, 1, cf.calls.Load())
	assert.Equal(t, "robotX", c.Model().Name)
	require.Equal(t, 1, root.NumChildren())
	as := c.Assembly()
	assert.Equal(t, root.Child(0), as.Root.This)
	assert.Equal(t, "robot1/arm1", as.Frame("arm1").FrameID)
	// meshes may still be loading after attach
	assert.Equal(t, 1, as.Pending())
	assert.Equal(t, []string{"meshes/robotX/arm1.stl"}, ld.paths())

	assert.ErrorIs(t, c.Start(), ErrNotIdle)
	assert.EqualValues(t, 1, cf.calls.Load())

	// late listener
	late := 0
	c.On(Change, func(e *Event) { late++ })
	assert.Equal(t, 1, late)
	assert.EqualValues(t, 1, changes.Load())
}

func TestClientMeshFailure(t *testing.T) {
	root := scene.NewRoot("scene")
	c := New(Options{Fetcher: &countingFetcher{text: twoLinks}, Root: root, MeshLoader: &testLoader{mode: "fail"}, PathTable: robotXTable})
	var changes atomic.Int32
	c.On(Change, func(e *Event) { changes.Add(1) })
	c.On(Error, func(e *Event) { t.Error("unexpected error event", e.Err) })
	require.NoError(t, c.Start())
	require.NoError(t, waitClient(t, c))

	assert.Equal(t, Attached, c.State())
	assert.EqualValues(t, 1, changes.Load())
	as := c.Assembly()
	as.Wait()
	assert.Len(t, as.Frames, 2)
	assert.Equal(t, 0, as.Frame("arm1").NumGeometry())
	require.Len(t, as.Failed(), 1)
	assert.Equal(t, "arm1", as.Failed()[0].Link)
	assert.Equal(t, 1, root.NumChildren())
}

func TestClientDefaults(t *testing.T) {
	var param string
	c := NewClient(Options{Fetcher: FetchFunc(func(ctx context.Context, p string) (string, error) {
		param = p
		return `<robot name="r"><link name="a"/></robot>`, nil
	})})
	require.NoError(t, waitClient(t, c))
	assert.Equal(t, DefaultParam, param)
	opts := c.Options()
	assert.Equal(t, "/", opts.BasePath)
	assert.NotNil(t, opts.MeshLoader)
	require.NotNil(t, opts.Root)
	assert.Equal(t, 1, opts.Root.AsTree().NumChildren())
}

func TestClientFetchFailure(t *testing.T) {
	cause := errors.New("connection refused")
	root := scene.NewRoot("scene")
	c := New(Options{Fetcher: &countingFetcher{err: cause}, Root: root})
	errs := make(chan error, 1)
	c.On(Error, func(e *Event) { errs <- e.Err })
	c.On(Change, func(e *Event) { t.Error("unexpected change") })
	require.NoError(t, c.Start())

	err := waitClient(t, c)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, DefaultParam, fe.Param)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, err, <-errs)
	assert.Equal(t, Failed, c.State())
	assert.Equal(t, 0, root.NumChildren())
	assert.Nil(t, c.Model())
}

func TestClientParseFailure(t *testing.T) {
	root := scene.NewRoot("scene")
	c := NewClient(Options{Fetcher: &countingFetcher{text: "<robot><link"}, Root: root})
	err := waitClient(t, c)
	var pe *urdf.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "<robot><link", pe.Text)
	assert.Equal(t, 0, root.NumChildren())

	var got error
	c.On(Error, func(e *Event) { got = e.Err })
	assert.Equal(t, err, got)
}

func TestClientNoFetcher(t *testing.T) {
	c := New(Options{})
	var got error
	c.On(Error, func(e *Event) { got = e.Err })
	require.NoError(t, c.Start())
	var fe *FetchError
	assert.ErrorAs(t, got, &fe)
	assert.Equal(t, Failed, c.State())
}

func TestClientCloseFetching(t *testing.T) {
	started := make(chan struct{})
	c := New(Options{Fetcher: FetchFunc(func(ctx context.Context, p string) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})})
	c.On(Error, func(e *Event) { t.Error("unexpected error event", e.Err) })
	require.NoError(t, c.Start())
	<-started
	assert.Equal(t, Fetching, c.State())
	c.Close()
	assert.ErrorIs(t, waitClient(t, c), ErrClosed)
	assert.Equal(t, Failed, c.State())
	c.Close()
}

func TestClientCloseAttached(t *testing.T) {
	tk := tf.NewTracker("world")
	ld := &testLoader{mode: "never"}
	root := scene.NewRoot("scene")
	c := NewClient(Options{Fetcher: &countingFetcher{text: twoLinks}, Root: root, FrameBinder: tk, MeshLoader: ld})
	require.NoError(t, waitClient(t, c))
	assert.Equal(t, 2, tk.NumSubscriptions())

	c.Close()
	assert.Equal(t, Attached, c.State())
	assert.NoError(t, c.Err())
	assert.Equal(t, 0, root.NumChildren())
	assert.Equal(t, 0, tk.NumSubscriptions())
	assert.ErrorIs(t, ld.calls[0].ctx.Err(), context.Canceled)
}

func TestParamFetcher(t *testing.T) {
	var calls atomic.Int32
	deliver := ParamFetcher(func(param string, callback func(string)) {
		calls.Add(1)
		go callback("<robot name=\"cb\"><link name=\"a\"/></robot>")
	})
	c := NewClient(Options{Fetcher: deliver})
	require.NoError(t, waitClient(t, c))
	assert.Equal(t, "cb", c.Model().Name)
	assert.EqualValues(t, 1, calls.Load())

	// a callback fetch that never delivers stalls until the context is done
	stall := ParamFetcher(func(param string, callback func(string)) {})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := stall.Fetch(ctx, "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStates(t *testing.T) {
	assert.Equal(t, "Assembling", Assembling.String())
	assert.Equal(t, "42", States(42).String())
	assert.True(t, Failed.IsFinal())
	assert.False(t, Parsing.IsFinal())
	assert.Equal(t, "Change", Change.String())
	assert.Len(t, StatesValues(), int(StatesN))

	var st States
	require.NoError(t, st.SetString("Attached"))
	assert.Equal(t, Attached, st)
	assert.Error(t, st.SetString("Loaded"))

	b, err := Fetching.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Fetching", string(b))
	var ev Events
	require.NoError(t, ev.UnmarshalText([]byte("Error")))
	assert.Equal(t, Error, ev)
}
