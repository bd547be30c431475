// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/urdf/scene"
	"cogentcore.org/urdf/urdf"
)

// MeshLoader loads meshes asynchronously. LoadMesh must return without
// waiting for the load, and later call exactly one of onLoaded or
// onError, from any goroutine. [mesh.Loader] is the standard implementation.
type MeshLoader interface {
	LoadMesh(ctx context.Context, path string, onLoaded func(*scene.Mesh), onError func(error))
}

// FrameBinder returns a new frame node whose pose tracks the named
// coordinate frame. [tf.Tracker] is the standard implementation.
type FrameBinder interface {
	BindFrame(frame string) *scene.Frame
}

// FrameBinderFunc is a function that implements [FrameBinder].
type FrameBinderFunc func(frame string) *scene.Frame

func (f FrameBinderFunc) BindFrame(frame string) *scene.Frame {
	return f(frame)
}

// StaticFrames is a [FrameBinder] whose frames are never updated.
var StaticFrames = FrameBinderFunc(func(frame string) *scene.Frame {
	return scene.NewFrame(frame, frame)
})

// AssembleOptions are the inputs of [Assemble] other than the model.
type AssembleOptions struct {

	// BasePath is joined with relative mesh paths, and with package
	// paths that have no entry in PathTable.
	BasePath string

	// PathTable maps package names to directories.
	PathTable urdf.PathTable

	// FramePrefix is prepended to link names to get frame names.
	FramePrefix string

	// MeshLoader loads mesh geometry. Mesh visuals are skipped if it is nil.
	MeshLoader MeshLoader

	// FrameBinder creates the link frames; [StaticFrames] if nil.
	FrameBinder FrameBinder
}

// Assembly is the scene subtree for a robot model: one [scene.Frame] per
// link under a common root. Mesh geometry is added to the frames as it
// loads, which may be long after [Assemble] returns.
type Assembly struct {

	// Root is the group containing all of the frames.
	Root *scene.Group

	// Frames are the link frames, in model link order.
	Frames []*scene.Frame

	cancel  context.CancelFunc
	loads   sync.WaitGroup
	mu      sync.Mutex
	pending int
	issued  int
	failed  []*MeshFailure
}

// MeshFailure records a mesh load that failed, leaving the frame of
// Link without the geometry of Visual.
type MeshFailure struct {
	Link   string
	Visual string

	// Path is the resolved mesh path.
	Path string
	Err  error

	order int
}

func (mf *MeshFailure) Error() string {
	return fmt.Sprintf("link %q visual %q: %v", mf.Link, mf.Visual, mf.Err)
}

func (mf *MeshFailure) Unwrap() error {
	return mf.Err
}

// Assemble builds the scene subtree for the given model. For each link
// in order it binds one frame to FramePrefix + link name, attaches
// primitive shapes directly, and issues one load for each mesh visual
// using the resolved mesh path. It returns once all frames exist and
// all loads are issued, without waiting for any load to complete. A
// failed load leaves its frame without that geometry. Cancelling ctx,
// or calling [Assembly.Destroy], cancels loads still in progress.
func Assemble(ctx context.Context, model *urdf.Model, opts AssembleOptions) *Assembly {
	if opts.FrameBinder == nil {
		opts.FrameBinder = StaticFrames
	}
	name := model.Name
	if name == "" {
		name = "robot"
	}
	ctx, cancel := context.WithCancel(ctx)
	as := &Assembly{
		Root:   scene.NewRoot(name),
		cancel: cancel,
	}
	for _, l := range model.Links {
		fr := opts.FrameBinder.BindFrame(opts.FramePrefix + l.Name)
		fr.Name = l.Name
		as.Root.AddChild(fr)
		as.Frames = append(as.Frames, fr)
		for vi, v := range l.Visuals {
			as.addVisual(ctx, fr, l, vi, v, &opts)
		}
	}
	return as
}

// addVisual attaches the geometry of one visual to the frame.
func (as *Assembly) addVisual(ctx context.Context, fr *scene.Frame, l *urdf.Link, vi int, v *urdf.Visual, opts *AssembleOptions) {
	name := v.Name
	if name == "" {
		name = fmt.Sprintf("%s-visual-%d", l.Name, vi)
	}
	g := &v.Geometry
	switch {
	case g.Mesh != nil:
		if opts.MeshLoader == nil {
			slog.Warn("robot: no mesh loader", "link", l.Name, "mesh", g.Mesh.Filename)
			return
		}
		path := urdf.ResolvePath(g.Mesh.Filename, opts.BasePath, opts.PathTable)
		mf := &MeshFailure{Link: l.Name, Visual: name, Path: path}
		as.loadMesh(ctx, fr, mf, func(ms *scene.Mesh) *scene.Solid {
			sld := newSolid(name, ms, v)
			sld.Source = path
			sld.Pose.Scale = g.Mesh.Scale
			return sld
		}, opts.MeshLoader)
	case g.Box != nil:
		fr.AddGeometry(newSolid(name, scene.NewBox(name, g.Box.Size), v))
	case g.Cylinder != nil:
		fr.AddGeometry(newSolid(name, scene.NewCylinder(name, g.Cylinder.Radius, g.Cylinder.Length, scene.DefaultSegments), v))
	case g.Sphere != nil:
		fr.AddGeometry(newSolid(name, scene.NewSphere(name, g.Sphere.Radius, scene.DefaultSegments), v))
	default:
		slog.Warn("robot: visual without geometry", "link", l.Name, "visual", name)
	}
}

// loadMesh issues one mesh load, adding the solid made by mk to the
// frame on success, and recording mf on failure.
func (as *Assembly) loadMesh(ctx context.Context, fr *scene.Frame, mf *MeshFailure, mk func(*scene.Mesh) *scene.Solid, ld MeshLoader) {
	path := mf.Path
	as.loads.Add(1)
	as.mu.Lock()
	as.pending++
	mf.order = as.issued
	as.issued++
	as.mu.Unlock()
	var once sync.Once
	done := func(err error) {
		once.Do(func() {
			as.mu.Lock()
			as.pending--
			if err != nil {
				mf.Err = err
				as.failed = append(as.failed, mf)
			}
			as.mu.Unlock()
			as.loads.Done()
		})
	}
	ld.LoadMesh(ctx, path, func(ms *scene.Mesh) {
		if !fr.AddGeometry(mk(ms)) {
			slog.Debug("robot: mesh loaded after frame release", "frame", fr.FrameID, "path", path)
		}
		done(nil)
	}, func(err error) {
		slog.Warn("robot: mesh load failed", "frame", fr.FrameID, "path", path, "err", err)
		done(err)
	})
}

func newSolid(name string, ms *scene.Mesh, v *urdf.Visual) *scene.Solid {
	sld := scene.NewSolid(name, ms)
	sld.Pose.Pos = v.Origin.XYZ
	sld.Pose.Quat = v.Origin.Quat()
	if v.Material != nil && v.Material.Color != nil {
		sld.SetColor(*v.Material.Color)
	}
	return sld
}

// Frame returns the frame of the given link, or nil.
func (as *Assembly) Frame(link string) *scene.Frame {
	for _, fr := range as.Frames {
		if fr.Name == link {
			return fr
		}
	}
	return nil
}

// Pending returns the number of mesh loads that have not completed.
func (as *Assembly) Pending() int {
	as.mu.Lock()
	defer as.mu.Unlock()
	return as.pending
}

// Failed returns the mesh loads that failed, in the order
// they were issued.
func (as *Assembly) Failed() []*MeshFailure {
	as.mu.Lock()
	failed := slices.Clone(as.failed)
	as.mu.Unlock()
	slices.SortFunc(failed, func(a, b *MeshFailure) int {
		return cmp.Compare(a.order, b.order)
	})
	return failed
}

// Wait blocks until every issued mesh load has completed or failed.
func (as *Assembly) Wait() {
	as.loads.Wait()
}

// Destroy cancels pending mesh loads, releases all of the frame
// subscriptions and deletes the root from its parent, if any.
func (as *Assembly) Destroy() {
	as.cancel()
	if as.Root.IsDestroyed() {
		return
	}
	as.Root.Delete()
}
