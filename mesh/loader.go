// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"cogentcore.org/urdf/scene"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// Loader loads meshes asynchronously from a [Source], decoding them with
// the registered [Decoders]. Concurrent requests for the same path are
// merged into one decode, decoded meshes are kept in an LRU cache, and
// at most MaxConcurrent decodes run at once.
//
// Meshes returned by a Loader may be shared between callers and must
// not be modified.
type Loader struct {

	// Source opens mesh data; a [MultiSource] if nil.
	Source Source

	// CacheSize is the number of decoded meshes to keep.
	// A value <= 0 disables caching.
	CacheSize int

	// MaxConcurrent is the maximum number of meshes read and decoded at once.
	MaxConcurrent int

	initOnce sync.Once
	cache    *lru.Cache
	sem      *semaphore.Weighted
	group    singleflight.Group

	// pending tracks issued loads that have not yet completed.
	pending sync.WaitGroup
}

// NewLoader returns a new [Loader] with default settings.
func NewLoader() *Loader {
	ld := &Loader{}
	ld.Defaults()
	return ld
}

// Defaults sets default values.
func (ld *Loader) Defaults() {
	ld.CacheSize = 64
	ld.MaxConcurrent = 8
}

// SetSource sets the [Loader.Source].
func (ld *Loader) SetSource(src Source) *Loader {
	ld.Source = src
	return ld
}

func (ld *Loader) init() {
	ld.initOnce.Do(func() {
		if ld.Source == nil {
			ld.Source = &MultiSource{}
		}
		if ld.CacheSize > 0 {
			ld.cache, _ = lru.New(ld.CacheSize)
		}
		ld.sem = semaphore.NewWeighted(int64(max(ld.MaxConcurrent, 1)))
	})
}

// LoadMesh starts loading the mesh at the given resolved path and returns
// immediately. Exactly one of onLoaded or onError is called later, from
// another goroutine. Cancelling ctx makes a load that has not completed
// report ctx.Err() to onError.
func (ld *Loader) LoadMesh(ctx context.Context, path string, onLoaded func(*scene.Mesh), onError func(error)) {
	ld.init()
	ld.pending.Add(1)
	go func() {
		defer ld.pending.Done()
		ms, err := ld.Load(ctx, path)
		if err != nil {
			slog.Debug("mesh load failed", "path", path, "err", err)
			if onError != nil {
				onError(err)
			}
			return
		}
		if onLoaded != nil {
			onLoaded(ms)
		}
	}()
}

// Load loads the mesh at the given path, blocking until it is decoded,
// found in the cache, or ctx is done.
func (ld *Loader) Load(ctx context.Context, path string) (*scene.Mesh, error) {
	ld.init()
	if ld.cache != nil {
		if v, ok := ld.cache.Get(path); ok {
			return v.(*scene.Mesh), nil
		}
	}
	// the shared decode outlives any one caller's cancellation
	dctx := context.WithoutCancel(ctx)
	ch := ld.group.DoChan(path, func() (any, error) {
		return ld.decode(dctx, path)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*scene.Mesh), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (ld *Loader) decode(ctx context.Context, path string) (*scene.Mesh, error) {
	if _, err := DecoderFor(path); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if err := ld.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer ld.sem.Release(1)

	rc, err := ld.Source.Open(ctx, path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	b, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	ms, err := Decode(path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	if ld.cache != nil {
		ld.cache.Add(path, ms)
	}
	return ms, nil
}

// Preload loads all of the given paths into the cache, returning the
// first error encountered.
func (ld *Loader) Preload(ctx context.Context, paths ...string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		g.Go(func() error {
			_, err := ld.Load(ctx, p)
			return err
		})
	}
	return g.Wait()
}

// Cached returns whether the mesh for the given path is in the cache.
func (ld *Loader) Cached(path string) bool {
	ld.init()
	return ld.cache != nil && ld.cache.Contains(path)
}

// Wait blocks until every load issued by [Loader.LoadMesh] has completed.
func (ld *Loader) Wait() {
	ld.pending.Wait()
}
