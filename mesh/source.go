// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Source opens mesh data at resolved paths.
type Source interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// FileSource opens meshes from the local filesystem. Paths may have a
// file:// prefix. Relative paths are taken relative to Root if it is set.
type FileSource struct {
	Root string
}

func (fs *FileSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = strings.TrimPrefix(path, "file://")
	if fs.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(fs.Root, path)
	}
	return os.Open(path)
}

// HTTPSource opens meshes from http and https URLs.
type HTTPSource struct {

	// Client is the client to use; [http.DefaultClient] if nil.
	Client *http.Client
}

func (hs *HTTPSource) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	cl := hs.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	resp, err := cl.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// MultiSource dispatches http and https URLs to HTTP and
// everything else to File.
type MultiSource struct {
	File FileSource
	HTTP HTTPSource
}

func (ms *MultiSource) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return ms.HTTP.Open(ctx, path)
	}
	return ms.File.Open(ctx, path)
}
