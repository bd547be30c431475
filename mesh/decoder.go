// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh loads mesh files into [scene.Mesh] geometry. Format
// decoders register themselves in [Decoders] by file extension; import
// the format packages (mesh/obj, mesh/stl, mesh/gltf, mesh/collada) for
// their side effect to enable them. [Loader] loads meshes asynchronously with
// caching, de-duplication of concurrent requests and a limit on
// concurrent decoding.
package mesh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/urdf/scene"
)

// Decoder decodes one mesh file format.
// This interface is implemented by the different format-specific decoders.
type Decoder interface {

	// New returns a new instance of the decoder used for a specific decoding.
	New() Decoder

	// Desc returns the description of this decoder.
	Desc() string

	// Decode reads the given data and decodes it into a single mesh,
	// merging all of the objects in the file. The name is the path the
	// data was read from, which is used to name the mesh.
	Decode(r io.Reader, name string) (*scene.Mesh, error)
}

// Decoders is the master list of decoders, indexed by the
// lower-case extension including the leading dot.
var Decoders = map[string]Decoder{}

// ErrUnsupportedFormat is returned when no decoder is registered
// for the extension of a mesh path.
var ErrUnsupportedFormat = errors.New("mesh: unsupported format")

// DecodeError records a failure to load or decode a mesh.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("mesh: loading %q: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Register registers the given decoder for the given extension,
// for example ".stl".
func Register(ext string, dec Decoder) {
	Decoders[strings.ToLower(ext)] = dec
}

// Ext returns the lower-case extension of the given path or URL,
// ignoring any URL query or fragment.
func Ext(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 && strings.Contains(path, "://") {
		path = path[:i]
	}
	return strings.ToLower(filepath.Ext(path))
}

// DecoderFor returns a new decoder instance for the given path
// based on its extension.
func DecoderFor(path string) (Decoder, error) {
	ext := Ext(path)
	dt, has := Decoders[ext]
	if !has {
		return nil, fmt.Errorf("%w: extension %q not found in Decoders list for %q", ErrUnsupportedFormat, ext, path)
	}
	return dt.New(), nil
}

// Decode decodes the mesh read from r using a decoder based on the
// extension of path, which is not otherwise used to read the data.
// This can be used for loading data embedded in an executable for example.
// A decoder panic on malformed data is returned as a [*DecodeError].
func Decode(path string, r io.Reader) (ms *scene.Mesh, err error) {
	dec, err := DecoderFor(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			ms, err = nil, &DecodeError{Path: path, Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()
	ms, err = dec.Decode(r, path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if ms.Name == "" {
		ms.Name = path
	}
	if err := ms.Validate(); err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	if len(ms.Normals) == 0 {
		ms.ComputeNormals()
	}
	ms.ComputeBBox()
	return ms, nil
}

// DecodeFile decodes the given file using a decoder based on the file
// extension.
func DecodeFile(fname string) (*scene.Mesh, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(fname, f)
}
