// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name  string
		uri   string
		base  string
		table PathTable
		want  string
	}{
		{"package mapped", "package://armA/mesh/link1.stl", "/", PathTable{"armA": "media/robots/armA/"}, "media/robots/armA/mesh/link1.stl"},
		{"package unmapped", "package://armA/mesh/link1.stl", "/assets/", nil, "/assets/armA/mesh/link1.stl"},
		{"package other entry", "package://armA/mesh/link1.stl", "/assets/", PathTable{"armB": "b/"}, "/assets/armA/mesh/link1.stl"},
		{"package no trailing slash", "package://gripper/finger.stl", "/", PathTable{"gripper": "media/grippers"}, "media/grippers/finger.stl"},
		{"package url dir", "package://robotX/arm1.dae", "/", PathTable{"robotX": "http://host/meshes/"}, "http://host/meshes/arm1.dae"},
		{"package only", "package://robotX", "/", PathTable{"robotX": "meshes/robotX/"}, "meshes/robotX/"},
		{"relative", "meshes/arm.stl", "/assets", nil, "/assets/meshes/arm.stl"},
		{"relative default base", "arm.stl", "/", nil, "/arm.stl"},
		{"absolute", "/opt/meshes/arm.stl", "/assets/", nil, "/opt/meshes/arm.stl"},
		{"url", "https://example.com/arm.stl", "/assets/", nil, "https://example.com/arm.stl"},
		{"empty base", "arm.stl", "", nil, "arm.stl"},
		{"malformed", "package:/oops", "/assets/", nil, "/assets/package:/oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.uri, tt.base, tt.table))
		})
	}
}

func TestResolvePathDeterministic(t *testing.T) {
	table := PathTable{"armA": "media/robots/armA/", "armB": "/b"}
	uris := []string{"package://armA/x.stl", "package://armB/y.stl", "package://armC/z.stl", "rel.stl", "/abs.stl"}
	first := make([]string, len(uris))
	for i, u := range uris {
		first[i] = ResolvePath(u, "/base/", table)
	}
	// reverse order must give identical results
	for i := len(uris) - 1; i >= 0; i-- {
		for range 3 {
			assert.Equal(t, first[i], ResolvePath(uris[i], "/base/", table))
		}
	}
}

func TestIsAbsolute(t *testing.T) {
	assert.True(t, IsAbsolute("/a/b"))
	assert.True(t, IsAbsolute("file:///a/b"))
	assert.True(t, IsAbsolute("package://a/b"))
	assert.False(t, IsAbsolute("a/b"))
	assert.False(t, IsAbsolute(""))
}
