// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPathTable(t *testing.T) {
	want := PathTable{"robotX": "meshes/robotX/", "gripper": "media/grippers"}
	for _, fn := range []string{"paths.yaml", "paths.toml", "paths.json"} {
		t.Run(fn, func(t *testing.T) {
			pt, err := OpenPathTable(filepath.Join("testdata", fn))
			require.NoError(t, err)
			assert.Equal(t, want, pt)
		})
	}
}

func TestOpenPathTableErrors(t *testing.T) {
	_, err := OpenPathTable(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenPathTable(filepath.Join("testdata", "arm.urdf"))
	assert.ErrorContains(t, err, "unsupported file extension")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0666))
	_, err = OpenPathTable(bad)
	assert.Error(t, err)
}

func TestParsePathTable(t *testing.T) {
	pt, err := ParsePathTable("robotX=meshes/robotX/", " gripper = media/grippers ")
	require.NoError(t, err)
	assert.Equal(t, PathTable{"robotX": "meshes/robotX/", "gripper": "media/grippers"}, pt)

	_, err = ParsePathTable("nodir")
	assert.Error(t, err)
	_, err = ParsePathTable("=dir")
	assert.Error(t, err)
}

func TestPathTableHome(t *testing.T) {
	homedir.DisableCache = true
	t.Setenv("HOME", "/home/robo")
	pt, err := ParsePathTable("robotX=~/meshes/robotX")
	require.NoError(t, err)
	assert.Equal(t, "/home/robo/meshes/robotX", pt["robotX"])
}

func TestPathTableSuggest(t *testing.T) {
	pt := PathTable{"robotX": "a", "gripper": "b"}
	s, ok := pt.Suggest("robotx")
	assert.True(t, ok)
	assert.Equal(t, "robotX", s)

	s, ok = pt.Suggest("grippers")
	assert.True(t, ok)
	assert.Equal(t, "gripper", s)

	_, ok = pt.Suggest("camera")
	assert.False(t, ok)
	_, ok = PathTable(nil).Suggest("robotX")
	assert.False(t, ok)
}

func TestPackageName(t *testing.T) {
	name, ok := PackageName("package://armA/mesh/link1.stl")
	assert.True(t, ok)
	assert.Equal(t, "armA", name)
	_, ok = PackageName("meshes/link1.stl")
	assert.False(t, ok)
}
