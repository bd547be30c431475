// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cogentcore.org/urdf/robot"
	"cogentcore.org/urdf/urdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathTable(t *testing.T) {
	c := &Config{Table: "../../urdf/testdata/paths.yaml", Packages: []string{"robotX=/opt/robotX", "extra=x"}}
	pt, err := c.pathTable()
	require.NoError(t, err)
	assert.Equal(t, "/opt/robotX", pt["robotX"])
	assert.Equal(t, "media/grippers", pt["gripper"])
	assert.Equal(t, "x", pt["extra"])

	c = &Config{Packages: []string{"bad"}}
	_, err = c.pathTable()
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	cmds := commands()
	names := make([]string, len(cmds))
	roots := 0
	for i, cmd := range cmds {
		names[i] = cmd.Name
		assert.NotEmpty(t, cmd.Doc, cmd.Name)
		require.NotNil(t, cmd.Func, cmd.Name)
		if cmd.Root {
			roots++
			assert.Equal(t, "inspect", cmd.Name)
		}
	}
	assert.Equal(t, []string{"inspect", "resolve", "watch", "load"}, names)
	assert.Equal(t, 1, roots)
}

func TestPrintModel(t *testing.T) {
	b, err := os.ReadFile(filepath.Join("..", "..", "urdf", "testdata", "arm.urdf"))
	require.NoError(t, err)
	m, err := urdf.Parse(string(b))
	require.NoError(t, err)

	var buf bytes.Buffer
	newPrinter(&buf).model(m, "/", urdf.PathTable{"robotX": "meshes/robotX/"})
	out := buf.String()
	assert.Contains(t, out, "robot robotX: 3 links, 2 joints")
	assert.Contains(t, out, "package://robotX/arm1.stl -> meshes/robotX/arm1.stl")
	assert.Contains(t, out, "joint shoulder (revolute)")
	assert.NotContains(t, out, "unreachable")
}

func TestPrintAssembly(t *testing.T) {
	m, err := urdf.Parse(`<robot name="r"><link name="a"><visual><geometry><box size="1 1 1"/></geometry></visual></link></robot>`)
	require.NoError(t, err)
	as := robot.Assemble(context.Background(), m, robot.AssembleOptions{})
	var buf bytes.Buffer
	pr := newPrinter(&buf)
	pr.assembly(as)
	pr.failures([]*robot.MeshFailure{{Link: "a", Visual: "shell", Path: "b.3ds", Err: errors.New("unsupported")}})
	out := buf.String()
	assert.Contains(t, out, "r: 1 frames")
	assert.Contains(t, out, "a-visual-0 12 triangles from primitive")
	assert.Contains(t, out, "failed a/shell b.3ds: unsupported")
}

func TestPackageHint(t *testing.T) {
	pt := urdf.PathTable{"robotX": "meshes/robotX/"}
	assert.Equal(t, "", packageHint("package://robotX/a.stl", pt))
	assert.Equal(t, "", packageHint("meshes/a.stl", pt))
	assert.Equal(t, "", packageHint("package://robotY/a.stl", nil))
	assert.Contains(t, packageHint("package://robotx/a.stl", pt), `did you mean "robotX"`)
	assert.NotContains(t, packageHint("package://camera/a.stl", pt), "did you mean")
}
