// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command urdf inspects robot descriptions, resolves mesh references,
// and loads robots from a running rosbridge server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"cogentcore.org/urdf/mesh"
	"cogentcore.org/urdf/robot"
	"cogentcore.org/urdf/rosbridge"
	"cogentcore.org/urdf/scene"
	"cogentcore.org/urdf/tf"
	"cogentcore.org/urdf/urdf"
)

// Config is the configuration information for the urdf cli.
type Config struct {

	// Input is the URDF file to inspect, or the mesh reference to resolve.
	Input string `posarg:"0" required:"-"`

	// BasePath is joined with relative mesh paths, and with package
	// paths that are not in the path table.
	BasePath string `default:"/"`

	// Table is a .yaml, .toml or .json file mapping package names to directories.
	Table string `flag:"t,table"`

	// Packages are additional name=dir package mappings,
	// which take precedence over the Table file.
	Packages []string `flag:"p,package"`

	// URL is the rosbridge server URL.
	URL string `cmd:"load" default:"ws://localhost:9090"`

	// Param is the name of the robot description parameter.
	Param string `cmd:"load" default:"robot_description"`

	// Prefix is prepended to link names to get tf frame names.
	Prefix string `cmd:"load"`

	// FixedFrame is the tf frame that link poses are reported in.
	FixedFrame string `cmd:"load" default:"world"`

	// Timeout is the number of seconds to wait for the description
	// and then for the meshes.
	Timeout int `cmd:"load" default:"10"`
}

func main() {
	opts := cli.DefaultOptions("urdf", "Urdf inspects robot descriptions, resolves mesh references and loads robots over rosbridge.")
	opts.DefaultFiles = []string{"urdf.toml"}
	cli.Run(opts, &Config{}, commands()...)
}

// commands returns the urdf commands, with inspect as the root command.
func commands() []*cli.Cmd[*Config] {
	return []*cli.Cmd[*Config]{
		{Func: Inspect, Name: "inspect", Root: true,
			Doc: "Inspect parses the given URDF file and prints its links, joints and resolved mesh paths."},
		{Func: Resolve, Name: "resolve",
			Doc: "Resolve prints the path that the given mesh reference resolves to."},
		{Func: Watch, Name: "watch",
			Doc: "Watch inspects the given URDF file again every time it or the path table file changes."},
		{Func: Load, Name: "load",
			Doc: "Load loads the robot description from a rosbridge server and prints the assembled robot."},
	}
}

// pathTable returns the path table from the Table file and Packages.
func (c *Config) pathTable() (urdf.PathTable, error) {
	pt := urdf.PathTable{}
	if c.Table != "" {
		ft, err := urdf.OpenPathTable(c.Table)
		if err != nil {
			return nil, err
		}
		pt = ft
	}
	extra, err := urdf.ParsePathTable(c.Packages...)
	if err != nil {
		return nil, err
	}
	for name, dir := range extra {
		pt[name] = dir
	}
	return pt, nil
}

// Inspect parses the given URDF file and prints its links, joints
// and resolved mesh paths.
func Inspect(c *Config) error {
	if c.Input == "" {
		return errors.New("urdf inspect: a URDF file is required")
	}
	pt, err := c.pathTable()
	if err != nil {
		return err
	}
	b, err := os.ReadFile(c.Input)
	if err != nil {
		return err
	}
	model, err := urdf.Parse(string(b))
	if err != nil {
		return err
	}
	newPrinter(os.Stdout).model(model, c.BasePath, pt)
	return nil
}

// Resolve prints the path that the given mesh reference resolves to.
func Resolve(c *Config) error {
	if c.Input == "" {
		return errors.New("urdf resolve: a mesh reference is required")
	}
	pt, err := c.pathTable()
	if err != nil {
		return err
	}
	fmt.Println(urdf.ResolvePath(c.Input, c.BasePath, pt))
	if hint := packageHint(c.Input, pt); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	return nil
}

// packageHint returns a note for a package reference that has no entry
// in the table and so is resolved with the base path.
func packageHint(uri string, pt urdf.PathTable) string {
	pkg, ok := urdf.PackageName(uri)
	if !ok || len(pt) == 0 {
		return ""
	}
	if _, has := pt[pkg]; has {
		return ""
	}
	if s, ok := pt.Suggest(pkg); ok {
		return fmt.Sprintf("package %q is not in the path table (did you mean %q?); resolved with the base path", pkg, s)
	}
	return fmt.Sprintf("package %q is not in the path table; resolved with the base path", pkg)
}

// Load loads the robot description from a rosbridge server, follows
// its tf frames, waits for the meshes and prints the assembled robot.
func Load(c *Config) error {
	pt, err := c.pathTable()
	if err != nil {
		return err
	}
	timeout := time.Duration(max(c.Timeout, 1)) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rb, err := rosbridge.Dial(ctx, c.URL)
	if err != nil {
		return fmt.Errorf("urdf load: %w", err)
	}
	defer rb.Close()

	tk := tf.NewTracker(c.FixedFrame)
	stop, err := tf.Follow(context.Background(), rb, tk)
	if err != nil {
		return err
	}
	defer stop()

	root := scene.NewRoot("scene")
	cl := robot.NewClient(robot.Options{
		Fetcher:     rb,
		Param:       c.Param,
		BasePath:    c.BasePath,
		FrameBinder: tk,
		Root:        root,
		FramePrefix: c.Prefix,
		MeshLoader:  mesh.NewLoader(),
		PathTable:   pt,
	})
	defer cl.Close()
	if err := cl.Wait(ctx); err != nil {
		return err
	}

	as := cl.Assembly()
	loaded := make(chan struct{})
	go func() {
		as.Wait()
		close(loaded)
	}()
	select {
	case <-loaded:
	case <-time.After(timeout):
		errors.Log(fmt.Errorf("urdf load: %d meshes still loading after %v", as.Pending(), timeout))
	}
	pr := newPrinter(os.Stdout)
	pr.assembly(as)
	pr.failures(as.Failed())
	return nil
}
