// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"path/filepath"

	"cogentcore.org/core/base/errors"
	"github.com/fsnotify/fsnotify"
)

// Watch inspects the given URDF file, and inspects it again every time
// it or the path table file changes, until interrupted.
func Watch(c *Config) error {
	if c.Input == "" {
		return errors.New("urdf watch: a URDF file is required")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// watch the directories, since editors often replace files
	files := map[string]bool{}
	for _, fn := range []string{c.Input, c.Table} {
		if fn == "" {
			continue
		}
		abs, err := filepath.Abs(fn)
		if err != nil {
			return err
		}
		files[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}
	errors.Log(Inspect(c))
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !files[event.Name] || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			slog.Info("urdf watch: changed", "file", event.Name)
			errors.Log(Inspect(c))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("urdf watch: watcher error", "err", err)
		}
	}
}
