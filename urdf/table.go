// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urdf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// OpenPathTable reads a [PathTable] from the given file, which maps
// package names to directories. The format is chosen by extension:
// .yaml / .yml, .toml, or .json. A leading ~ in a directory is expanded
// to the home directory.
func OpenPathTable(filename string) (PathTable, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	pt := PathTable{}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &pt)
	case ".toml":
		err = toml.Unmarshal(b, &pt)
	case ".json":
		err = json.Unmarshal(b, &pt)
	default:
		return nil, fmt.Errorf("urdf.OpenPathTable: unsupported file extension %q for %q", ext, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("urdf.OpenPathTable: %q: %w", filename, err)
	}
	return pt, pt.expandHome()
}

// ParsePathTable parses entries of the form name=dir, as given on a
// command line, into a [PathTable].
func ParsePathTable(entries ...string) (PathTable, error) {
	pt := PathTable{}
	for _, e := range entries {
		name, dir, ok := strings.Cut(e, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("urdf.ParsePathTable: invalid entry %q, expected name=dir", e)
		}
		pt[name] = strings.TrimSpace(dir)
	}
	return pt, pt.expandHome()
}

func (pt PathTable) expandHome() error {
	for name, dir := range pt {
		exp, err := homedir.Expand(dir)
		if err != nil {
			return fmt.Errorf("urdf: package %q: %w", name, err)
		}
		pt[name] = exp
	}
	return nil
}

// Suggest returns the package name in the table that is most similar
// to the given name, for reporting package references that have no
// entry. It returns false if no name is similar enough.
func (pt PathTable) Suggest(name string) (string, bool) {
	best, bestSim := "", 0.5
	lev := metrics.NewLevenshtein()
	for pkg := range pt {
		sim := strutil.Similarity(name, pkg, lev)
		if sim > bestSim || (sim == bestSim && best != "" && pkg < best) {
			best, bestSim = pkg, sim
		}
	}
	return best, best != ""
}

// PackageName returns the package name of a package:// reference.
func PackageName(uri string) (string, bool) {
	rest, ok := strings.CutPrefix(uri, PackageScheme)
	if !ok {
		return "", false
	}
	pkg, _, _ := strings.Cut(rest, "/")
	return pkg, true
}
