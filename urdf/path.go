// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package urdf

import "strings"

// PackageScheme is the prefix of indirect package-style mesh references,
// of the form package://<name>/<rest>.
const PackageScheme = "package://"

// PathTable maps a package name to the base directory (or URL) that
// holds its files. It is used to resolve package:// references.
type PathTable map[string]string

// ResolvePath maps a mesh reference URI to a concrete loadable path.
//
// For a package://<name>/<rest> reference, if name is in table the result
// is table[name] joined with rest (the package name is replaced);
// otherwise it is basePath joined with <name>/<rest>. Any other reference
// is joined with basePath only if it is relative; absolute paths and
// URLs with a scheme are returned unchanged.
//
// ResolvePath does no I/O and never fails: malformed references are
// joined on a best-effort basis and left for the loader to reject.
func ResolvePath(uri, basePath string, table PathTable) string {
	if rest, ok := strings.CutPrefix(uri, PackageScheme); ok {
		pkg, sub, _ := strings.Cut(rest, "/")
		if dir, has := table[pkg]; has {
			return joinPath(dir, sub)
		}
		return joinPath(basePath, rest)
	}
	if IsAbsolute(uri) {
		return uri
	}
	return joinPath(basePath, uri)
}

// IsAbsolute returns whether the reference is an absolute path or
// has a URL scheme.
func IsAbsolute(uri string) bool {
	return strings.HasPrefix(uri, "/") || strings.Contains(uri, "://")
}

// joinPath joins base and rel with exactly one separator between
// non-empty parts. Unlike [path.Join] it does not clean the result,
// so URL bases like http://host/ keep their double slash.
func joinPath(base, rel string) string {
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(rel, "/")
}
