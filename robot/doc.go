// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package robot loads a robot description into a scene. [Assemble]
// builds the scene subtree for a parsed model, binding one frame per
// link and loading mesh geometry in the background. [Client] runs the
// whole pipeline: it fetches the description text, parses it, assembles
// it and attaches the result to a root node, as an explicit state
// machine that reports completion and failure through events.
package robot

//go:generate core generate
