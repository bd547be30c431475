// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

// States are the states of a [Client].
type States int32 //enums:enum

const (
	// Idle is the state before [Client.Start].
	Idle States = iota

	// Fetching is waiting for the description text.
	Fetching

	// Parsing is parsing the description text.
	Parsing

	// Assembling is building the scene subtree.
	Assembling

	// Attached is the final state after the subtree was added to the
	// root. Mesh geometry may still be loading.
	Attached

	// Failed is the final state after a fetch or parse failure,
	// or after [Client.Close] before reaching Attached.
	Failed
)

// IsFinal returns whether no more transitions can happen from s.
func (s States) IsFinal() bool {
	return s == Attached || s == Failed
}
