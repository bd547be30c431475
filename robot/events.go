// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

// Events are the types of [Client] events.
type Events int32 //enums:enum

const (
	// Change is sent once the robot has been attached to the root.
	// Mesh geometry may still be loading.
	Change Events = iota

	// Error is sent when the description can not be fetched or parsed.
	// [Event.Err] is a [*FetchError] or [*urdf.ParseError].
	Error
)

// Event is sent to [Client] listeners.
type Event struct {
	Type   Events
	Client *Client

	// State is the client state when the event was sent.
	State States

	// Err is set for [Error] events.
	Err error

	handled bool
}

// SetHandled marks the event as handled, so that no
// further listeners are called.
func (e *Event) SetHandled() {
	e.handled = true
}

// IsHandled returns whether the event has been handled.
func (e *Event) IsHandled() bool {
	return e.handled
}

// Listeners registers lists of event listener functions
// to receive different event types.
type Listeners map[Events][]func(e *Event)

// Init ensures that map is constructed
func (ls *Listeners) Init() {
	if *ls != nil {
		return
	}
	*ls = make(map[Events][]func(*Event))
}

// Add adds a function for given type
func (ls *Listeners) Add(typ Events, fun func(*Event)) {
	ls.Init()
	(*ls)[typ] = append((*ls)[typ], fun)
}

// Call calls all functions for given event.
// It goes in _reverse_ order so the last functions added are the first called,
// and it stops when the event is marked as handled.
func (ls Listeners) Call(e *Event) {
	ets := ls[e.Type]
	for i := len(ets) - 1; i >= 0; i-- {
		ets[i](e)
		if e.IsHandled() {
			break
		}
	}
}
