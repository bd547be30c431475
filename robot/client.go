// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/urdf/urdf"
)

var (
	// ErrNotIdle is returned by [Client.Start] on a started client.
	ErrNotIdle = errors.New("robot: client already started")

	// ErrClosed is the error of a client closed before it was attached.
	ErrClosed = errors.New("robot: client closed")

	errNoFetcher = errors.New("no fetcher")
)

// Client loads one robot description into a scene: it fetches the
// description text once, parses it, assembles the scene subtree and adds
// it to the root node. Each step is one transition of the client
// [States]; a fetch or parse failure moves it to [Failed] and sends an
// [Error] event, and attaching sends a [Change] event. A client is
// single shot: nothing is retried and it can not be reloaded.
type Client struct {
	opts Options

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     States
	err       error
	model     *urdf.Model
	assembly  *Assembly
	listeners Listeners
	done      chan struct{}
}

// NewClient returns a new started [Client] for the given options.
func NewClient(opts Options) *Client {
	c := New(opts)
	c.Start()
	return c
}

// New returns a new [Client] in the [Idle] state, so that listeners
// can be added before calling [Client.Start].
func New(opts Options) *Client {
	opts.Defaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{opts: opts, ctx: ctx, cancel: cancel, done: make(chan struct{})}
}

// Start starts loading, returning [ErrNotIdle] if it was already started.
func (c *Client) Start() error {
	return c.fetch()
}

// On adds a listener for the given event type. A listener added after
// the event was sent is called immediately.
func (c *Client) On(typ Events, fun func(e *Event)) {
	c.mu.Lock()
	c.listeners.Add(typ, fun)
	st, err := c.state, c.err
	c.mu.Unlock()
	switch {
	case typ == Change && st == Attached:
		fun(&Event{Type: Change, Client: c, State: st})
	case typ == Error && st == Failed && err != ErrClosed:
		fun(&Event{Type: Error, Client: c, State: st, Err: err})
	}
}

// State returns the current state.
func (c *Client) State() States {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that moved the client to [Failed], or nil.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Model returns the parsed model, or nil before parsing.
func (c *Client) Model() *urdf.Model {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.model
}

// Assembly returns the assembled robot, or nil before assembly.
func (c *Client) Assembly() *Assembly {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.assembly
}

// Options returns the options with defaults applied.
func (c *Client) Options() *Options {
	return &c.opts
}

// Done returns a channel that is closed when the client reaches
// [Attached] or [Failed].
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Wait waits until the client reaches [Attached] or [Failed], returning
// the failure error, or until ctx is done.
func (c *Client) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the client. Before [Attached] it moves the client to
// [Failed] with [ErrClosed] and abandons the fetch; after it, the robot
// is removed from the root, its frames are released and pending mesh
// loads are cancelled.
func (c *Client) Close() {
	c.cancel()
	c.mu.Lock()
	as := c.assembly
	if !c.state.IsFinal() {
		c.setFinal(Failed, ErrClosed)
	}
	c.mu.Unlock()
	if as != nil {
		as.Destroy()
	}
}

// transition moves from state from to state to, returning false if
// the client is not in state from.
func (c *Client) transition(from, to States) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	slog.Debug("robot: transition", "param", c.opts.Param, "from", from, "to", to)
	c.state = to
	return true
}

// setFinal sets a final state; it must be called with the lock held.
func (c *Client) setFinal(st States, err error) {
	c.state = st
	c.err = err
	close(c.done)
}

// listenersFor returns a copy of the listeners for the given event type;
// it must be called with the lock held.
func (c *Client) listenersFor(typ Events) Listeners {
	return Listeners{typ: slices.Clone(c.listeners[typ])}
}

// fetch is the Idle to Fetching transition: it issues the one
// description fetch of the client.
func (c *Client) fetch() error {
	if !c.transition(Idle, Fetching) {
		return ErrNotIdle
	}
	if c.opts.Fetcher == nil {
		c.fail(Fetching, &FetchError{Param: c.opts.Param, Err: errNoFetcher})
		return nil
	}
	go func() {
		text, err := c.opts.Fetcher.Fetch(c.ctx, c.opts.Param)
		c.fetched(text, err)
	}()
	return nil
}

// fetched handles the fetch result.
func (c *Client) fetched(text string, err error) {
	if err != nil {
		c.fail(Fetching, &FetchError{Param: c.opts.Param, Err: err})
		return
	}
	c.parse(text)
}

// parse is the Fetching to Parsing transition.
func (c *Client) parse(text string) {
	if !c.transition(Fetching, Parsing) {
		return
	}
	model, err := urdf.Parse(text)
	if err != nil {
		c.fail(Parsing, err)
		return
	}
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
	c.assemble(model)
}

// assemble is the Parsing to Assembling transition.
func (c *Client) assemble(model *urdf.Model) {
	if !c.transition(Parsing, Assembling) {
		return
	}
	as := Assemble(c.ctx, model, c.opts.assembleOptions())
	c.attach(as)
}

// attach is the Assembling to Attached transition: it adds the robot
// to the root and sends the [Change] event.
func (c *Client) attach(as *Assembly) {
	c.mu.Lock()
	if c.state != Assembling {
		c.mu.Unlock()
		as.Destroy()
		return
	}
	c.assembly = as
	c.opts.Root.AsTree().AddChild(as.Root)
	c.setFinal(Attached, nil)
	ls := c.listenersFor(Change)
	c.mu.Unlock()
	slog.Debug("robot: attached", "param", c.opts.Param, "links", len(as.Frames))
	ls.Call(&Event{Type: Change, Client: c, State: Attached})
}

// fail moves the client from the given state to [Failed] and sends
// the [Error] event.
func (c *Client) fail(from States, err error) {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return
	}
	c.setFinal(Failed, err)
	ls := c.listenersFor(Error)
	c.mu.Unlock()
	slog.Warn("robot: load failed", "param", c.opts.Param, "state", from, "err", err)
	ls.Call(&Event{Type: Error, Client: c, State: Failed, Err: err})
}
