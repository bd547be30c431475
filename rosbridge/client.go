// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rosbridge is a client for the rosbridge v2 protocol: JSON
// messages over a WebSocket connection, used to call ROS services
// (including reading parameters) and to subscribe to topics.
package rosbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"cogentcore.org/core/base/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultURL is the default rosbridge server URL.
const DefaultURL = "ws://localhost:9090"

// ErrClosed is returned by operations on a closed [Client].
var ErrClosed = errors.New("rosbridge: connection closed")

// StatusError is returned when a service call completes with a false result.
type StatusError struct {
	Service string

	// Values is the raw values field of the response,
	// which typically contains the failure message.
	Values string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rosbridge: service %s failed: %s", e.Service, e.Values)
}

// Client represents a rosbridge connection.
// You can use [Dial] to create a new Client.
type Client struct {

	// URL is the server URL.
	URL string

	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// writeMu serializes writes to conn.
	writeMu sync.Mutex

	mu sync.Mutex

	// pending are the outstanding service calls by id.
	pending map[string]chan *message

	// topics are the subscription callbacks by topic and subscription id.
	topics map[string]map[string]func(json.RawMessage)

	// done is a channel that is closed when the connection is closed.
	done chan struct{}

	// err is the error that closed the connection.
	err error

	closeOnce sync.Once
}

// message is the union of the protocol messages used by the client.
type message struct {
	Op      string          `json:"op"`
	ID      string          `json:"id,omitempty"`
	Service string          `json:"service,omitempty"`
	Args    any             `json:"args,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Type    string          `json:"type,omitempty"`
	Msg     json.RawMessage `json:"msg,omitempty"`
	Values  json.RawMessage `json:"values,omitempty"`
	Result  *bool           `json:"result,omitempty"`
}

// Dial connects to the rosbridge server at the given URL and returns
// a [Client] that is reading from it.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		URL:     url,
		conn:    conn,
		pending: map[string]chan *message{},
		topics:  map[string]map[string]func(json.RawMessage){},
		done:    make(chan struct{}),
	}
	go c.read()
	return c, nil
}

// read dispatches incoming messages until the connection fails.
func (c *Client) read() {
	for {
		var msg message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.shutdown(err)
			return
		}
		switch msg.Op {
		case "service_response":
			c.mu.Lock()
			ch := c.pending[msg.ID]
			delete(c.pending, msg.ID)
			c.mu.Unlock()
			if ch != nil {
				ch <- &msg
			}
		case "publish":
			c.mu.Lock()
			var fns []func(json.RawMessage)
			for _, fn := range c.topics[msg.Topic] {
				fns = append(fns, fn)
			}
			c.mu.Unlock()
			for _, fn := range fns {
				fn(msg.Msg)
			}
		case "status":
			slog.Debug("rosbridge status", "url", c.URL, "msg", string(msg.Msg))
		}
	}
}

// shutdown marks the client closed with the given cause.
func (c *Client) shutdown(err error) {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
			err = nil
		}
		c.err = err
		c.mu.Unlock()
		close(c.done)
		c.conn.Close()
		if err != nil {
			slog.Debug("rosbridge connection closed", "url", c.URL, "err", err)
		}
	})
}

// Done returns a channel that is closed when the connection is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that closed the connection, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Client) send(msg *message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// CallService calls the given service with the given arguments and
// decodes the response values into result, if it is non-nil.
func (c *Client) CallService(ctx context.Context, service string, args, result any) error {
	id := "call_service:" + service + ":" + uuid.NewString()
	ch := make(chan *message, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()
	if err := c.send(&message{Op: "call_service", ID: id, Service: service, Args: args}); err != nil {
		return err
	}
	select {
	case resp := <-ch:
		if resp.Result != nil && !*resp.Result {
			return &StatusError{Service: service, Values: string(resp.Values)}
		}
		if result == nil || len(resp.Values) == 0 {
			return nil
		}
		return json.Unmarshal(resp.Values, result)
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrClosed
	}
}

// Subscribe calls fn with every message published on the given topic.
// The returned function unsubscribes.
func (c *Client) Subscribe(topic, msgType string, fn func(msg json.RawMessage)) (cancel func(), err error) {
	id := "subscribe:" + topic + ":" + uuid.NewString()
	c.mu.Lock()
	if c.topics[topic] == nil {
		c.topics[topic] = map[string]func(json.RawMessage){}
	}
	c.topics[topic][id] = fn
	c.mu.Unlock()
	remove := func() {
		c.mu.Lock()
		delete(c.topics[topic], id)
		if len(c.topics[topic]) == 0 {
			delete(c.topics, topic)
		}
		c.mu.Unlock()
	}
	if err := c.send(&message{Op: "subscribe", ID: id, Topic: topic, Type: msgType}); err != nil {
		remove()
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			remove()
			err := c.send(&message{Op: "unsubscribe", ID: id, Topic: topic})
			if err != nil && err != ErrClosed {
				errors.Log(err)
			}
		})
	}, nil
}

// NumSubscriptions returns the number of active topic subscriptions.
func (c *Client) NumSubscriptions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, fns := range c.topics {
		n += len(fns)
	}
	return n
}

// Close cleanly closes the connection. Outstanding service calls
// fail with [ErrClosed].
func (c *Client) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	c.writeMu.Lock()
	err := c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()
	c.shutdown(nil)
	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}
	return err
}
