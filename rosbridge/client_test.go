// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rosbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge is a minimal rosbridge server holding parameters.
type fakeBridge struct {
	params map[string]string

	mu     sync.Mutex
	calls  []string
	unsubs []string
	silent bool
}

func (fb *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		fb.mu.Lock()
		silent := fb.silent
		switch msg["op"] {
		case "call_service":
			fb.calls = append(fb.calls, msg["service"].(string))
		case "unsubscribe":
			fb.unsubs = append(fb.unsubs, msg["topic"].(string))
		}
		fb.mu.Unlock()
		if silent {
			continue
		}
		switch msg["op"] {
		case "call_service":
			resp := map[string]any{"op": "service_response", "id": msg["id"], "service": msg["service"]}
			args, _ := msg["args"].(map[string]any)
			val, has := fb.params[args["name"].(string)]
			switch {
			case msg["service"] != GetParamService:
				resp["result"] = false
				resp["values"] = "unknown service"
			case has:
				enc, _ := json.Marshal(val)
				resp["result"] = true
				resp["values"] = map[string]any{"value": string(enc)}
			default:
				resp["result"] = true
				resp["values"] = map[string]any{"value": "null"}
			}
			conn.WriteJSON(resp)
		case "subscribe":
			conn.WriteJSON(map[string]any{"op": "publish", "topic": msg["topic"], "msg": map[string]any{"data": "hello"}})
		}
	}
}

func (fb *fakeBridge) numCalls() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.calls)
}

func dialFake(t *testing.T, fb *fakeBridge) *Client {
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetParamContext(t *testing.T) {
	fb := &fakeBridge{params: map[string]string{"robot_description": "<robot name=\"r\"/>"}}
	c := dialFake(t, fb)
	ctx := context.Background()

	val, err := c.GetParamContext(ctx, "robot_description")
	require.NoError(t, err)
	assert.Equal(t, `<robot name="r"/>`, val)

	_, err = c.GetParamContext(ctx, "missing")
	assert.ErrorIs(t, err, ErrParamNotSet)

	var se *StatusError
	err = c.CallService(ctx, "/other", map[string]string{"name": "x"}, nil)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "/other", se.Service)
	assert.Equal(t, 3, fb.numCalls())
}

func TestGetParam(t *testing.T) {
	fb := &fakeBridge{params: map[string]string{"robot_description": "text"}}
	c := dialFake(t, fb)
	got := make(chan string, 2)
	c.GetParam("robot_description", func(v string) { got <- v })
	assert.Equal(t, "text", <-got)

	// failures are not delivered
	c.GetParam("missing", func(v string) { got <- v })
	require.Eventually(t, func() bool { return fb.numCalls() == 2 }, time.Second, time.Millisecond)
	select {
	case v := <-got:
		t.Fatalf("unexpected delivery %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCallServiceCancel(t *testing.T) {
	fb := &fakeBridge{silent: true}
	c := dialFake(t, fb)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.GetParamContext(ctx, "robot_description")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubscribe(t *testing.T) {
	fb := &fakeBridge{}
	c := dialFake(t, fb)
	got := make(chan string, 1)
	cancel, err := c.Subscribe("/chatter", "std_msgs/String", func(msg json.RawMessage) {
		var m struct{ Data string }
		json.Unmarshal(msg, &m)
		got <- m.Data
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", <-got)
	assert.Equal(t, 1, c.NumSubscriptions())

	cancel()
	cancel()
	assert.Equal(t, 0, c.NumSubscriptions())
	require.Eventually(t, func() bool {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		return len(fb.unsubs) == 1
	}, time.Second, time.Millisecond)
}

func TestClose(t *testing.T) {
	fb := &fakeBridge{silent: true}
	c := dialFake(t, fb)
	errc := make(chan error, 1)
	go func() {
		_, err := c.GetParamContext(context.Background(), "robot_description")
		errc <- err
	}()
	require.Eventually(t, func() bool { return fb.numCalls() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, c.Close())
	assert.ErrorIs(t, <-errc, ErrClosed)
	<-c.Done()
	assert.NoError(t, c.Close())

	_, err := c.Subscribe("/tf", "tf2_msgs/TFMessage", func(json.RawMessage) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDialError(t *testing.T) {
	_, err := Dial(context.Background(), "ws://127.0.0.1:1")
	assert.Error(t, err)
}
