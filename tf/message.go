// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tf

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
)

// TFMessageType is the message type of the tf topics.
const TFMessageType = "tf2_msgs/TFMessage"

// DefaultTopics are the topics followed by [Follow] when none are given.
var DefaultTopics = []string{"/tf", "/tf_static"}

// TFMessage is the JSON form of a tf2_msgs/TFMessage.
type TFMessage struct {
	Transforms []TransformStamped `json:"transforms"`
}

// TransformStamped is the JSON form of a geometry_msgs/TransformStamped.
type TransformStamped struct {
	Header struct {
		FrameID string `json:"frame_id"`
	} `json:"header"`
	ChildFrameID string `json:"child_frame_id"`
	Transform    struct {
		Translation struct {
			X, Y, Z float32
		} `json:"translation"`
		Rotation struct {
			X, Y, Z, W float32
		} `json:"rotation"`
	} `json:"transform"`
}

// ToTransform returns the transform from the header frame to the child frame.
func (ts *TransformStamped) ToTransform() Transform {
	t, r := ts.Transform.Translation, ts.Transform.Rotation
	return Transform{
		Translation: math32.Vec3(t.X, t.Y, t.Z),
		Rotation:    math32.NewQuat(r.X, r.Y, r.Z, r.W),
	}
}

// HandleTFMessage applies all of the transforms in the given JSON
// encoded TFMessage.
func (tk *Tracker) HandleTFMessage(data []byte) error {
	var msg TFMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	for i := range msg.Transforms {
		ts := &msg.Transforms[i]
		tk.SetTransform(ts.Header.FrameID, ts.ChildFrameID, ts.ToTransform())
	}
	return nil
}

// Subscriber subscribes to topics of JSON messages; it is implemented
// by the rosbridge client.
type Subscriber interface {
	Subscribe(topic, msgType string, fn func(msg json.RawMessage)) (cancel func(), err error)
}

// Follow subscribes the tracker to the given tf topics, or to
// [DefaultTopics] if none are given, until ctx is done or the returned
// stop function is called.
func Follow(ctx context.Context, sub Subscriber, tk *Tracker, topics ...string) (stop func(), err error) {
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	var cancels []func()
	stopAll := func() {
		for _, c := range cancels {
			c()
		}
	}
	for _, topic := range topics {
		cancel, err := sub.Subscribe(topic, TFMessageType, func(msg json.RawMessage) {
			if err := tk.HandleTFMessage(msg); err != nil {
				slog.Warn("tf: bad message", "topic", topic, "err", err)
			}
		})
		if err != nil {
			stopAll()
			return nil, errors.Log(err)
		}
		cancels = append(cancels, cancel)
	}
	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() { close(done) })
	}
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		stopAll()
	}()
	return stop, nil
}
