// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rosbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"cogentcore.org/core/base/errors"
)

// GetParamService is the rosapi service used to read parameters.
const GetParamService = "/rosapi/get_param"

// ErrParamNotSet is returned when a parameter has no value.
var ErrParamNotSet = errors.New("rosbridge: parameter not set")

// GetParamContext returns the string value of the given parameter.
func (c *Client) GetParamContext(ctx context.Context, name string) (string, error) {
	var resp struct {
		Value string `json:"value"`
	}
	if err := c.CallService(ctx, GetParamService, map[string]string{"name": name}, &resp); err != nil {
		return "", fmt.Errorf("get_param %s: %w", name, err)
	}
	// rosapi returns the value JSON encoded
	var val any
	if err := json.Unmarshal([]byte(resp.Value), &val); err != nil {
		return "", fmt.Errorf("get_param %s: %w", name, err)
	}
	switch v := val.(type) {
	case nil:
		return "", fmt.Errorf("get_param %s: %w", name, ErrParamNotSet)
	case string:
		return v, nil
	}
	return resp.Value, nil
}

// GetParam gets the string value of the given parameter in the
// background and calls callback with it. The callback is called at
// most once: failures are logged and not delivered.
func (c *Client) GetParam(name string, callback func(value string)) {
	go func() {
		val, err := c.GetParamContext(context.Background(), name)
		if errors.Log(err) != nil {
			return
		}
		callback(val)
	}()
}

// Fetch returns the string value of the given parameter. It allows the
// client to serve as the description source of a robot client.
func (c *Client) Fetch(ctx context.Context, param string) (string, error) {
	return c.GetParamContext(ctx, param)
}
