// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package robot

import (
	"context"
	"fmt"
)

// Fetcher fetches the value of a named description parameter.
// [rosbridge.Client] implements it.
type Fetcher interface {
	Fetch(ctx context.Context, param string) (string, error)
}

// FetchFunc is a function that implements [Fetcher].
type FetchFunc func(ctx context.Context, param string) (string, error)

func (f FetchFunc) Fetch(ctx context.Context, param string) (string, error) {
	return f(ctx, param)
}

// ParamFetcher adapts a callback style fetch, which delivers the value
// at most once and does not report failure, to a [Fetcher]. Fetch waits
// for the callback until ctx is done.
type ParamFetcher func(param string, callback func(value string))

func (pf ParamFetcher) Fetch(ctx context.Context, param string) (string, error) {
	ch := make(chan string, 1)
	pf(param, func(value string) {
		select {
		case ch <- value:
		default:
		}
	})
	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// FetchError is the error of a failed description fetch.
type FetchError struct {
	Param string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("robot: fetching %q: %v", e.Param, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
