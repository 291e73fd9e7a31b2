// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// refreshGuard serialises access-token refreshes. However many requests
// observe an auth failure in the same window, exactly one refresh call is
// issued; latecomers join the in-flight one and share its outcome, either a
// rotated token or a session-expired verdict.
type refreshGuard struct {
	flight singleflight.Group

	// refresh performs the upstream credential exchange and commits the
	// rotated token to the adapter before returning it.
	refresh func(ctx context.Context) (string, error)

	// current reads the live access token, letting the guard detect a
	// rotation that completed between a caller's auth failure and its
	// arrival here.
	current func() string

	mu        sync.Mutex
	onExpired func()
}

func newRefreshGuard(current func() string, refresh func(ctx context.Context) (string, error)) *refreshGuard {
	return &refreshGuard{current: current, refresh: refresh}
}

// OnSessionExpired registers the callback fired when a refresh attempt is
// refused and the session is declared over.
func (g *refreshGuard) OnSessionExpired(callback func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onExpired = callback
}

// Refresh exchanges the device refresh credential for a new access token.
// used is the token the failed request carried.
//
// Concurrent callers collapse into a single upstream call. A refused refresh
// is normalised to ErrSessionExpired for every joined caller, with the
// server's refusal wrapped inside, and fires the session-expired callback.
// Transport failures pass through untouched: the server never judged the
// credential, so the session stays alive and the caller retries later.
func (g *refreshGuard) Refresh(ctx context.Context, used string) (string, error) {
	token, err, _ := g.flight.Do("refresh", func() (any, error) {
		// a flight that finished after this caller's auth failure has
		// already rotated the credential; hand it out instead of
		// refreshing twice
		if current := g.current(); current != used {
			return current, nil
		}

		token, err := g.refresh(ctx)
		switch {
		case err == nil:
			return token, nil
		case IsTransient(err):
			return nil, err
		default:
			g.expire()
			return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
	})
	if err != nil {
		return "", err
	}

	return token.(string), nil
}

func (g *refreshGuard) expire() {
	g.mu.Lock()
	callback := g.onExpired
	g.mu.Unlock()

	if callback != nil {
		callback()
	}
}
