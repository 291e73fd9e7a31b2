// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the lifecycle contract of the device agent runtime.
type Client interface {
	// Run starts the agent and blocks until it exits.
	Run() error
}
