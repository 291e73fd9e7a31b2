// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the device agent runtime.
//
// It wires client services and background synchronization into a single
// process lifecycle: one catch-up sync at startup, a periodic sync job and
// a connectivity probe while running, and graceful shutdown on termination
// signals. SIGHUP triggers an immediate full sync.
package client
