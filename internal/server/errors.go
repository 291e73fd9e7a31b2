// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated: the handler set produced nothing to serve, so
// startup is aborted.
var errNoServersAreCreated = errors.New("no servers are created")
