// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators holds the input validation used by the sync services.
// Validators are injected into the service layer so transport handlers stay
// free of shape checks and tests can swap them out.
package validators

import "context"

// Validator validates arbitrary input values. Implementations may perform
// structural validation, semantic checks or cross-field rules.
type Validator interface {
	// Validate validates the provided input, optionally restricted to
	// specific named fields.
	Validate(context.Context, any, ...string) error
}
