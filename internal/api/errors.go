// Masterpiece - Cultural Recommendations Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterpiece

package api

import "errors"

// Error codes used in APIError.Code.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeService          = "SERVICE_ERROR"
	ErrCodeUpstream         = "UPSTREAM_ERROR"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

var (
	// ErrFeedsDisabled is returned when podcast feed fetching is turned off.
	ErrFeedsDisabled = errors.New("podcast feeds are disabled")

	// ErrNoFeed is returned for items without a feed URL.
	ErrNoFeed = errors.New("item has no feed")

	// ErrAdminDisabled is returned when no admin token is configured.
	ErrAdminDisabled = errors.New("admin endpoints are disabled")
)
