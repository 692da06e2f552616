package apperrors

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Aggregator input errors are caller bugs and are never retried.
	ErrInvalidSample = errors.New("invalid sample")
	ErrInvalidWindow = errors.New("invalid window")

	// Source boundary errors are transient or permission related; the next
	// periodic cycle retries them.
	ErrDataUnavailable     = errors.New("data unavailable")
	ErrSourceUnavailable   = errors.New("source unavailable")
	ErrAuthorizationDenied = errors.New("authorization denied")

	ErrDeliveryFailed = errors.New("delivery failed")
	ErrCycleInFlight  = errors.New("evaluation cycle already in flight")
)
