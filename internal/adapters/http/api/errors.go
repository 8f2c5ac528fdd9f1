package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrServe        = errors.New("http serve failed")
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidTag   = errors.New("invalid player tag")
	ErrBackpressure = errors.New("backpressure")
)
