package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream request failed")
	ErrMissingParam = errors.New("missing required parameter")
	ErrCacheMiss    = errors.New("cache miss")
)
