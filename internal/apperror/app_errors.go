package apperror

import "errors"

var (
	ErrInvalidMove         = errors.New("invalid move")
	ErrInternalConsistency = errors.New("internal consistency error")
	ErrGameFinished        = errors.New("game is already finished")
	ErrMalformedBoard      = errors.New("malformed board")
	ErrUnknownCacheBackend = errors.New("unknown cache backend")
)
