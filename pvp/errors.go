package pvp

import "errors"

var (
	ErrAlreadyQueued    = errors.New("already queued")
	ErrStatsUnavailable = errors.New("stats unavailable")
	ErrInvalidAction    = errors.New("invalid action")
	ErrNoActiveMatch    = errors.New("no active match")
)
