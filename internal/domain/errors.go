package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownWord  = errors.New("unknown word")
	ErrLastWord     = errors.New("cannot disable the last enabled word")
	ErrBusy         = errors.New("a combination is already in progress")
	ErrNoCandidates = errors.New("no words available to combine")
	ErrNotReady     = errors.New("no finished combination to rate")
	ErrGateClosed   = errors.New("rating is not open")
	ErrNoScore      = errors.New("no score selected")
	ErrScoreRange   = errors.New("score out of range")
)
