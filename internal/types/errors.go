package types

import "errors"

// Acquisition failures are fatal to the whole job.
var (
	ErrVideoTooLong  = errors.New("video exceeds maximum allowed duration")
	ErrLiveStream    = errors.New("live streams cannot be processed")
	ErrVideoNotFound = errors.New("video not found or unavailable")
)

// ErrNoSegments means analysis produced zero viable segments; the job fails.
var ErrNoSegments = errors.New("no engaging segments found in video")
