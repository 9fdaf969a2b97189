package engrave

import "errors"

var (
	// ErrNoVoices is returned by every grid-building entry point when the
	// voice list is empty.
	ErrNoVoices = errors.New("no voices to format")

	// ErrDurationMismatch is returned when voices formatted together do
	// not declare the same total duration.
	ErrDurationMismatch = errors.New("voices do not share total duration")

	// ErrIncompleteVoice is returned when a strict-mode voice is
	// under-filled at formatting time.
	ErrIncompleteVoice = errors.New("strict voice is not full")

	// ErrNoMinWidth is returned by [Formatter.MinTotalWidth] when the
	// minimum width has not been computed, or was invalidated by a later
	// JoinVoices call.
	ErrNoMinWidth = errors.New("minimum width not computed")

	// ErrNoTickContexts is returned by [Formatter.PreFormat] when no tick
	// grid has been built and no voices were supplied to build one from.
	ErrNoTickContexts = errors.New("no tick grid built")
)
