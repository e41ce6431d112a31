package cfr

import (
	"github.com/pkg/errors"
)

var (
	// ErrNoLegalActions is returned when a non-terminal state offers no actions.
	ErrNoLegalActions = errors.New("no legal actions at non-terminal state")
	// ErrKeyCollision is returned when two states sharing an information set
	// key disagree on their legal actions.
	ErrKeyCollision = errors.New("information set key collision")
	// ErrUnknownPlayer is returned when a state reports a player other than 0 or 1.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNoSnapshot is returned by a TableStore that holds no saved table.
	ErrNoSnapshot = errors.New("no saved snapshot")
)
