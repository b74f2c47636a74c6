package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned for a grid size outside [MinGridSize, MaxGridSize].
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnknownPeg is returned when a peg id does not belong to the current grid.
	ErrUnknownPeg = errors.New("unknown peg")
	// ErrBadPegID is returned when a "row-col" key cannot be parsed.
	ErrBadPegID = errors.New("bad peg id")

	// ErrRejectedMove is the parent of every non-fatal, informational rejection.
	// A rejected move never changes connections, triangles, scores or turn.
	ErrRejectedMove = errors.New("rejected move")
	// ErrDuplicateConnection means the two pegs are already connected.
	ErrDuplicateConnection = fmt.Errorf("%w: duplicate connection", ErrRejectedMove)
	// ErrGameOver means the game is finished and clicks are ignored.
	ErrGameOver = fmt.Errorf("%w: game over", ErrRejectedMove)
)

// IsRejected reports whether err is an informational rejected-move signal.
func IsRejected(err error) bool { return errors.Is(err, ErrRejectedMove) }

// Code maps engine errors to short machine-readable codes.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicateConnection):
		return "duplicate_connection"
	case errors.Is(err, ErrGameOver):
		return "game_over"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, ErrUnknownPeg):
		return "unknown_peg"
	case errors.Is(err, ErrBadPegID):
		return "bad_peg_id"
	}
	return "internal"
}
