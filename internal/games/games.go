// Package games implements the sequence-ordering and label-matching
// mini-games. Each engine holds one puzzle at a time and freezes it on
// submit.
package games

import (
	"context"
	"errors"

	"github.com/lennai/lennai/internal/rewards"
)

var (
	// ErrNotLoaded is returned before a puzzle has been loaded.
	ErrNotLoaded = errors.New("no puzzle loaded")

	// ErrSubmitted is returned when changing or resubmitting a frozen board.
	ErrSubmitted = errors.New("puzzle already submitted")

	// ErrNotSubmitted is returned when completing a puzzle before submit.
	ErrNotSubmitted = errors.New("puzzle not submitted yet")

	// ErrIncomplete is returned when submitting a label puzzle with
	// unmatched parts.
	ErrIncomplete = errors.New("every part needs a label before submitting")

	// ErrIndexOutOfRange is returned for a position outside the board.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrUnknownPart is returned for a part id not in the puzzle.
	ErrUnknownPart = errors.New("unknown part")

	// ErrUnknownLabel is returned for a label that is not an option.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrBusy is returned by Load while a puzzle is being generated.
	ErrBusy = errors.New("a puzzle is already being generated")

	// ErrCompleting is returned by Complete while the same board's
	// outcome is still being recorded.
	ErrCompleting = errors.New("puzzle outcome is already being recorded")
)

// Rewarder receives finished game outcomes. *rewards.Service satisfies it.
type Rewarder interface {
	Record(ctx context.Context, o rewards.Outcome) (*rewards.Award, error)
}

// complete reports an outcome to r, which may be nil.
func complete(ctx context.Context, r Rewarder, o rewards.Outcome) (*rewards.Award, error) {
	if r == nil {
		return &rewards.Award{Game: o.Game}, nil
	}
	return r.Record(ctx, o)
}
