package pipeline

import (
	"errors"
	"fmt"

	"github.com/tyler180/fbref-pizza/internal/chart"
	"github.com/tyler180/fbref-pizza/internal/fbref"
	"github.com/tyler180/fbref-pizza/internal/lookup"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	KindUnknown Kind = iota
	ResourceLoadFailure
	NameNotFound
	FetchFailure
	ParseFailure
	RenderFailure
)

func (k Kind) String() string {
	switch k {
	case ResourceLoadFailure:
		return "ResourceLoadFailure"
	case NameNotFound:
		return "NameNotFound"
	case FetchFailure:
		return "FetchFailure"
	case ParseFailure:
		return "ParseFailure"
	case RenderFailure:
		return "RenderFailure"
	}
	return "Unknown"
}

// Message is the one-line text shown to a user for a failure of kind k.
func (k Kind) Message() string {
	switch k {
	case ResourceLoadFailure:
		return "Failed to load player profiles."
	case NameNotFound:
		return "Player not found in the lookup table."
	case FetchFailure:
		return "Could not download the player's pages from fbref."
	case ParseFailure:
		return "The player's scouting report could not be read."
	case RenderFailure:
		return "The chart could not be drawn."
	}
	return "Unexpected error."
}

// Error is a pipeline failure tagged with its kind.
type Error struct {
	Kind   Kind
	Player string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s for %q: %v", e.Kind, e.Player, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies err. Errors that did not pass through a pipeline are
// classified by their underlying type.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if _, ok := lookup.AsLoadError(err); ok {
		return ResourceLoadFailure
	}
	if errors.Is(err, lookup.ErrNotFound) {
		return NameNotFound
	}
	if _, ok := fbref.AsFetchError(err); ok {
		return FetchFailure
	}
	if _, ok := fbref.AsParseError(err); ok {
		return ParseFailure
	}
	if errors.Is(err, chart.ErrMisaligned) || errors.Is(err, chart.ErrEmpty) {
		return RenderFailure
	}
	return KindUnknown
}
