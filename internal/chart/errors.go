package chart

import "errors"

var (
	// ErrMisaligned means labels and values differ in length.
	ErrMisaligned = errors.New("chart: labels and values differ in length")
	// ErrEmpty means there is nothing to draw.
	ErrEmpty = errors.New("chart: no slices to draw")
)
