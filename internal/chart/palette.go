package chart

import (
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tyler180/fbref-pizza/internal/selection"
)

var (
	colorBackground = drawing.ColorFromHex("1C1C1C")
	colorLine       = drawing.ColorBlack
	colorText       = drawing.ColorWhite
	colorValueText  = drawing.ColorBlack

	// one color per band, in selection.Categories order
	bandColors = []drawing.Color{
		drawing.ColorFromHex("bbEE90"),
		drawing.ColorFromHex("FF93ff"),
		drawing.ColorFromHex("FFCCCB"),
		drawing.ColorFromHex("87CEEB"),
	}
)

const (
	bandSize   = 5
	blankAlpha = 102 // 0.4 of 255
)

// positionalColor bands slices by index: five per color, the last color
// covers everything from the sixteenth slice on.
func positionalColor(i int) drawing.Color {
	b := i / bandSize
	if b >= len(bandColors) {
		b = len(bandColors) - 1
	}
	return bandColors[b]
}

// categoryColor gives each category its legend color. Unknown categories
// fall back to positional banding.
func categoryColor(cat selection.Category, i int) drawing.Color {
	for j, c := range selection.Categories {
		if c == cat {
			return bandColors[j]
		}
	}
	return positionalColor(i)
}

// sliceColors picks a color for each of n slices.
func sliceColors(n int, cats []selection.Category, byCategory bool) []drawing.Color {
	out := make([]drawing.Color, n)
	for i := range out {
		if byCategory && i < len(cats) {
			out[i] = categoryColor(cats[i], i)
			continue
		}
		out[i] = positionalColor(i)
	}
	return out
}
