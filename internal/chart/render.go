package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	xdraw "golang.org/x/image/draw"

	"github.com/tyler180/fbref-pizza/internal/logging"
	"github.com/tyler180/fbref-pizza/internal/selection"
)

const (
	DefaultWidth    = 1000
	DefaultHeight   = 1200
	DefaultSubtitle = "Percentile Rank vs Premier League Players in their Position for 2023/2024"

	dpi          = 100.0
	titleSize    = 27.0
	subtitleSize = 13.0
	legendSize   = 16.0
	labelSize    = 12.0
	valueSize    = 11.0
)

// Spec is everything needed to draw one chart. Labels, Values and (when set)
// Categories are positionally aligned.
type Spec struct {
	Player      string
	Subtitle    string
	Labels      []string
	Values      []int
	Categories  []selection.Category
	PortraitURL string
}

// Renderer draws pizza charts as PNG. The zero value draws a 1000x1200 chart
// with positional banding.
type Renderer struct {
	HTTP           *http.Client
	UserAgent      string
	Placeholder    string // local image used when the portrait can't be fetched
	Subtitle       string // used when Spec.Subtitle is empty
	BandByCategory bool
	Width, Height  int
	Logger         *slog.Logger
}

// Render draws spec and returns the encoded PNG.
func (r *Renderer) Render(ctx context.Context, spec Spec) ([]byte, error) {
	if len(spec.Labels) != len(spec.Values) {
		return nil, fmt.Errorf("%w: %d labels, %d values", ErrMisaligned, len(spec.Labels), len(spec.Values))
	}
	if len(spec.Categories) > 0 && len(spec.Categories) != len(spec.Values) {
		return nil, fmt.Errorf("%w: %d categories, %d values", ErrMisaligned, len(spec.Categories), len(spec.Values))
	}
	if len(spec.Values) == 0 {
		return nil, ErrEmpty
	}

	g := newGeometry(r.size())
	rr, err := gochart.PNG(g.w, g.h)
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}
	font, err := gochart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	rr.SetDPI(dpi)
	rr.SetFont(font)

	values := make([]int, len(spec.Values))
	for i, v := range spec.Values {
		values[i] = clampPercentile(v)
		if values[i] != v {
			logging.Warn(r.Logger, "percentile out of range, clamped",
				logging.FieldPlayer, spec.Player, logging.FieldMetric, spec.Labels[i], "value", v)
		}
	}
	colors := sliceColors(len(values), spec.Categories, r.BandByCategory)

	subtitle := spec.Subtitle
	if subtitle == "" {
		subtitle = r.Subtitle
	}
	if subtitle == "" {
		subtitle = DefaultSubtitle
	}

	fillRect(rr, 0, 0, g.w, g.h, colorBackground)
	drawSlices(rr, g, values, colors)
	drawLabels(rr, g, spec.Labels, values, colors)
	drawHeader(rr, g, spec.Player, subtitle)

	var buf bytes.Buffer
	if err := rr.Save(&buf); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}

	portrait := circularPortrait(r.loadPortrait(ctx, spec.PortraitURL), 2*g.inner-4)
	out, err := composite(buf.Bytes(), portrait, image.Pt(g.cx, g.cy))
	if err != nil {
		return nil, err
	}
	logging.Debug(r.Logger, "rendered chart", logging.FieldPlayer, spec.Player, logging.FieldCount, len(values), "bytes", len(out))
	return out, nil
}

func (r *Renderer) size() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// geometry holds pixel positions derived from the canvas size.
type geometry struct {
	w, h   int
	cx, cy int
	outer  int // radius of a 100th percentile slice
	inner  int // radius of the portrait disc
	header int // height reserved for title, subtitle and legend
}

func newGeometry(w, h int) geometry {
	header := h * 16 / 100
	cy := header + (h-header)/2
	outer := min(w, h-header) * 33 / 100
	return geometry{
		w: w, h: h,
		cx: w / 2, cy: cy,
		outer:  outer,
		inner:  max(outer*13/100, 20),
		header: header,
	}
}

// angle of the start of slice i; slices run clockwise from 12 o'clock.
func sliceAngle(i, n int) float64 {
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

func polar(cx, cy int, radius, a float64) (int, int) {
	return cx + int(math.Round(radius*math.Cos(a))), cy + int(math.Round(radius*math.Sin(a)))
}

func valueRadius(g geometry, v int) float64 {
	return float64(g.inner) + float64(g.outer-g.inner)*float64(v)/100
}

func drawSlices(rr gochart.Renderer, g geometry, values []int, colors []drawing.Color) {
	n := len(values)
	delta := 2 * math.Pi / float64(n)
	outer := float64(g.outer)

	rr.SetStrokeColor(colorLine)
	rr.SetStrokeWidth(1)
	for i, v := range values {
		a := sliceAngle(i, n)
		// remaining space up to the 100th percentile
		wedge(rr, g.cx, g.cy, outer, a, delta, colors[i].WithAlpha(blankAlpha))
		wedge(rr, g.cx, g.cy, valueRadius(g, v), a, delta, colors[i])
	}

	// radial separators and the outer ring
	rr.SetStrokeColor(colorLine)
	rr.SetStrokeWidth(1)
	for i := 0; i < n; i++ {
		x, y := polar(g.cx, g.cy, outer, sliceAngle(i, n))
		rr.MoveTo(g.cx, g.cy)
		rr.LineTo(x, y)
		rr.Stroke()
	}
	rr.MoveTo(g.cx+g.outer, g.cy)
	rr.ArcTo(g.cx, g.cy, outer, outer, 0, 2*math.Pi)
	rr.Stroke()

	// disc behind the portrait
	rr.SetFillColor(colorBackground)
	rr.MoveTo(g.cx+g.inner, g.cy)
	rr.ArcTo(g.cx, g.cy, float64(g.inner), float64(g.inner), 0, 2*math.Pi)
	rr.Close()
	rr.FillStroke()
}

func wedge(rr gochart.Renderer, cx, cy int, radius, start, delta float64, fill drawing.Color) {
	rr.SetFillColor(fill)
	rr.MoveTo(cx, cy)
	rr.ArcTo(cx, cy, radius, radius, start, delta)
	rr.LineTo(cx, cy)
	rr.Close()
	rr.FillStroke()
}

func drawLabels(rr gochart.Renderer, g geometry, labels []string, values []int, colors []drawing.Color) {
	n := len(values)
	delta := 2 * math.Pi / float64(n)
	for i, v := range values {
		mid := sliceAngle(i, n) + delta/2

		// metric name outside the ring
		rr.SetFontColor(colorText)
		rr.SetFontSize(labelSize)
		lx, ly := polar(g.cx, g.cy, float64(g.outer)+40, mid)
		textBlock(rr, wrapLabel(labels[i]), lx, ly)

		// percentile in a box at the end of the slice
		rr.SetFontSize(valueSize)
		body := strconv.Itoa(v)
		tb := rr.MeasureText(body)
		vx, vy := polar(g.cx, g.cy, max(valueRadius(g, v), float64(g.inner)+14), mid)
		pad := 4
		x0, y0 := vx-tb.Width()/2-pad, vy-tb.Height()/2-pad
		x1, y1 := vx+tb.Width()/2+pad, vy+tb.Height()/2+pad
		rr.SetStrokeColor(colorLine)
		rr.SetStrokeWidth(1)
		rr.SetFillColor(colors[i])
		rr.MoveTo(x0, y0)
		rr.LineTo(x1, y0)
		rr.LineTo(x1, y1)
		rr.LineTo(x0, y1)
		rr.Close()
		rr.FillStroke()
		rr.SetFontColor(colorValueText)
		rr.Text(body, vx-tb.Width()/2, vy+tb.Height()/2)
	}
}

func drawHeader(rr gochart.Renderer, g geometry, player, subtitle string) {
	rr.SetFontColor(colorText)

	rr.SetFontSize(titleSize)
	centerText(rr, player, g.w/2, g.header*30/100)

	rr.SetFontSize(subtitleSize)
	centerText(rr, subtitle, g.w/2, g.header*55/100)

	// legend: a swatch and a name per category, centered as a row
	rr.SetFontSize(legendSize)
	const swatch, gap = 18, 36
	total := 0
	for _, c := range selection.Categories {
		total += swatch + 8 + rr.MeasureText(string(c)).Width()
	}
	total += gap * (len(selection.Categories) - 1)
	x := (g.w - total) / 2
	y := g.header * 82 / 100
	for i, c := range selection.Categories {
		fillRect(rr, x, y-swatch/2, swatch, swatch, bandColors[i])
		x += swatch + 8
		tb := rr.MeasureText(string(c))
		rr.SetFontColor(colorText)
		rr.Text(string(c), x, y+tb.Height()/2)
		x += tb.Width() + gap
	}
}

// wrapLabel puts every word of a metric name on its own line.
func wrapLabel(s string) []string {
	return strings.Fields(s)
}

func textBlock(rr gochart.Renderer, lines []string, cx, cy int) {
	if len(lines) == 0 {
		return
	}
	lh := rr.MeasureText("Ag").Height() + 2
	top := cy - lh*len(lines)/2
	for i, l := range lines {
		tb := rr.MeasureText(l)
		rr.Text(l, cx-tb.Width()/2, top+lh*(i+1)-2)
	}
}

func centerText(rr gochart.Renderer, body string, cx, cy int) {
	tb := rr.MeasureText(body)
	rr.Text(body, cx-tb.Width()/2, cy+tb.Height()/2)
}

func fillRect(rr gochart.Renderer, x, y, w, h int, c drawing.Color) {
	rr.SetFillColor(c)
	rr.SetStrokeColor(c)
	rr.SetStrokeWidth(0)
	rr.MoveTo(x, y)
	rr.LineTo(x+w, y)
	rr.LineTo(x+w, y+h)
	rr.LineTo(x, y+h)
	rr.Close()
	rr.Fill()
}

func clampPercentile(v int) int {
	return min(max(v, 0), 100)
}

// composite draws the portrait centered at c onto the encoded chart.
func composite(chartPNG []byte, portrait image.Image, c image.Point) ([]byte, error) {
	base, err := png.Decode(bytes.NewReader(chartPNG))
	if err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	dst := image.NewRGBA(base.Bounds())
	xdraw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, xdraw.Src)

	pb := portrait.Bounds()
	at := image.Rect(0, 0, pb.Dx(), pb.Dy()).Add(c.Sub(image.Pt(pb.Dx()/2, pb.Dy()/2)))
	xdraw.Draw(dst, at, portrait, pb.Min, xdraw.Over)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return out.Bytes(), nil
}
