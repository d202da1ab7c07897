package chart

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/tyler180/fbref-pizza/internal/logging"
)

const maxPortraitBytes = 10 << 20

// loadPortrait fetches the portrait, falling back to the local placeholder
// file and then to a plain gray square. It never fails.
func (r *Renderer) loadPortrait(ctx context.Context, url string) image.Image {
	if url != "" {
		img, err := r.fetchImage(ctx, url)
		if err == nil {
			return img
		}
		logging.Warn(r.Logger, "portrait unavailable, using placeholder",
			logging.FieldURL, url, "error", err)
	}
	if r.Placeholder != "" {
		b, err := os.ReadFile(r.Placeholder)
		if err == nil {
			img, _, err := image.Decode(bytes.NewReader(b))
			if err == nil {
				return img
			}
		}
		logging.Warn(r.Logger, "placeholder image unreadable", "path", r.Placeholder, "error", err)
	}
	return blankPortrait()
}

func blankPortrait() image.Image {
	img := image.NewGray(image.Rect(0, 0, 150, 150))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 0x80}), image.Point{}, xdraw.Src)
	return img
}

func (r *Renderer) fetchImage(ctx context.Context, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}
	hc := r.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPortraitBytes))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode portrait: %w", err)
	}
	return img, nil
}

// circularPortrait crops src to a centered square, scales it to d×d and
// returns it with a circular alpha mask applied.
func circularPortrait(src image.Image, d int) *image.RGBA {
	b := src.Bounds()
	if b.Empty() {
		src = blankPortrait()
		b = src.Bounds()
	}
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	scaled := image.NewRGBA(image.Rect(0, 0, d, d))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, crop, xdraw.Src, nil)

	out := image.NewRGBA(scaled.Bounds())
	xdraw.DrawMask(out, out.Bounds(), scaled, image.Point{}, &circle{c: image.Pt(d/2, d/2), r: d / 2}, image.Point{}, xdraw.Over)
	return out
}

// circle is an alpha mask that is opaque inside the circle.
type circle struct {
	c image.Point
	r int
}

func (m *circle) ColorModel() color.Model { return color.AlphaModel }

func (m *circle) Bounds() image.Rectangle {
	return image.Rect(m.c.X-m.r, m.c.Y-m.r, m.c.X+m.r, m.c.Y+m.r)
}

func (m *circle) At(x, y int) color.Color {
	xx, yy, rr := float64(x-m.c.X)+0.5, float64(y-m.c.Y)+0.5, float64(m.r)
	if xx*xx+yy*yy < rr*rr {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}
