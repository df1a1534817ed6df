// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package snapshot renders the content of a character LCD to an image.
//
// Custom characters are drawn dot by dot from their bitmap, everything else
// is drawn with a font so the result is readable at any scale.
package snapshot

import (
	"errors"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/encoding/charmap"
)

// Source is the display being rendered.
//
// *hd44780.Dev implements it.
type Source interface {
	Rows() int
	Cols() int
	Content() [][]byte
	// Glyph returns the bitmap stored for custom character code location.
	Glyph(location int) ([]byte, bool)
	BacklightOn() bool
}

// Opts represents the options for rendering.
type Opts struct {
	// Scale is the size of a dot in pixels. Defaults to 4.
	Scale int
	// Margin around the character grid in pixels. Defaults to 2*Scale.
	Margin int
	// Face draws the non custom characters. Defaults to Go Regular.
	Face font.Face

	Panel    color.Color
	PanelOff color.Color
	Cell     color.Color
	Ink      color.Color

	_ struct{}
}

// DefaultOpts is the look of a yellow-green STN panel.
var DefaultOpts = Opts{
	Scale:    4,
	Panel:    color.NRGBA{R: 0x9c, G: 0xd0, B: 0x2a, A: 0xff},
	PanelOff: color.NRGBA{R: 0x4a, G: 0x5a, B: 0x20, A: 0xff},
	Cell:     color.NRGBA{R: 0x8c, G: 0xc0, B: 0x20, A: 0xff},
	Ink:      color.NRGBA{R: 0x10, G: 0x20, B: 0x10, A: 0xff},
}

const (
	dotsX = 5
	dotsY = 8
	blank = 0x20
)

var errNoContent = errors.New("snapshot: empty display")

// CellSize returns the size of one character cell including the gap to its
// neighbor, in pixels.
func (o *Opts) CellSize() image.Point {
	return image.Point{X: (dotsX + 1) * o.Scale, Y: (dotsY + 1) * o.Scale}
}

// Bounds returns the size of the image rendered for a rows x cols display.
func (o *Opts) Bounds(rows, cols int) image.Rectangle {
	c := o.CellSize()
	return image.Rect(0, 0, 2*o.Margin+cols*c.X-o.Scale, 2*o.Margin+rows*c.Y-o.Scale)
}

// CellOrigin returns the top left pixel of the cell at row, col.
func (o *Opts) CellOrigin(row, col int) image.Point {
	c := o.CellSize()
	return image.Point{X: o.Margin + col*c.X, Y: o.Margin + row*c.Y}
}

func (o *Opts) withDefaults() (*Opts, error) {
	r := DefaultOpts
	if o != nil {
		if o.Scale > 0 {
			r.Scale = o.Scale
		}
		r.Margin = o.Margin
		r.Face = o.Face
		if o.Panel != nil {
			r.Panel = o.Panel
		}
		if o.PanelOff != nil {
			r.PanelOff = o.PanelOff
		}
		if o.Cell != nil {
			r.Cell = o.Cell
		}
		if o.Ink != nil {
			r.Ink = o.Ink
		}
	}
	if r.Margin <= 0 {
		r.Margin = 2 * r.Scale
	}
	if r.Face == nil {
		f, err := defaultFont()
		if err != nil {
			return nil, err
		}
		r.Face = truetype.NewFace(f, &truetype.Options{Size: float64(dotsY * r.Scale)})
	}
	return &r, nil
}

var defaultFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Render draws src as an image.
func Render(src Source, opts *Opts) (image.Image, error) {
	content := src.Content()
	if len(content) == 0 || src.Cols() == 0 {
		return nil, errNoContent
	}
	o, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	b := o.Bounds(len(content), src.Cols())
	dc := gg.NewContext(b.Dx(), b.Dy())
	if src.BacklightOn() {
		dc.SetColor(o.Panel)
	} else {
		dc.SetColor(o.PanelOff)
	}
	dc.Clear()
	dc.SetFontFace(o.Face)

	s := float64(o.Scale)
	cw, ch := dotsX*s, dotsY*s
	for row, line := range content {
		for col, code := range line {
			p := o.CellOrigin(row, col)
			x, y := float64(p.X), float64(p.Y)
			dc.SetColor(o.Cell)
			dc.DrawRectangle(x, y, cw, ch)
			dc.Fill()
			dc.SetColor(o.Ink)
			if g, ok := src.Glyph(int(code)); ok && code < 8 {
				for dy, bits := range g {
					for dx := 0; dx < dotsX; dx++ {
						if bits&(1<<(dotsX-1-dx)) != 0 {
							dc.DrawRectangle(x+float64(dx)*s, y+float64(dy)*s, s, s)
						}
					}
				}
				dc.Fill()
				continue
			}
			if code == blank || code < 8 {
				continue
			}
			r := charmap.ISO8859_1.DecodeByte(code)
			dc.DrawStringAnchored(string(r), x+cw/2, y+ch/2, 0.5, 0.5)
		}
	}
	return dc.Image(), nil
}

// Encode renders src and writes it to w as PNG.
func Encode(w io.Writer, src Source, opts *Opts) error {
	img, err := Render(src, opts)
	if err != nil {
		return err
	}
	return gg.NewContextForImage(img).EncodePNG(w)
}

// SavePNG renders src to the PNG file path.
func SavePNG(path string, src Source, opts *Opts) error {
	img, err := Render(src, opts)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}
