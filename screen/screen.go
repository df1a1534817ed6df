// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package screen mirrors the content of a character LCD to the terminal
// using ANSI color codes.
//
// Useful to see what a display shows when it's on the other side of the
// room, or to develop without one.
package screen

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"unicode"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"golang.org/x/text/encoding/charmap"
	"periph.io/x/conn/v3"
)

// Source is what is shown: a character grid and a backlight.
//
// *hd44780.Dev implements it.
type Source interface {
	Rows() int
	Cols() int
	// Content returns one slice of character codes per row.
	Content() [][]byte
	BacklightOn() bool
}

// Opts represents the options available for the mirror.
type Opts struct {
	// W is where the frames are written. Defaults to stdout.
	W io.Writer
	// Palette converts the bezel color to the terminal's. Defaults to
	// ansi256.Default.
	Palette *ansi256.Palette
	// Bezel is the color around the characters while the backlight is on.
	Bezel color.NRGBA

	_ struct{}
}

// DefaultBezel is the yellow-green of the common STN panels.
var DefaultBezel = color.NRGBA{R: 0x9c, G: 0xd0, B: 0x2a, A: 0xff}

var bezelOff = color.NRGBA{A: 0xff}

// Dev draws frames of a Source on the terminal.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	bezel   color.NRGBA

	lines int
	buf   bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &Opts{}
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	bezel := opts.Bezel
	if bezel == (color.NRGBA{}) {
		bezel = DefaultBezel
	}
	return &Dev{w: w, palette: *p, bezel: bezel}
}

func (d *Dev) String() string {
	return "Screen"
}

// Halt resets the terminal attributes and moves below the last frame.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\033[0m\n"))
	return err
}

// Refresh draws the current content of src, over the previous frame if
// there is one.
func (d *Dev) Refresh(src Source) error {
	d.buf.Reset()
	if d.lines != 0 {
		// Go back to the top left of the previous frame.
		fmt.Fprintf(&d.buf, "\033[%dA\r", d.lines)
	}
	bezel := d.bezel
	if !src.BacklightOn() {
		bezel = bezelOff
	}
	edge := d.palette.Block(bezel)
	content := src.Content()
	cols := src.Cols()

	_, _ = d.buf.WriteString("\033[0m")
	for range cols + 2 {
		_, _ = d.buf.WriteString(edge)
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	for _, row := range content {
		_, _ = d.buf.WriteString(edge)
		_, _ = d.buf.WriteString("\033[0m")
		for _, c := range row {
			_, _ = d.buf.WriteRune(Rune(c))
		}
		_, _ = d.buf.WriteString(edge)
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	for range cols + 2 {
		_, _ = d.buf.WriteString(edge)
	}
	_, _ = d.buf.WriteString("\033[0m\n")
	d.lines = len(content) + 2
	_, err := d.buf.WriteTo(d.w)
	return err
}

// Rune returns the terminal rendition of the character code c.
//
// Codes 0 to 7 are the custom characters and show as a shade. The others
// are shown as their ISO-8859-1 counterpart, which is close to the European
// character ROM; control codes show as '?'.
func Rune(c byte) rune {
	if c < 8 {
		return '▒'
	}
	r := charmap.ISO8859_1.DecodeByte(c)
	if !unicode.IsPrint(r) {
		return '?'
	}
	return r
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
