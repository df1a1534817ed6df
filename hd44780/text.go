// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// breakState tracks the line break characters skipped after an automatic
// line break, for one write call.
type breakState int

const (
	breakIdle breakState = iota
	breakIgnoredNewline
	breakIgnoredReturn
)

func ignoredFor(c byte) breakState {
	if c == '\n' {
		return breakIgnoredNewline
	}
	return breakIgnoredReturn
}

// WriteString writes text at the cursor position.
//
// Use '\n' to move to the next row and '\r' to move back to the start of the
// row. Text that doesn't fit on a row continues on the next one unless
// automatic line breaks are disabled; a '\n' or '\r' right after such an
// automatic break is skipped so "\r\n" terminated lines of exactly the display
// width don't leave an empty row.
//
// Runes are mapped to the 8 bit character codes 0 to 255; other runes and
// invalid UTF-8 fail with ErrUnsupportedChar after the characters before them
// are written. The returned count is in bytes of text; it stops at the
// first character that couldn't be written.
func (d *Dev) WriteString(text string) (int, error) {
	st := breakIdle
	for i, r := range text {
		c, ok := charmap.ISO8859_1.EncodeRune(r)
		if !ok {
			return i, fmt.Errorf("%s: %q at offset %d: %w", packageName, r, i, ErrUnsupportedChar)
		}
		if err := d.writeChar(c, &st); err != nil {
			return i, err
		}
	}
	return len(text), nil
}

// Write writes raw character codes at the cursor position with the same line
// handling as WriteString.
func (d *Dev) Write(p []byte) (int, error) {
	st := breakIdle
	for i, c := range p {
		if err := d.writeChar(c, &st); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteAt moves the cursor to (row, col) then writes text.
func (d *Dev) WriteAt(row, col int, text string) (int, error) {
	if err := d.SetCursorPos(row, col); err != nil {
		return 0, err
	}
	return d.WriteString(text)
}

func (d *Dev) writeChar(c byte, st *breakState) error {
	if c != '\n' && c != '\r' {
		*st = breakIdle
		return d.WriteByte(c)
	}
	if d.recentAutoLinebreak {
		switch *st {
		case breakIdle:
			*st = ignoredFor(c)
			return nil
		case ignoredFor(c):
			// Same character again, it's a real line break.
		default:
			// "\r\n" or "\n\r": the pair belongs to the automatic break.
			*st = breakIdle
			return nil
		}
	}
	if c == '\n' {
		row := d.row + 1
		if row >= d.rows {
			row = 0
		}
		return d.SetCursorPos(row, d.col)
	}
	if d.align == AlignLeft {
		return d.SetCursorPos(d.row, 0)
	}
	return d.SetCursorPos(d.row, d.cols-1)
}

// WriteByte writes the character code b at the cursor position and advances
// the cursor in the text direction.
//
// Line break characters aren't interpreted. b isn't sent when the cell
// already shows it.
//
// With automatic line breaks disabled, the write that fills the last cell of
// a row leaves the cursor past the edge: further writes fail with
// ErrOutOfRange until the cursor is moved or the alignment is changed.
func (d *Dev) WriteByte(b byte) error {
	if d.parked {
		return fmt.Errorf("%s: writing past the end of row %d: %w", packageName, d.row, ErrOutOfRange)
	}
	row, col := d.row, d.col
	unchanged := d.content[row][col] == b
	if !unchanged {
		if err := d.data(b); err != nil {
			return wrap(err)
		}
		d.content[row][col] = b
	}

	last := d.cols - 1
	if d.align == AlignLeft {
		if col < last {
			return d.advance(row, col+1, unchanged)
		}
		if !d.autoLinebreaks {
			d.parked = true
			d.recentAutoLinebreak = false
			return nil
		}
		d.recentAutoLinebreak = true
		return d.SetCursorPos(d.nextRow(row), 0)
	}
	if col > 0 {
		return d.advance(row, col-1, unchanged)
	}
	if !d.autoLinebreaks {
		d.parked = true
		d.recentAutoLinebreak = false
		return nil
	}
	d.recentAutoLinebreak = true
	return d.SetCursorPos(d.nextRow(row), last)
}

// advance moves the cached cursor within a row. After a data write the
// controller's address counter already moved; when the write was skipped it
// didn't and the address is sent again.
func (d *Dev) advance(row, col int, unchanged bool) error {
	d.recentAutoLinebreak = false
	if unchanged {
		return d.SetCursorPos(row, col)
	}
	d.row, d.col = row, col
	return nil
}

func (d *Dev) nextRow(row int) int {
	if row < d.rows-1 {
		return row + 1
	}
	return 0
}
