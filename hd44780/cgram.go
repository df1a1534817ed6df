// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import "fmt"

const (
	cgramSlots = 8
	glyphRows  = 8
)

// CreateChar stores a custom character in CGRAM slot location (0 to 7).
// Writing the character code location then shows it.
//
// bitmap holds 8 rows of 5 pixels, the least significant bit is the rightmost
// pixel. Upper bits are ignored.
//
// Example:
//
//	smiley := []byte{
//		0b00000,
//		0b01010,
//		0b01010,
//		0b00000,
//		0b10001,
//		0b10001,
//		0b01110,
//		0b00000,
//	}
//	err := dev.CreateChar(0, smiley)
func (d *Dev) CreateChar(location int, bitmap []byte) error {
	if location < 0 || location >= cgramSlots {
		return fmt.Errorf("%s: CGRAM location %d, want 0 to %d: %w", packageName, location, cgramSlots-1, ErrOutOfRange)
	}
	if len(bitmap) != glyphRows {
		return fmt.Errorf("%s: %d rows: %w", packageName, len(bitmap), ErrBitmapShape)
	}
	row, col, parked := d.row, d.col, d.parked
	if err := d.command(cmdSetCGRAMAddr | byte(location)<<3); err != nil {
		return wrap(err)
	}
	glyph := make([]byte, glyphRows)
	for i, b := range bitmap {
		glyph[i] = b & 0x1f
		if err := d.data(glyph[i]); err != nil {
			return wrap(err)
		}
	}
	d.glyphs[location] = glyph
	// The address counter now points in CGRAM; go back to DDRAM.
	if err := d.SetCursorPos(row, col); err != nil {
		return err
	}
	d.parked = parked
	return nil
}

// Glyph returns the bitmap last stored in CGRAM slot location by CreateChar.
func (d *Dev) Glyph(location int) ([]byte, bool) {
	if location < 0 || location >= cgramSlots || d.glyphs[location] == nil {
		return nil, false
	}
	return append([]byte(nil), d.glyphs[location]...), true
}
