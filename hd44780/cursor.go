// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"periph.io/x/conn/v3/display"
)

// rowOffset returns the DDRAM address of the first cell of row.
//
// Rows 2 and 3 of a 4 row display are the second halves of the controller's
// two 40 character lines.
func (d *Dev) rowOffset(row int) byte {
	switch row {
	case 1:
		return 0x40
	case 2:
		return byte(d.cols)
	case 3:
		return 0x40 + byte(d.cols)
	default:
		return 0x00
	}
}

// CursorPos returns the cell the next character is written to.
func (d *Dev) CursorPos() (row, col int) {
	return d.row, d.col
}

// SetCursorPos moves the cursor to (row, col), both 0 based.
func (d *Dev) SetCursorPos(row, col int) error {
	if row < 0 || row >= d.rows || col < 0 || col >= d.cols {
		return fmt.Errorf("%s: cursor position (%d, %d) invalid on a %dx%d display: %w", packageName, row, col, d.rows, d.cols, ErrOutOfRange)
	}
	d.row, d.col = row, col
	d.parked = false
	err := d.command(cmdSetDDRAMAddr | (d.rowOffset(row) + byte(col)))
	d.sleep(delayInstruction)
	return wrap(err)
}

// MinRow returns 0, rows are 0 based.
func (d *Dev) MinRow() int {
	return 0
}

// MinCol returns 0, columns are 0 based.
func (d *Dev) MinCol() int {
	return 0
}

// MoveTo is SetCursorPos, for display.TextDisplay.
func (d *Dev) MoveTo(row, col int) error {
	return d.SetCursorPos(row, col)
}

// Move moves the cursor by one cell. Moving past the edges is an error.
func (d *Dev) Move(dir display.CursorDirection) error {
	row, col := d.row, d.col
	switch dir {
	case display.Forward:
		col++
	case display.Backward:
		col--
	case display.Up:
		row--
	case display.Down:
		row++
	default:
		return fmt.Errorf("%s: cursor direction %d: %w", packageName, dir, ErrInvalidMode)
	}
	return d.SetCursorPos(row, col)
}

// Cursor sets the cursor mode from the display package constants. The last
// mode given wins.
//
// The controller has no separate underline and block cursors: CursorUnderline
// is the line cursor, CursorBlock and CursorBlink are the blinking block.
func (d *Dev) Cursor(modes ...display.CursorMode) error {
	c := d.cursor
	for _, m := range modes {
		switch m {
		case display.CursorOff:
			c = CursorHide
		case display.CursorUnderline:
			c = CursorLine
		case display.CursorBlock, display.CursorBlink:
			c = CursorBlink
		default:
			return fmt.Errorf("%s: cursor %d: %w", packageName, m, ErrInvalidMode)
		}
	}
	return d.SetCursorMode(c)
}

// Display turns the display on or off.
func (d *Dev) Display(on bool) error {
	return d.SetDisplayEnabled(on)
}

// AutoScroll selects the display shift write mode when enabled, so the text
// scrolls while the cursor stays in place.
func (d *Dev) AutoScroll(enabled bool) error {
	if enabled {
		return d.SetWriteShiftMode(ShiftDisplay)
	}
	return d.SetWriteShiftMode(ShiftCursor)
}

// Backlight turns the backlight on for any non zero intensity. The backpack
// can't dim it.
func (d *Dev) Backlight(intensity display.Intensity) error {
	return d.SetBacklight(intensity > 0)
}
