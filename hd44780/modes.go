// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Alignment is the direction text is written in.
//
// The value is the entry mode register bit it stands for.
type Alignment byte

const (
	// AlignLeft writes left to right, the cursor moves forward.
	AlignLeft Alignment = 0x02
	// AlignRight writes right to left, the cursor moves backward.
	AlignRight Alignment = 0x00
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Alignment(%d)", byte(a))
	}
}

// ShiftMode selects what moves when a character is written.
type ShiftMode byte

const (
	// ShiftCursor moves the cursor.
	ShiftCursor ShiftMode = 0x00
	// ShiftDisplay moves the whole display and keeps the cursor in place.
	ShiftDisplay ShiftMode = 0x01
)

func (s ShiftMode) String() string {
	switch s {
	case ShiftCursor:
		return "cursor"
	case ShiftDisplay:
		return "display"
	default:
		return fmt.Sprintf("ShiftMode(%d)", byte(s))
	}
}

// CursorMode is how the cursor is shown.
//
// The value holds the cursor and blink bits of the display control register.
type CursorMode byte

const (
	CursorHide  CursorMode = 0x00
	CursorLine  CursorMode = 0x02
	CursorBlink CursorMode = 0x01
)

func (c CursorMode) String() string {
	switch c {
	case CursorHide:
		return "hide"
	case CursorLine:
		return "line"
	case CursorBlink:
		return "blink"
	default:
		return fmt.Sprintf("CursorMode(%d)", byte(c))
	}
}

func (a Alignment) valid() bool  { return a == AlignLeft || a == AlignRight }
func (s ShiftMode) valid() bool  { return s == ShiftCursor || s == ShiftDisplay }
func (c CursorMode) valid() bool { return c == CursorHide || c == CursorLine || c == CursorBlink }

// entryMode encodes the entry mode set instruction.
func entryMode(a Alignment, s ShiftMode) byte {
	return cmdEntryModeSet | byte(a) | byte(s)
}

// displayControl encodes the display on/off control instruction.
func displayControl(on bool, c CursorMode) byte {
	b := cmdDisplayControl | byte(c)
	if on {
		b |= flagDisplayOn
	}
	return b
}

// Alignment returns the text alignment.
func (d *Dev) Alignment() Alignment {
	return d.align
}

// SetAlignment changes the direction the cursor moves after a write.
//
// A cursor stopped at the edge of a row by a write with automatic line breaks
// disabled can write again: the cell it points to is written next.
func (d *Dev) SetAlignment(a Alignment) error {
	if !a.valid() {
		return fmt.Errorf("%s: %s: %w", packageName, a, ErrInvalidMode)
	}
	unpark := d.parked && a != d.align
	d.align = a
	if err := d.pushEntryMode(); err != nil {
		return err
	}
	if unpark {
		// The controller's address counter moved past the edge.
		return d.SetCursorPos(d.row, d.col)
	}
	return nil
}

// WriteShiftMode returns what moves on writes.
func (d *Dev) WriteShiftMode() ShiftMode {
	return d.shift
}

// SetWriteShiftMode selects whether the cursor or the display moves on
// writes.
func (d *Dev) SetWriteShiftMode(s ShiftMode) error {
	if !s.valid() {
		return fmt.Errorf("%s: %s: %w", packageName, s, ErrInvalidMode)
	}
	d.shift = s
	return d.pushEntryMode()
}

// CursorMode returns how the cursor is shown.
func (d *Dev) CursorMode() CursorMode {
	return d.cursor
}

// SetCursorMode changes how the cursor is shown.
func (d *Dev) SetCursorMode(c CursorMode) error {
	if !c.valid() {
		return fmt.Errorf("%s: %s: %w", packageName, c, ErrInvalidMode)
	}
	d.cursor = c
	return d.pushDisplayControl()
}

// DisplayEnabled reports whether characters are shown at all.
func (d *Dev) DisplayEnabled() bool {
	return d.displayOn
}

// SetDisplayEnabled turns the characters on or off. The content is kept by
// the controller while it is off.
func (d *Dev) SetDisplayEnabled(on bool) error {
	d.displayOn = on
	return d.pushDisplayControl()
}

// BacklightOn reports the state of the backlight.
func (d *Dev) BacklightOn() bool {
	return d.backlight
}

// SetBacklight turns the backlight on or off.
//
// The backlight is a line of the expander, not an instruction of the
// controller: every later port write carries the new state.
func (d *Dev) SetBacklight(on bool) error {
	d.backlight = on
	var v byte
	if on {
		v = pinBacklight
	}
	d.log.WithFields(logrus.Fields{"op": "backlight", "value": on}).Debug("send")
	return wrap(d.port(v))
}

func (d *Dev) pushEntryMode() error {
	err := d.command(entryMode(d.align, d.shift))
	d.sleep(delayInstruction)
	return wrap(err)
}

func (d *Dev) pushDisplayControl() error {
	err := d.command(displayControl(d.displayOn, d.cursor))
	d.sleep(delayInstruction)
	return wrap(err)
}
