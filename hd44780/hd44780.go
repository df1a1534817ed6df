// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hd44780 controls the Hitachi LCD display chipset HD-44780 wired in
// 4 bit mode behind an I²C GPIO expander, like the ubiquitous PCF8574
// "LCD1602"/"LCD2004" backpacks.
//
// The driver is write-only: the controller is never read back. It keeps a
// model of the cursor position and of the screen contents so that text
// written with WriteString wraps to the next row, and so that characters that
// are already on screen are not sent again.
//
// # Datasheet
//
// https://www.sparkfun.com/datasheets/LCD/HD44780.pdf
//
// # Backpack
//
// https://www.handsontec.com/dataspecs/I2C_2004_LCD.pdf
package hd44780

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
)

// Instructions.
const (
	cmdClearDisplay   byte = 0x01
	cmdReturnHome     byte = 0x02
	cmdEntryModeSet   byte = 0x04
	cmdDisplayControl byte = 0x08
	cmdCursorShift    byte = 0x10
	cmdFunctionSet    byte = 0x20
	cmdSetCGRAMAddr   byte = 0x40
	cmdSetDDRAMAddr   byte = 0x80
)

// Instruction flags.
const (
	flagDisplayOn byte = 0x04

	flagDisplayMove byte = 0x08
	flagMoveRight   byte = 0x04

	flag2Line    byte = 0x08
	flag5x10Dots byte = 0x04
)

// Settle delays.
const (
	delayPowerOn     = 50 * time.Millisecond
	delayInitLong    = 4500 * time.Microsecond
	delayInitShort   = 100 * time.Microsecond
	delayInstruction = 50 * time.Microsecond
	delayClear       = 2 * time.Millisecond
	delayPulse       = 1 * time.Microsecond
	delayLatch       = 100 * time.Microsecond
)

// blank is the character code the content cache is filled with.
const blank byte = 0x20

// Dev is an HD44780 display behind a PCF8574 I²C backpack.
//
// Every method blocks until the bus transfers and the settle delays it needs
// are done. Dev is not safe for concurrent use; wrap it in a mutex if more
// than one goroutine talks to the display.
//
// When a bus write fails the operation is left partially applied and the
// cached cursor and content may no longer match the panel. Clear() and a full
// redraw bring them back in sync.
type Dev struct {
	c     conn.Conn
	log   logrus.FieldLogger
	sleep func(time.Duration)

	rows           int
	cols           int
	dotSize        DotSize
	autoLinebreaks bool

	content             [][]byte
	row                 int
	col                 int
	parked              bool
	recentAutoLinebreak bool

	align     Alignment
	shift     ShiftMode
	cursor    CursorMode
	displayOn bool
	backlight bool

	glyphs [cgramSlots][]byte
}

// New returns an initialized display on the expander at addr.
//
// Use default options if nil is used. An address of 0 selects
// DefaultAddress. The options are validated before anything is sent on the
// bus.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	return newDev(bus, addr, opts, time.Sleep)
}

func newDev(bus i2c.Bus, addr uint16, opts *Opts, sleep func(time.Duration)) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o, err := opts.normalize()
	if err != nil {
		return nil, wrap(err)
	}
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > maxAddress {
		return nil, fmt.Errorf("%s: address %#x is not a 7 bit I²C address: %w", packageName, addr, ErrConfig)
	}
	d := &Dev{
		c:              &i2c.Dev{Bus: bus, Addr: addr},
		log:            o.Logger,
		sleep:          sleep,
		rows:           o.Rows,
		cols:           o.Cols,
		dotSize:        o.DotSize,
		autoLinebreaks: o.AutoLinebreaks,
		backlight:      true,
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	d.log = d.log.WithFields(logrus.Fields{"dev": d.String(), "addr": fmt.Sprintf("0x%02x", addr)})
	d.content = blankContent(d.rows, d.cols)
	if err := d.init(); err != nil {
		return nil, wrap(err)
	}
	return d, nil
}

// init runs the "initializing by instruction" sequence of the datasheet
// (figure 24) for a 4 bit interface. The controller can't be queried until it
// completes so every step relies on delays alone.
func (d *Dev) init() error {
	d.sleep(delayPowerOn)
	steps := []struct {
		nibble byte
		delay  time.Duration
	}{
		{0x03, delayInitLong},
		{0x03, delayInitLong},
		{0x03, delayInitShort},
		{0x02, 0},
	}
	for _, s := range steps {
		if err := d.write4Bits(s.nibble << 4); err != nil {
			return err
		}
		d.sleep(s.delay)
	}

	function := cmdFunctionSet
	if d.rows > 1 {
		// 4 row displays are 2 line displays with the lines split in halves.
		function |= flag2Line
	}
	if d.dotSize == DotSize10 {
		function |= flag5x10Dots
	}
	if err := d.command(function); err != nil {
		return err
	}
	d.sleep(delayInstruction)

	d.displayOn = true
	d.cursor = CursorHide
	if err := d.command(displayControl(d.displayOn, d.cursor)); err != nil {
		return err
	}
	d.sleep(delayInstruction)

	if err := d.Clear(); err != nil {
		return err
	}

	d.align = AlignLeft
	d.shift = ShiftCursor
	if err := d.command(entryMode(d.align, d.shift)); err != nil {
		return err
	}
	d.sleep(delayInstruction)
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%s, %dx%d}", packageName, d.c, d.rows, d.cols)
}

// Halt clears the display, turns it off and turns the backlight off.
//
// It is the explicit shutdown path; the bus itself belongs to the caller.
func (d *Dev) Halt() error {
	if err := d.Clear(); err != nil {
		return err
	}
	if err := d.SetDisplayEnabled(false); err != nil {
		return err
	}
	return d.SetBacklight(false)
}

// Rows returns the number of rows the display supports.
func (d *Dev) Rows() int {
	return d.rows
}

// Cols returns the number of columns the display supports.
func (d *Dev) Cols() int {
	return d.cols
}

// DotSize returns the font height the display was configured with.
func (d *Dev) DotSize() DotSize {
	return d.dotSize
}

// AutoLinebreaks reports whether writes wrap to the next row at the end of a
// row.
func (d *Dev) AutoLinebreaks() bool {
	return d.autoLinebreaks
}

// Content returns a copy of the cached screen contents, one slice per row.
func (d *Dev) Content() [][]byte {
	out := make([][]byte, d.rows)
	for i, r := range d.content {
		out[i] = append([]byte(nil), r...)
	}
	return out
}

// Clear overwrites the display with blank characters and moves the cursor to
// (0, 0).
func (d *Dev) Clear() error {
	if err := d.command(cmdClearDisplay); err != nil {
		return wrap(err)
	}
	d.row, d.col = 0, 0
	d.parked = false
	d.content = blankContent(d.rows, d.cols)
	d.sleep(delayClear)
	return nil
}

// Home moves the cursor to (0, 0) and undoes any display shift. The content
// is left as is.
func (d *Dev) Home() error {
	if err := d.command(cmdReturnHome); err != nil {
		return wrap(err)
	}
	d.row, d.col = 0, 0
	d.parked = false
	d.sleep(delayClear)
	return nil
}

// ShiftDisplay shifts the whole display by amount characters, to the right
// when positive and to the left when negative.
//
// Only what is shown moves: the content cache and the cursor position are
// not affected.
func (d *Dev) ShiftDisplay(amount int) error {
	dir := flagMoveRight
	if amount < 0 {
		dir = 0
		amount = -amount
	}
	for range amount {
		if err := d.command(cmdCursorShift | flagDisplayMove | dir); err != nil {
			return wrap(err)
		}
		d.sleep(delayInstruction)
	}
	return nil
}

// Command sends a raw instruction to the controller.
//
// The cached cursor and content are not updated; prefer the typed methods.
func (d *Dev) Command(b byte) error {
	err := d.command(b)
	d.sleep(delayInstruction)
	return wrap(err)
}

func blankContent(rows, cols int) [][]byte {
	c := make([][]byte, rows)
	for i := range c {
		c[i] = make([]byte, cols)
		for j := range c[i] {
			c[i][j] = blank
		}
	}
	return c
}

var _ conn.Resource = &Dev{}
var _ display.TextDisplay = &Dev{}
var _ display.DisplayBacklight = &Dev{}
