// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/bousqi/Clock-RPLCD-i2c/hd44780"
)

var (
	happy = []byte{0x00, 0x0a, 0x0a, 0x00, 0x11, 0x11, 0x0e, 0x00}
	sad   = []byte{0x00, 0x0a, 0x0a, 0x00, 0x0e, 0x11, 0x11, 0x00}
)

type check struct {
	do   func() error
	want string
}

// selftest walks through every feature of the driver, telling what the
// display should show after each step.
func (a *app) selftest(ctx context.Context) error {
	lcd := a.lcd
	if lcd.Rows() < 2 || lcd.Cols() < 16 {
		return errors.New("selftest: needs a display of at least 16x2")
	}
	if !lcd.AutoLinebreaks() {
		return errors.New("selftest: needs automatic line breaks, drop -nowrap")
	}
	last := lcd.Cols() - 1
	write := func(s string) error {
		_, err := lcd.WriteString(s)
		return err
	}
	all := func(fns ...func() error) func() error {
		return func() error {
			for _, fn := range fns {
				if err := fn(); err != nil {
					return err
				}
			}
			return nil
		}
	}
	at := func(row, col int) func() error {
		return func() error { return lcd.SetCursorPos(row, col) }
	}
	str := func(s string) func() error {
		return func() error { return write(s) }
	}
	expect := func(row, col int) func() error {
		return func() error {
			if r, c := lcd.CursorPos(); r != row || c != col {
				return fmt.Errorf("selftest: cursor at (%d, %d), want (%d, %d)", r, c, row, col)
			}
			return nil
		}
	}
	steps := []check{
		{func() error { return nil }, "Display should be blank."},
		{func() error { return lcd.SetCursorMode(hd44780.CursorBlink) }, "The cursor should now blink."},
		{func() error { return lcd.SetCursorMode(hd44780.CursorLine) }, "The cursor should now be a line."},
		{all(str("Hello world!"), expect(0, 12)), `"Hello world!" should be on the LCD.`},
		{all(at(1, 0), str("2"), expect(1, 1)), "Line 2 should now be labelled with the right number."},
		{lcd.Clear, "Display should now be clear, cursor should be at initial position."},
		{all(at(0, 5), str("12345")), "The string should have a left offset of 5 characters."},
		{
			all(func() error { return lcd.SetWriteShiftMode(hd44780.ShiftDisplay) }, at(1, 5), str("12345")),
			"Both strings should now be at column 0.",
		},
		{
			all(func() error { return lcd.SetWriteShiftMode(hd44780.ShiftCursor) }, at(0, 5),
				func() error { return write(lcd.WriteShiftMode().String()) }),
			`The string "cursor" should now be on the first row, column 0.`,
		},
		{lcd.Home, "Cursor should now be at initial position. Everything should be shifted to the right by 5 characters."},
		{all(at(1, last), str("X"), at(0, 0)), `The last character on the LCD should now be an "X".`},
		{func() error { return lcd.SetDisplayEnabled(false) }, "Display should now be blank."},
		{
			all(lcd.Clear, str("Eggs Ham Bacon\n\rand Spam"), func() error { return lcd.SetDisplayEnabled(true) }),
			`Display should now show "Eggs Ham Bacon and Spam".`,
		},
		{func() error { return lcd.ShiftDisplay(4) }, "Text should now be shifted to the right by 4 characters."},
		{func() error { return lcd.ShiftDisplay(-4) }, "Shift should now be undone."},
		{
			all(func() error { return lcd.SetAlignment(hd44780.AlignRight) },
				func() error { return lcd.SetCursorMode(hd44780.CursorHide) }, str(" Spam")),
			`The word "Spam" should now be inverted.`,
		},
		{
			all(func() error { return lcd.SetAlignment(hd44780.AlignLeft) }, str(" Wurscht")),
			`The word "mapS" should now be replaced with "Wurscht".`,
		},
		{
			all(lcd.Clear, str("1\n"), str("2")),
			"The numbers 1-2 should now be displayed, each line shifted to the right by 1 char more than the previous.",
		},
		{all(lcd.Clear, str("This is a multiple line string!")), "Text should nicely wrap around lines."},
		{
			all(lcd.Clear,
				func() error { return lcd.CreateChar(0, sad) }, str("\x00"),
				func() error { return lcd.CreateChar(1, happy) }, str("\x01")),
			"You should now see a sad and a happy face next to each other.",
		},
		{
			all(func() error { return lcd.CreateChar(0, happy) }, lcd.Home, str("\x00")),
			"Now both faces should be happy.",
		},
		{
			all(lcd.Clear, func() error { return lcd.SetBacklight(false) }, lcd.Home, str("No backlight")),
			"Display backlight should be off (if wired).",
		},
		{
			all(lcd.Clear, func() error { return lcd.SetBacklight(true) }, lcd.Home, str("Backlight")),
			"Display backlight should be back on (if wired).",
		},
	}
	for i, s := range steps {
		if err := s.do(); err != nil {
			return fmt.Errorf("selftest step %d: %w", i+1, err)
		}
		if err := a.step(ctx, s.want); err != nil {
			return err
		}
	}
	if err := lcd.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Test done.")
	return a.show()
}
