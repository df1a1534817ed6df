// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bigclock shows a wall clock with two rows tall digits on a 16x2
// character LCD.
//
// The digits are built from the 8 custom characters, which the clock takes
// over entirely. Every few minutes the clock slides out to show the date and,
// when a thermometer is available, the temperature.
package bigclock

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Display is the subset of *hd44780.Dev used by the clock.
type Display interface {
	Rows() int
	Cols() int
	CreateChar(location int, bitmap []byte) error
	SetCursorPos(row, col int) error
	Write(p []byte) (int, error)
	ShiftDisplay(amount int) error
	SetBacklight(on bool) error
}

// Custom character slots.
const (
	topLine = iota
	bottomLine
	bothLines
	dot
	upLeft
	upRight
	botRight
	botLeft
)

// Character ROM codes. 0xFE is empty and 0xFF is a full block on the A00
// ROM.
const (
	empty = 0xfe
	full  = 0xff

	degree = 0xdf
)

// Glyphs are the bitmaps loaded in CGRAM by Load.
var Glyphs = [8][]byte{
	topLine:    {0x1f, 0x1f, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
	bottomLine: {0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x1f, 0x1f},
	bothLines:  {0x1f, 0x1f, 0x00, 0x00, 0x00, 0x00, 0x1f, 0x1f},
	dot:        {0x00, 0x00, 0x00, 0x18, 0x18, 0x00, 0x00, 0x00},
	upLeft:     {0x07, 0x0f, 0x0f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f},
	upRight:    {0x1c, 0x1e, 0x1e, 0x1f, 0x1f, 0x1f, 0x1f, 0x1f},
	botRight:   {0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x1e, 0x1e, 0x1c},
	botLeft:    {0x1f, 0x1f, 0x1f, 0x1f, 0x1f, 0x0f, 0x0f, 0x07},
}

// digits holds the top and bottom rows of each big character.
var digits = map[rune][2][]byte{
	'0': {{upLeft, topLine, upRight}, {botLeft, bottomLine, botRight}},
	'1': {{topLine, upRight, empty}, {bottomLine, full, bottomLine}},
	'2': {{bothLines, bothLines, upRight}, {full, bottomLine, bottomLine}},
	'3': {{topLine, bothLines, upRight}, {bottomLine, bottomLine, botRight}},
	'4': {{full, bottomLine, full}, {empty, empty, botRight}},
	'5': {{full, bothLines, bothLines}, {bottomLine, bottomLine, botRight}},
	'6': {{upLeft, bothLines, bothLines}, {botLeft, bottomLine, botRight}},
	'7': {{topLine, topLine, upRight}, {empty, empty, botRight}},
	'8': {{upLeft, bothLines, upRight}, {botLeft, bottomLine, botRight}},
	'9': {{full, bothLines, upRight}, {bottomLine, bottomLine, botRight}},
	'C': {{full, bothLines}, {empty, empty}},
	'-': {{bottomLine, bottomLine, bottomLine}, {empty, empty, empty}},
}

var blankDigit = [2][]byte{{empty, empty, empty}, {empty, empty, empty}}

// Big returns the top and bottom rows of the big rendition of c.
//
// Characters without a big rendition are blank, 3 cells wide.
func Big(c rune) (top, bottom []byte) {
	d, ok := digits[c]
	if !ok {
		d = blankDigit
	}
	return d[0], d[1]
}

// Column of each of the 4 digits of HH:MM, and of the colon.
var timeCols = [4]int{0, 4, 9, 13}

const colonCol = 8

// ErrTooSmall is returned when the display can't fit the clock.
var ErrTooSmall = errors.New("bigclock: display must be at least 16x2")

// Opts configures the clock.
type Opts struct {
	// Thermometer returns the temperature in °C. The temperature page is
	// skipped when nil.
	Thermometer func() (float64, error)
	// Now defaults to time.Now.
	Now func() time.Time
	// Every is the number of colon blinks between two date pages. Defaults
	// to 15.
	Every int
	// NightStart and NightEnd are the hours between which the backlight is
	// on. Defaults to 19 and 9.
	NightStart, NightEnd int
	// Logger receives the Debug trace and the thermometer errors. Nil uses
	// the logrus standard logger.
	Logger logrus.FieldLogger
}

// Clock draws the time on a Display.
type Clock struct {
	d     Display
	opts  Opts
	log   logrus.FieldLogger
	sleep func(ctx context.Context, d time.Duration) error
	last  string
}

// New loads the custom characters in d and returns a Clock.
func New(d Display, opts *Opts) (*Clock, error) {
	if d.Rows() < 2 || d.Cols() < 16 {
		return nil, ErrTooSmall
	}
	c := &Clock{d: d, sleep: sleepCtx}
	if opts != nil {
		c.opts = *opts
	}
	if c.opts.Now == nil {
		c.opts.Now = time.Now
	}
	if c.opts.Every <= 0 {
		c.opts.Every = 15
	}
	if c.opts.NightStart == 0 && c.opts.NightEnd == 0 {
		c.opts.NightStart, c.opts.NightEnd = 19, 9
	}
	c.log = c.opts.Logger
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log = c.log.WithField("dev", "bigclock")
	for i, g := range Glyphs {
		if err := d.CreateChar(i, g); err != nil {
			return nil, fmt.Errorf("bigclock: loading glyph %d: %w", i, err)
		}
	}
	return c, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (c *Clock) putAt(row, col int, b []byte) error {
	if err := c.d.SetCursorPos(row, col); err != nil {
		return err
	}
	_, err := c.d.Write(b)
	return err
}

// DrawBig draws the big rendition of r with its top left corner at col.
func (c *Clock) DrawBig(r rune, col int) error {
	top, bottom := Big(r)
	if err := c.putAt(0, col, top); err != nil {
		return err
	}
	return c.putAt(1, col, bottom)
}

// DrawTime draws HH MM, without the colon.
func (c *Clock) DrawTime(t time.Time) error {
	for i, r := range t.Format("1504") {
		if err := c.DrawBig(r, timeCols[i]); err != nil {
			return err
		}
	}
	return nil
}

// Colon shows or hides the colon between hours and minutes.
func (c *Clock) Colon(on bool) error {
	b := []byte{empty}
	if on {
		b[0] = dot
	}
	if err := c.putAt(0, colonCol, b); err != nil {
		return err
	}
	return c.putAt(1, colonCol, b)
}

// Night reports whether the backlight should be on at t.
func (c *Clock) Night(t time.Time) bool {
	h := t.Hour()
	if c.opts.NightStart <= c.opts.NightEnd {
		return h >= c.opts.NightStart && h < c.opts.NightEnd
	}
	return h >= c.opts.NightStart || h < c.opts.NightEnd
}

// Tick redraws the time if the minute changed since the last call, and sets
// the backlight accordingly.
func (c *Clock) Tick(t time.Time) error {
	now := t.Format("150402")
	if now == c.last {
		return nil
	}
	c.log.WithField("op", "tick").Debugf("%s", t.Format("15:04"))
	if err := c.DrawTime(t); err != nil {
		return err
	}
	c.last = now
	return c.d.SetBacklight(c.Night(t))
}

// slide scrolls the whole display by the width of the clock, one column at
// a time.
func (c *Clock) slide(ctx context.Context, dir int) error {
	for range 16 {
		if err := c.d.ShiftDisplay(dir); err != nil {
			return err
		}
		if err := c.sleep(ctx, 50*time.Millisecond); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	copy(b, s)
	return b
}

// DrawDate draws the day of month in big digits followed by the month and
// the day names.
func (c *Clock) DrawDate(t time.Time) error {
	day := t.Format("02")
	if err := c.DrawBig(rune(day[0]), 0); err != nil {
		return err
	}
	if err := c.DrawBig(rune(day[1]), 4); err != nil {
		return err
	}
	if err := c.putAt(0, 7, pad("", 9)); err != nil {
		return err
	}
	if err := c.putAt(1, 7, pad("", 9)); err != nil {
		return err
	}
	if err := c.putAt(0, 8, pad(t.Month().String(), 8)); err != nil {
		return err
	}
	return c.putAt(1, 8, pad(t.Weekday().String(), 8))
}

// DrawTemp draws the temperature rounded to the degree, followed by °C.
//
// There's room for 2 big characters: temperatures from -9 to 99 are drawn,
// others show as "--".
func (c *Clock) DrawTemp(temp float64) error {
	if err := c.putAt(0, 0, pad("Temp:", 16)); err != nil {
		return err
	}
	if err := c.putAt(1, 0, pad("", 16)); err != nil {
		return err
	}
	s := "--"
	if r := math.Round(temp); r >= -9 && r <= 99 {
		s = fmt.Sprintf("%2d", int(r))
	}
	if err := c.DrawBig(rune(s[0]), 6); err != nil {
		return err
	}
	if err := c.DrawBig(rune(s[1]), 10); err != nil {
		return err
	}
	if err := c.DrawBig('C', 14); err != nil {
		return err
	}
	return c.putAt(0, 13, []byte{degree})
}

// page slides the current screen out, draws with draw and slides it back
// in.
func (c *Clock) page(ctx context.Context, draw func() error) error {
	if err := c.slide(ctx, -1); err != nil {
		return err
	}
	if err := draw(); err != nil {
		return err
	}
	return c.slide(ctx, 1)
}

// Run updates the display until ctx is canceled.
//
// The colon blinks every second. Every Opts.Every seconds the date then the
// temperature are shown before the time comes back.
func (c *Clock) Run(ctx context.Context) error {
	for counter := 1; ; counter++ {
		if err := c.Tick(c.opts.Now()); err != nil {
			return err
		}
		if err := c.Colon(true); err != nil {
			return err
		}
		if err := c.sleep(ctx, 500*time.Millisecond); err != nil {
			return err
		}
		if err := c.Colon(false); err != nil {
			return err
		}
		if err := c.sleep(ctx, 500*time.Millisecond); err != nil {
			return err
		}
		if counter%c.opts.Every != 0 {
			continue
		}
		now := c.opts.Now()
		if err := c.page(ctx, func() error { return c.DrawDate(now) }); err != nil {
			return err
		}
		if err := c.sleep(ctx, 2*time.Second); err != nil {
			return err
		}
		if c.opts.Thermometer != nil {
			temp, err := c.opts.Thermometer()
			if err != nil {
				c.log.WithError(err).Warn("reading temperature")
			} else {
				if err := c.page(ctx, func() error { return c.DrawTemp(temp) }); err != nil {
					return err
				}
				if err := c.sleep(ctx, 5*time.Second); err != nil {
					return err
				}
			}
		}
		c.last = ""
		if err := c.page(ctx, func() error {
			if err := c.putAt(0, 0, pad("", 16)); err != nil {
				return err
			}
			if err := c.putAt(1, 0, pad("", 16)); err != nil {
				return err
			}
			return c.Tick(c.opts.Now())
		}); err != nil {
			return err
		}
	}
}
