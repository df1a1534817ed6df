// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const packageName = "hd44780"

const (
	// DefaultAddress is the factory address of PCF8574T based backpacks.
	// PCF8574AT based ones answer on 0x3f.
	DefaultAddress uint16 = 0x27

	maxAddress uint16 = 0x77
	maxRows           = 4
	maxCols           = 40
)

var (
	// ErrConfig is returned by New when an option can't be honored.
	ErrConfig = errors.New("invalid configuration")
	// ErrOutOfRange is returned for a cursor position or a CGRAM location
	// outside the display.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidMode is returned when a mode setter receives a value that is
	// not one of its constants.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrBitmapShape is returned when a custom character bitmap doesn't have
	// exactly 8 rows.
	ErrBitmapShape = errors.New("bitmap must have exactly 8 rows")
	// ErrUnsupportedChar is returned when a rune has no 8 bit character code.
	ErrUnsupportedChar = errors.New("unsupported character")
)

// DotSize is the font height in pixels.
type DotSize int

const (
	DotSize8  DotSize = 8
	DotSize10 DotSize = 10
)

func (s DotSize) String() string {
	return fmt.Sprintf("5x%d", int(s))
}

// Opts is the display geometry and behavior.
type Opts struct {
	// Rows is the number of display rows, usually 1, 2 or 4.
	Rows int
	// Cols is the number of columns per row, usually 16 or 20.
	Cols int
	// DotSize is the font height. Some 1 row displays support DotSize10.
	DotSize DotSize
	// AutoLinebreaks makes writes continue on the next row once a row is
	// full.
	AutoLinebreaks bool
	// Logger receives a Debug trace of the bus traffic. Nil uses the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

// DefaultOpts is a 16x2 display with the 5x8 font and automatic line breaks.
var DefaultOpts = Opts{
	Rows:           2,
	Cols:           16,
	DotSize:        DotSize8,
	AutoLinebreaks: true,
}

// normalize fills zero fields from DefaultOpts and validates the result.
func (o *Opts) normalize() (Opts, error) {
	n := *o
	if n.Rows == 0 {
		n.Rows = DefaultOpts.Rows
	}
	if n.Cols == 0 {
		n.Cols = DefaultOpts.Cols
	}
	if n.DotSize == 0 {
		n.DotSize = DefaultOpts.DotSize
	}
	switch n.DotSize {
	case DotSize8, DotSize10:
	default:
		return n, fmt.Errorf("dot size %d, want 8 or 10: %w", int(n.DotSize), ErrConfig)
	}
	if n.Rows < 1 || n.Rows > maxRows {
		return n, fmt.Errorf("%d rows, want 1 to %d: %w", n.Rows, maxRows, ErrConfig)
	}
	if n.Cols < 1 || n.Cols > maxCols {
		return n, fmt.Errorf("%d cols, want 1 to %d: %w", n.Cols, maxCols, ErrConfig)
	}
	return n, nil
}

func wrap(err error) error {
	if err == nil || strings.HasPrefix(err.Error(), packageName) {
		return err
	}
	return fmt.Errorf("%s: %w", packageName, err)
}
