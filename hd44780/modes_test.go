// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	periphDisplay "periph.io/x/conn/v3/display"
)

func TestEncoders(t *testing.T) {
	entry := []struct {
		a    Alignment
		s    ShiftMode
		want byte
	}{
		{AlignLeft, ShiftCursor, 0x06},
		{AlignLeft, ShiftDisplay, 0x07},
		{AlignRight, ShiftCursor, 0x04},
		{AlignRight, ShiftDisplay, 0x05},
	}
	for _, tc := range entry {
		if got := entryMode(tc.a, tc.s); got != tc.want {
			t.Errorf("entryMode(%s, %s) = %#x, want %#x", tc.a, tc.s, got, tc.want)
		}
	}
	control := []struct {
		on   bool
		c    CursorMode
		want byte
	}{
		{true, CursorHide, 0x0c},
		{true, CursorLine, 0x0e},
		{true, CursorBlink, 0x0d},
		{false, CursorHide, 0x08},
		{false, CursorLine, 0x0a},
	}
	for _, tc := range control {
		if got := displayControl(tc.on, tc.c); got != tc.want {
			t.Errorf("displayControl(%t, %s) = %#x, want %#x", tc.on, tc.c, got, tc.want)
		}
	}
}

func TestModeSetters(t *testing.T) {
	dev, bus := getDev(t, geometry(2, 16))
	steps := []struct {
		set  func() error
		want byte
	}{
		{func() error { return dev.SetCursorMode(CursorLine) }, 0x0e},
		{func() error { return dev.SetCursorMode(CursorBlink) }, 0x0d},
		{func() error { return dev.SetDisplayEnabled(false) }, 0x09},
		{func() error { return dev.SetDisplayEnabled(true) }, 0x0d},
		{func() error { return dev.SetWriteShiftMode(ShiftDisplay) }, 0x07},
		{func() error { return dev.SetAlignment(AlignRight) }, 0x05},
		{func() error { return dev.SetWriteShiftMode(ShiftCursor) }, 0x04},
		{func() error { return dev.SetAlignment(AlignLeft) }, 0x06},
	}
	for i, s := range steps {
		bus.Ops = nil
		if err := s.set(); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]byte{s.want}, instructions(bus.Ops)); diff != "" {
			t.Errorf("step %d (-want +got):\n%s", i, diff)
		}
	}
	if dev.CursorMode() != CursorBlink || !dev.DisplayEnabled() || dev.Alignment() != AlignLeft || dev.WriteShiftMode() != ShiftCursor {
		t.Errorf("modes %s %t %s %s", dev.CursorMode(), dev.DisplayEnabled(), dev.Alignment(), dev.WriteShiftMode())
	}
}

func TestModeSettersInvalid(t *testing.T) {
	dev, bus := getDev(t, geometry(2, 16))
	errs := []error{
		dev.SetAlignment(Alignment(0x01)),
		dev.SetWriteShiftMode(ShiftMode(0x02)),
		dev.SetCursorMode(CursorMode(0x03)),
		dev.Cursor(periphDisplay.CursorBlink + 1),
	}
	for i, err := range errs {
		if !errors.Is(err, ErrInvalidMode) {
			t.Errorf("#%d: got %v, want ErrInvalidMode", i, err)
		}
	}
	if len(bus.Ops) != 0 {
		t.Errorf("%d bus writes", len(bus.Ops))
	}
	if dev.Alignment() != AlignLeft || dev.WriteShiftMode() != ShiftCursor || dev.CursorMode() != CursorHide {
		t.Errorf("modes changed: %s %s %s", dev.Alignment(), dev.WriteShiftMode(), dev.CursorMode())
	}
}

func TestTextDisplayModes(t *testing.T) {
	dev, _ := getDev(t, geometry(2, 16))
	cursors := []struct {
		in   periphDisplay.CursorMode
		want CursorMode
	}{
		{periphDisplay.CursorUnderline, CursorLine},
		{periphDisplay.CursorBlock, CursorBlink},
		{periphDisplay.CursorBlink, CursorBlink},
		{periphDisplay.CursorOff, CursorHide},
	}
	for _, tc := range cursors {
		if err := dev.Cursor(tc.in); err != nil {
			t.Fatal(err)
		}
		if dev.CursorMode() != tc.want {
			t.Errorf("Cursor(%d): %s, want %s", tc.in, dev.CursorMode(), tc.want)
		}
	}
	if err := dev.AutoScroll(true); err != nil {
		t.Fatal(err)
	}
	if dev.WriteShiftMode() != ShiftDisplay {
		t.Error("AutoScroll(true) didn't select ShiftDisplay")
	}
	if err := dev.AutoScroll(false); err != nil {
		t.Fatal(err)
	}
	if dev.WriteShiftMode() != ShiftCursor {
		t.Error("AutoScroll(false) didn't select ShiftCursor")
	}
	if err := dev.Display(false); err != nil {
		t.Fatal(err)
	}
	if dev.DisplayEnabled() {
		t.Error("Display(false) left the display on")
	}
}

func TestModeStrings(t *testing.T) {
	for want, got := range map[string]string{
		"left":          AlignLeft.String(),
		"right":         AlignRight.String(),
		"cursor":        ShiftCursor.String(),
		"display":       ShiftDisplay.String(),
		"hide":          CursorHide.String(),
		"line":          CursorLine.String(),
		"blink":         CursorBlink.String(),
		"CursorMode(7)": CursorMode(7).String(),
		"5x10":          DotSize10.String(),
	} {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}
