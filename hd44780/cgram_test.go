// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var smiley = []byte{
	0b00000,
	0b01010,
	0b01010,
	0b00000,
	0b10001,
	0b10001,
	0b01110,
	0b00000,
}

func TestCreateChar(t *testing.T) {
	dev, bus := getDev(t, geometry(2, 16))
	if err := dev.SetCursorPos(1, 5); err != nil {
		t.Fatal(err)
	}
	bus.Ops = nil
	bitmap := append([]byte(nil), smiley...)
	bitmap[0] = 0xe0
	if err := dev.CreateChar(3, bitmap); err != nil {
		t.Fatal(err)
	}
	pos(t, dev, 1, 5)
	want := []xfer{{B: 0x58}}
	for i, b := range smiley {
		if i == 0 {
			// Only the low 5 bits are sent.
			b = 0
		}
		want = append(want, xfer{RS: true, B: b})
	}
	want = append(want, xfer{B: 0xc5})
	if diff := cmp.Diff(want, transfers(bus.Ops)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	g, ok := dev.Glyph(3)
	if !ok {
		t.Fatal("glyph 3 not recorded")
	}
	if diff := cmp.Diff(smiley, g); diff != "" {
		t.Errorf("glyph (-want +got):\n%s", diff)
	}
	if _, ok := dev.Glyph(0); ok {
		t.Error("glyph 0 was never defined")
	}
	if _, ok := dev.Glyph(8); ok {
		t.Error("glyph 8 can't exist")
	}
	// The content cache is not touched by CGRAM writes.
	for _, row := range dev.Content() {
		for _, c := range row {
			if c != blank {
				t.Fatalf("content changed: %q", row)
			}
		}
	}
}

func TestCreateCharErrors(t *testing.T) {
	dev, bus := getDev(t, geometry(2, 16))
	for _, loc := range []int{-1, 8} {
		if err := dev.CreateChar(loc, smiley); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("location %d: got %v, want ErrOutOfRange", loc, err)
		}
	}
	for _, n := range []int{0, 7, 9} {
		if err := dev.CreateChar(0, make([]byte, n)); !errors.Is(err, ErrBitmapShape) {
			t.Errorf("%d rows: got %v, want ErrBitmapShape", n, err)
		}
	}
	if len(bus.Ops) != 0 {
		t.Errorf("%d bus writes", len(bus.Ops))
	}
}

func TestCreateCharThenWrite(t *testing.T) {
	dev, bus := getDev(t, geometry(2, 16))
	if err := dev.CreateChar(0, smiley); err != nil {
		t.Fatal(err)
	}
	bus.Ops = nil
	if _, err := dev.WriteString("\x00"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]xfer{{RS: true, B: 0x00}}, transfers(bus.Ops)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	pos(t, dev, 0, 1)
}
