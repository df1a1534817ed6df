// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780_test

import (
	"fmt"
	"log"
	"time"

	"github.com/bousqi/Clock-RPLCD-i2c/hd44780"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open default I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	lcd, err := hd44780.New(bus, hd44780.DefaultAddress, &hd44780.Opts{
		Rows:           4,
		Cols:           20,
		DotSize:        hd44780.DotSize8,
		AutoLinebreaks: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lcd.Halt() }()
	fmt.Println(lcd)

	_ = lcd.SetCursorMode(hd44780.CursorBlink)
	_, _ = lcd.WriteString("Hello world!\r\nThis line is long enough to wrap")
	row, col := lcd.CursorPos()
	fmt.Printf("cursor at (%d, %d)\n", row, col)
	time.Sleep(5 * time.Second)
}

func ExampleDev_CreateChar() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()
	lcd, err := hd44780.New(bus, 0x3f, nil)
	if err != nil {
		log.Fatal(err)
	}
	smiley := []byte{
		0b00000,
		0b01010,
		0b01010,
		0b00000,
		0b10001,
		0b10001,
		0b01110,
		0b00000,
	}
	if err := lcd.CreateChar(0, smiley); err != nil {
		log.Fatal(err)
	}
	_, _ = lcd.WriteString("Smile \x00")
}

func ExampleDev_SetAlignment() {
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatal(err)
	}
	defer bus.Close()
	lcd, err := hd44780.New(bus, 0, nil)
	if err != nil {
		log.Fatal(err)
	}
	// Right to left, starting from the last column.
	_ = lcd.SetAlignment(hd44780.AlignRight)
	_ = lcd.SetCursorPos(0, lcd.Cols()-1)
	_, _ = lcd.WriteString("olleH")
}
