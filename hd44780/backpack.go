// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hd44780

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Bits of the PCF8574 port as wired on the common LCD backpacks. D4 to D7 of
// the display sit on the upper half of the port so a nibble is sent shifted
// left by 4.
const (
	pinRS        byte = 0x01
	pinRW        byte = 0x02
	pinEnable    byte = 0x04
	pinBacklight byte = 0x08
)

// command sends an instruction byte.
func (d *Dev) command(b byte) error {
	d.log.WithFields(logrus.Fields{"op": "instruction", "value": fmt.Sprintf("0x%02x", b)}).Debug("send")
	return d.send(b, 0)
}

// data sends a byte to the RAM selected by the last address instruction.
func (d *Dev) data(b byte) error {
	d.log.WithFields(logrus.Fields{"op": "data", "value": fmt.Sprintf("0x%02x", b)}).Debug("send")
	return d.send(b, pinRS)
}

// send transfers b as two nibbles, high one first.
func (d *Dev) send(b, rs byte) error {
	if err := d.write4Bits(rs | (b & 0xf0)); err != nil {
		return err
	}
	return d.write4Bits(rs | (b<<4)&0xf0)
}

// write4Bits presents value on the port with the enable line low and pulses
// the enable line so the controller latches it.
//
// The controller needs more than 37µs to process a byte and there's no busy
// flag to poll because R/W is kept low, so the latch delay is generous.
func (d *Dev) write4Bits(value byte) error {
	value &^= pinRW | pinEnable
	if d.backlight {
		value |= pinBacklight
	}
	if err := d.port(value); err != nil {
		return err
	}
	d.sleep(delayPulse)
	if err := d.port(value | pinEnable); err != nil {
		return err
	}
	d.sleep(delayPulse)
	if err := d.port(value); err != nil {
		return err
	}
	d.sleep(delayLatch)
	return nil
}

// port writes the 8 expander lines at once.
func (d *Dev) port(value byte) error {
	return d.c.Tx([]byte{value}, nil)
}
