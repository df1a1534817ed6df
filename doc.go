// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rplcd is a container for an HD44780 character LCD driver over a
// PCF8574 I²C backpack, and the tools built on it.
//
// The driver is in hd44780. screen and snapshot show what the display shows,
// on a terminal or as an image. bigclock turns a 16x2 display into a wall
// clock. cmd/charlcd exposes all of it on the command line.
package rplcd
