// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// charlcd drives an HD44780 character LCD behind a PCF8574 I²C backpack.
//
// Usage:
//
//	charlcd [flags] write TEXT...
//	charlcd [flags] clear
//	charlcd [flags] backlight on|off
//	charlcd [flags] charmap
//	charlcd [flags] selftest
//	charlcd [flags] clock
//
// In TEXT, \n and \r are turned into line feeds and carriage returns.
//
// With -fake no hardware is needed: the bus traffic is recorded and the
// display is mirrored on the terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bousqi/Clock-RPLCD-i2c/bigclock"
	"github.com/bousqi/Clock-RPLCD-i2c/hd44780"
	"github.com/bousqi/Clock-RPLCD-i2c/screen"
	"github.com/bousqi/Clock-RPLCD-i2c/snapshot"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/host/v3"
)

type app struct {
	lcd    *hd44780.Dev
	mirror *screen.Dev
	log    logrus.FieldLogger
	in     *bufio.Reader
	out    io.Writer
	pause  bool
	delay  time.Duration

	readLines sync.Once
	lines     chan error
	inDone    bool
}

// show refreshes the mirror, if any.
func (a *app) show() error {
	if a.mirror == nil {
		return nil
	}
	return a.mirror.Refresh(a.lcd)
}

// step tells the user what to look for, then waits for ENTER or for the
// configured delay.
func (a *app) step(ctx context.Context, msg string) error {
	if err := a.show(); err != nil {
		return err
	}
	if a.pause {
		fmt.Fprintf(a.out, "%s Press <ENTER> to continue.\n", msg)
		return a.waitEnter(ctx)
	}
	fmt.Fprintln(a.out, msg)
	return sleep(ctx, a.delay)
}

// waitEnter returns once a line is read or ctx is canceled. At the end of the
// input it doesn't wait anymore.
//
// Reads from stdin can't be interrupted, so a single goroutine reads lines
// for the whole run. It is left blocked on stdin when ctx is canceled; that
// only happens on the way out of the process.
func (a *app) waitEnter(ctx context.Context) error {
	if a.inDone {
		return nil
	}
	a.readLines.Do(func() {
		a.lines = make(chan error)
		go func() {
			for {
				_, err := a.in.ReadString('\n')
				a.lines <- err
				if err != nil {
					return
				}
			}
		}()
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-a.lines:
		if err == nil {
			return nil
		}
		a.inDone = true
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var unescape = strings.NewReplacer(`\n`, "\n", `\r`, "\r")

func (a *app) write(args []string) error {
	if len(args) == 0 {
		return errors.New("write: missing text")
	}
	if _, err := a.lcd.WriteString(unescape.Replace(strings.Join(args, " "))); err != nil {
		return err
	}
	return a.show()
}

func (a *app) backlight(args []string) error {
	if len(args) != 1 {
		return errors.New("backlight: want on or off")
	}
	var on bool
	switch args[0] {
	case "on":
		on = true
	case "off":
	default:
		return fmt.Errorf("backlight: unknown state %q", args[0])
	}
	if err := a.lcd.SetBacklight(on); err != nil {
		return err
	}
	return a.show()
}

// charmap shows all 256 character codes, one screenful at a time.
func (a *app) charmap(ctx context.Context) error {
	perPage := a.lcd.Rows() * a.lcd.Cols()
	for page, start := 0, 0; start < 256; page, start = page+1, start+perPage {
		end := min(start+perPage, 256)
		if err := a.lcd.Clear(); err != nil {
			return err
		}
		for i := start; i < end; i++ {
			if n := i - start; n%a.lcd.Cols() == 0 {
				// Each row is positioned so it doesn't depend on line wrapping.
				if err := a.lcd.SetCursorPos(n/a.lcd.Cols(), 0); err != nil {
					return err
				}
			}
			// Raw codes: 0x0a and 0x0d are glyphs here, not line breaks.
			if err := a.lcd.WriteByte(byte(i)); err != nil {
				return err
			}
		}
		if err := a.step(ctx, fmt.Sprintf("Displaying page %d (characters %d-%d).", page, start, end-1)); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) clock(ctx context.Context) error {
	c, err := bigclock.New(a.lcd, &bigclock.Opts{Logger: a.log})
	if err != nil {
		return err
	}
	if err := c.Run(ctx); ctx.Err() == nil {
		return err
	}
	// Interrupted.
	return nil
}

func mainImpl(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("charlcd", flag.ContinueOnError)
	fs.SetOutput(stdout)
	busName := fs.String("bus", "", "I²C bus to use")
	addr := i2c.Addr(hd44780.DefaultAddress)
	fs.Var(&addr, "addr", "I²C address of the backpack")
	rows := fs.Int("rows", hd44780.DefaultOpts.Rows, "number of rows")
	cols := fs.Int("cols", hd44780.DefaultOpts.Cols, "number of columns")
	dotSize := fs.Int("dotsize", int(hd44780.DotSize8), "character height, 8 or 10")
	noWrap := fs.Bool("nowrap", false, "disable automatic line breaks")
	fake := fs.Bool("fake", false, "record the bus traffic instead of using hardware")
	mirror := fs.Bool("mirror", false, "mirror the display on the terminal; on by default with -fake on a terminal")
	pngPath := fs.String("png", "", "save an image of the display to this file before exiting")
	pause := fs.Bool("pause", false, "wait for ENTER between steps of charmap and selftest")
	delay := fs.Duration("delay", 2*time.Second, "time between steps when -pause is not used")
	keep := fs.Bool("keep", false, "leave the display on when exiting")
	verbose := fs.Bool("v", false, "log the bus traffic")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var bus i2c.Bus
	closeBus := func() error { return nil }
	if *fake {
		bus = &i2ctest.Record{}
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		b, err := i2creg.Open(*busName)
		if err != nil {
			return err
		}
		bus = b
		closeBus = b.Close
	}
	defer func() {
		if err := closeBus(); err != nil {
			logger.WithError(err).Error("closing bus")
		}
	}()

	lcd, err := hd44780.New(bus, uint16(addr), &hd44780.Opts{
		Rows:           *rows,
		Cols:           *cols,
		DotSize:        hd44780.DotSize(*dotSize),
		AutoLinebreaks: !*noWrap,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	logger.Infof("opened %s", lcd)

	a := &app{
		lcd:   lcd,
		log:   logger,
		in:    bufio.NewReader(stdin),
		out:   stdout,
		pause: *pause,
		delay: *delay,
	}
	if *mirror || (*fake && isTerminal(stdout)) {
		a.mirror = screen.New(&screen.Opts{W: stdout})
		defer func() { _ = a.mirror.Halt() }()
	}
	if !*keep {
		defer func() {
			if err := lcd.Halt(); err != nil {
				logger.WithError(err).Error("halting display")
			}
		}()
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "write":
		err = a.write(rest)
	case "clear":
		if err = lcd.Clear(); err == nil {
			err = a.show()
		}
	case "backlight":
		err = a.backlight(rest)
	case "charmap":
		err = a.charmap(ctx)
	case "selftest":
		err = a.selftest(ctx)
	case "clock":
		err = a.clock(ctx)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		return err
	}
	if *pngPath != "" {
		if err := snapshot.SavePNG(*pngPath, lcd, nil); err != nil {
			return err
		}
		logger.Infof("saved %s", *pngPath)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := mainImpl(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "charlcd: %s.\n", err)
		os.Exit(1)
	}
}
