// Package softspi bit-bashes SPI mode 1 to an ADS1263 over GPIO character device lines.
//
// It is the fallback for boards without a usable spidev, or when the hardware SPI pins are taken.
package softspi

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/warthog618/gpiod"
	"github.com/warthog618/gpiod/device/rpi"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

const (
	drdyPoll   = 100 * time.Microsecond
	resetPhase = 300 * time.Millisecond
)

// ErrClosed indicates the transport is closed.
var ErrClosed = errors.New("softspi: closed")

// Line is the subset of [gpiod.Line] used to drive one pin.
type Line interface {
	SetValue(value int) error
	Value() (int, error)
	Close() error
}

// Lines are the six pins of the converter interface.
type Lines struct {
	Sclk, Mosi, Miso Line
	CS, DRDY, Reset  Line
}

// Config selects the chip, line offsets and half clock period.
type Config struct {
	Chip string
	Tclk time.Duration

	Sclk, Mosi, Miso int
	CS, DRDY, Reset  int
}

// DefaultConfig uses the Raspberry Pi SPI0 pins with the Waveshare HAT control lines.
func DefaultConfig() Config {
	return Config{
		Chip:  "gpiochip0",
		Tclk:  time.Microsecond,
		Sclk:  rpi.GPIO11,
		Mosi:  rpi.GPIO10,
		Miso:  rpi.GPIO9,
		CS:    rpi.GPIO22,
		DRDY:  rpi.GPIO17,
		Reset: rpi.GPIO18,
	}
}

// Transport implements [ads1263.Transport] on bit-bashed lines.
type Transport struct {
	chip  *gpiod.Chip
	l     *Lines
	tclk  time.Duration
	phase time.Duration
	log   zerolog.Logger
}

var _ ads1263.Transport = (*Transport)(nil)

// Open requests the configured lines from the GPIO chip.
func Open(cfg Config) (*Transport, error) {
	c, err := gpiod.NewChip(cfg.Chip, gpiod.WithConsumer("ads1263"))
	if err != nil {
		return nil, err
	}

	var (
		l    Lines
		reqs []Line
	)
	request := func(offset int, opt gpiod.LineReqOption) Line {
		if err != nil {
			return nil
		}
		var line *gpiod.Line
		if line, err = c.RequestLine(offset, opt); err != nil {
			err = fmt.Errorf("failed to request line %d: %w", offset, err)
			return nil
		}
		reqs = append(reqs, line)
		return line
	}
	l.CS = request(cfg.CS, gpiod.AsOutput(1))
	l.Reset = request(cfg.Reset, gpiod.AsOutput(1))
	l.Sclk = request(cfg.Sclk, gpiod.AsOutput(0))
	l.Mosi = request(cfg.Mosi, gpiod.AsOutput(0))
	l.Miso = request(cfg.Miso, gpiod.AsInput)
	l.DRDY = request(cfg.DRDY, gpiod.AsInput)
	if err != nil {
		for _, r := range reqs {
			r.Close()
		}
		c.Close()
		return nil, err
	}

	t := New(l, cfg.Tclk)
	t.chip = c
	return t, nil
}

// New drives already requested lines. tclk is the half clock period.
func New(l Lines, tclk time.Duration) *Transport {
	return &Transport{l: &l, tclk: tclk, phase: resetPhase, log: zerolog.Nop()}
}

// SetLogger sets the logger used for pin events.
func (t *Transport) SetLogger(l zerolog.Logger) {
	t.log = l.With().Str("transport", "softspi").Logger()
}

func (t *Transport) sleep() {
	if t.tclk > 0 {
		time.Sleep(t.tclk)
	}
}

// exchange clocks one byte MSB first. Both sides shift on the rising edge and sample on the falling edge.
func (t *Transport) exchange(out byte) (byte, error) {
	var in byte
	for i := 7; i >= 0; i-- {
		if err := t.l.Sclk.SetValue(1); err != nil {
			return 0, err
		}
		if err := t.l.Mosi.SetValue(int(out>>uint(i)) & 1); err != nil {
			return 0, err
		}
		t.sleep()
		v, err := t.l.Miso.Value()
		if err != nil {
			return 0, err
		}
		in <<= 1
		if v != 0 {
			in |= 1
		}
		if err = t.l.Sclk.SetValue(0); err != nil {
			return 0, err
		}
		t.sleep()
	}
	return in, nil
}

func (t *Transport) WriteByte(c byte) error {
	_, err := t.exchange(c)
	return err
}

func (t *Transport) ReadByte() (byte, error) {
	return t.exchange(0)
}

func (t *Transport) Transaction(fn func(ads1263.Bus) error) error {
	if t.l == nil {
		return ErrClosed
	}
	if err := t.l.Sclk.SetValue(0); err != nil {
		return err
	}
	if err := t.l.CS.SetValue(0); err != nil {
		return fmt.Errorf("failed to assert CS: %w", err)
	}
	err := fn(t)
	if rerr := t.l.CS.SetValue(1); rerr != nil {
		return errors.Join(err, fmt.Errorf("failed to release CS: %w", rerr))
	}
	return err
}

func (t *Transport) WaitReady(timeout time.Duration) (bool, error) {
	if t.l == nil {
		return false, ErrClosed
	}
	deadline := time.Now().Add(timeout)
	for {
		v, err := t.l.DRDY.Value()
		if err != nil {
			return false, fmt.Errorf("failed to read DRDY: %w", err)
		}
		if v == 0 {
			return true, nil
		}
		if time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(drdyPoll)
	}
}

func (t *Transport) PulseReset() error {
	if t.l == nil {
		return ErrClosed
	}
	for _, v := range []int{1, 0, 1} {
		if err := t.l.Reset.SetValue(v); err != nil {
			return fmt.Errorf("failed to drive RESET: %w", err)
		}
		time.Sleep(t.phase)
	}
	t.log.Debug().Msg("reset pulsed")
	return nil
}

func (t *Transport) Delay(d time.Duration) {
	time.Sleep(d)
}

// Close leaves RESET low and CS high, then releases every line and the chip.
func (t *Transport) Close() error {
	if t.l == nil {
		return ErrClosed
	}
	l := t.l
	t.l = nil
	err := errors.Join(l.Reset.SetValue(0), l.CS.SetValue(1))
	for _, line := range []Line{l.Sclk, l.Mosi, l.Miso, l.CS, l.DRDY, l.Reset} {
		err = errors.Join(err, line.Close())
	}
	if t.chip != nil {
		err = errors.Join(err, t.chip.Close())
	}
	return err
}
