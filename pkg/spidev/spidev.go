// Package spidev connects an ADS1263 through a Linux spidev port and GPIO lines using periph.io.
package spidev

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

const (
	drdyPoll   = 100 * time.Microsecond
	resetPhase = 300 * time.Millisecond
)

// Config names the SPI port and the GPIO lines, using periph's registry names.
type Config struct {
	// Port is the spireg name, e.g. "/dev/spidev0.0" or "SPI0.0". Empty selects the first port.
	Port  string
	Speed physic.Frequency
	CS    string
	DRDY  string
	Reset string
}

// DefaultConfig matches the Waveshare High-Precision AD HAT on a Raspberry Pi.
func DefaultConfig() Config {
	return Config{
		Speed: 2 * physic.MegaHertz,
		CS:    "GPIO22",
		DRDY:  "GPIO17",
		Reset: "GPIO18",
	}
}

// Pins are the control lines used by [New].
type Pins struct {
	CS    gpio.PinOut
	DRDY  gpio.PinIn
	Reset gpio.PinOut
}

// Transport implements [ads1263.Transport] over a periph SPI connection.
// Chip-select is a plain GPIO so a transaction can span several Tx calls.
type Transport struct {
	conn  spi.Conn
	port  spi.PortCloser
	pins  Pins
	poll  bool
	phase time.Duration
	log   zerolog.Logger
}

var _ ads1263.Transport = (*Transport)(nil)

// Open initializes the host drivers, then opens and configures the named port and pins.
func Open(cfg Config) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host drivers: %w", err)
	}

	lines := make([]gpio.PinIO, 3)
	for i, name := range []string{cfg.CS, cfg.DRDY, cfg.Reset} {
		if lines[i] = gpioreg.ByName(name); lines[i] == nil {
			return nil, fmt.Errorf("no such GPIO: %q", name)
		}
	}
	pins := Pins{CS: lines[0], DRDY: lines[1], Reset: lines[2]}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Port, err)
	}

	t, err := New(port, cfg.Speed, pins)
	if err != nil {
		return nil, errors.Join(err, port.Close())
	}
	return t, nil
}

// New connects port in SPI mode 1 without hardware chip-select and configures pins.
func New(port spi.PortCloser, speed physic.Frequency, pins Pins) (*Transport, error) {
	c, err := port.Connect(speed, spi.Mode1|spi.NoCS, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to connect SPI: %w", err)
	}

	t := &Transport{
		conn:  c,
		port:  port,
		pins:  pins,
		phase: resetPhase,
		log:   zerolog.Nop(),
	}

	if err = pins.CS.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("failed to configure CS: %w", err)
	}
	if err = pins.Reset.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("failed to configure RESET: %w", err)
	}
	if err = pins.DRDY.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		if err = pins.DRDY.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("failed to configure DRDY: %w", err)
		}
		t.poll = true
	}

	return t, nil
}

// SetLogger sets the logger used for pin events.
func (t *Transport) SetLogger(l zerolog.Logger) {
	t.log = l.With().Str("transport", "spidev").Logger()
	if t.poll {
		t.log.Debug().Str("pin", t.pins.DRDY.String()).Msg("edge detection unavailable, polling DRDY")
	}
}

type bus struct {
	c   spi.Conn
	buf [2]byte
}

func (b *bus) WriteByte(c byte) error {
	b.buf[0] = c
	return b.c.Tx(b.buf[:1], b.buf[1:])
}

func (b *bus) ReadByte() (byte, error) {
	b.buf[0] = 0
	if err := b.c.Tx(b.buf[:1], b.buf[1:]); err != nil {
		return 0, err
	}
	return b.buf[1], nil
}

func (t *Transport) Transaction(fn func(ads1263.Bus) error) error {
	if err := t.pins.CS.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert CS: %w", err)
	}
	err := fn(&bus{c: t.conn})
	if rerr := t.pins.CS.Out(gpio.High); rerr != nil {
		return errors.Join(err, fmt.Errorf("failed to release CS: %w", rerr))
	}
	return err
}

func (t *Transport) WaitReady(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		if t.pins.DRDY.Read() == gpio.Low {
			return true, nil
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false, nil
		}
		if t.poll {
			time.Sleep(min(drdyPoll, remaining))
			continue
		}
		if !t.pins.DRDY.WaitForEdge(remaining) {
			return t.pins.DRDY.Read() == gpio.Low, nil
		}
	}
}

func (t *Transport) PulseReset() error {
	for _, l := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := t.pins.Reset.Out(l); err != nil {
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

// Close leaves RESET low and CS high, then closes the port.
func (t *Transport) Close() error {
	return errors.Join(
		t.pins.Reset.Out(gpio.Low),
		t.pins.CS.Out(gpio.High),
		t.port.Close(),
	)
}
