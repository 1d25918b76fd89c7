package ft232h

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/yunginnanet/ft232h"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

const (
	spiClock   = 1700000
	spiMode    = 0x00000001 // CPOL 0, CPHA 1
	drdyPoll   = 100 * time.Microsecond
	resetPhase = 300 * time.Millisecond
)

var ErrBadPins = errors.New("invalid FT232H pin assignment")

// Pins holds the ACBUS masks (C0 = 0x01 ... C7 = 0x80) wired to the converter's control lines.
type Pins struct {
	CS    uint
	DRDY  uint
	Reset uint
}

// DefaultPins matches the breakout wiring: CS on C4, DRDY on C0, RESET on C6.
func DefaultPins() Pins {
	return Pins{CS: 0x10, DRDY: 0x01, Reset: 0x40}
}

func singlePin(p uint) bool {
	return p != 0 && p <= 0x80 && p&(p-1) == 0
}

// Validate checks that every line is a single ACBUS pin and that no two lines share one.
func (p Pins) Validate() error {
	for _, v := range []uint{p.CS, p.DRDY, p.Reset} {
		if !singlePin(v) {
			return fmt.Errorf("%w: 0x%02X is not a single C pin", ErrBadPins, v)
		}
	}
	if p.CS|p.DRDY|p.Reset != p.CS+p.DRDY+p.Reset {
		return fmt.Errorf("%w: lines overlap", ErrBadPins)
	}
	return nil
}

// Transport drives an ADS1263 through the MPSSE SPI engine of an FT232H.
// Chip-select is handled as a plain GPIO so one scope can span several SPI writes.
type Transport struct {
	ft   *FT232H
	cs   ft232h.CPin
	drdy ft232h.CPin
	rst  ft232h.CPin
	log  zerolog.Logger
}

var _ ads1263.Transport = (*Transport)(nil)

// Open configures SPI mode 1 and the control pins on an already connected FT232H.
func Open(ft *FT232H, pins Pins) (*Transport, error) {
	if err := pins.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{
		ft:   ft,
		cs:   ft232h.CPin(pins.CS),
		drdy: ft232h.CPin(pins.DRDY),
		rst:  ft232h.CPin(pins.Reset),
		log:  zerolog.Nop(),
	}

	spiCfg := ft.SPI.GetConfig()
	spiCfg.Clock = spiClock
	spiCfg.CS = ft232h.C(pins.CS)
	spiCfg.Mode = spiMode
	spiCfg.ActiveLow = false
	if err := ft.SPI.Config(spiCfg); err != nil {
		return nil, fmt.Errorf("failed to configure SPI: %w", err)
	}

	if err := ft.GPIO.ConfigPin(t.cs, ft232h.Output, true); err != nil {
		return nil, fmt.Errorf("failed to configure CS pin: %w", err)
	}
	if err := ft.GPIO.ConfigPin(t.rst, ft232h.Output, true); err != nil {
		return nil, fmt.Errorf("failed to configure RESET pin: %w", err)
	}
	if err := ft.GPIO.ConfigPin(t.drdy, ft232h.Input, true); err != nil {
		return nil, fmt.Errorf("failed to configure DRDY pin: %w", err)
	}

	return t, nil
}

// SetLogger sets the logger used for pin events.
func (t *Transport) SetLogger(l zerolog.Logger) {
	t.log = l.With().Str("transport", "ft232h").Logger()
}

type spiBus struct {
	ft *FT232H
}

func (b spiBus) WriteByte(c byte) error {
	_, err := b.ft.SPI.Write([]byte{c}, false, false)
	return err
}

func (b spiBus) ReadByte() (byte, error) {
	p, err := b.ft.SPI.Read(1, false, false)
	if err != nil {
		return 0, err
	}
	if len(p) != 1 {
		return 0, fmt.Errorf("short SPI read: %d bytes", len(p))
	}
	return p[0], nil
}

func (t *Transport) Transaction(fn func(ads1263.Bus) error) error {
	if err := t.ft.GPIO.Set(t.cs, false); err != nil {
		return fmt.Errorf("failed to assert CS: %w", err)
	}
	err := fn(spiBus{ft: t.ft})
	if rerr := t.ft.GPIO.Set(t.cs, true); rerr != nil {
		return errors.Join(err, fmt.Errorf("failed to release CS: %w", rerr))
	}
	return err
}

func (t *Transport) WaitReady(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		hl, err := t.ft.GPIO.Get(t.drdy)
		if err != nil {
			return false, fmt.Errorf("failed to read DRDY pin: %w", err)
		}
		if !hl {
			return true, nil
		}
		if time.Now().After(deadline) {
			t.log.Trace().Dur("timeout", timeout).Msg("DRDY still high")
			return false, nil
		}
		time.Sleep(drdyPoll)
	}
}

func (t *Transport) PulseReset() error {
	for _, level := range []bool{true, false, true} {
		if err := t.ft.GPIO.Set(t.rst, level); err != nil {
			return fmt.Errorf("failed to set RESET pin: %w", err)
		}
		time.Sleep(resetPhase)
	}
	t.log.Debug().Msg("reset pulsed")
	return nil
}

func (t *Transport) Delay(d time.Duration) {
	time.Sleep(d)
}

// Close leaves RESET low and CS high, then releases the SPI engine.
func (t *Transport) Close() error {
	return errors.Join(
		t.ft.GPIO.Set(t.rst, false),
		t.ft.GPIO.Set(t.cs, true),
		t.ft.Close(),
	)
}
