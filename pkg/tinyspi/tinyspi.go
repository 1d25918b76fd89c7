// Package tinyspi adapts a TinyGo SPI bus and machine pins to the ADS1263 transport.
//
// Pass in a fully configured SPI bus (mode 1, up to 8 MHz) and pins already configured
// as outputs (CS, RESET) and input (DRDY). machine.Pin satisfies [Pin].
package tinyspi

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

const (
	drdyPoll   = 100 * time.Microsecond
	resetPhase = 300 * time.Millisecond
)

// Pin is a digital line.
type Pin interface {
	Set(high bool)
	Get() bool
}

// Device implements [ads1263.Transport] on a microcontroller.
type Device struct {
	bus   drivers.SPI
	cs    Pin
	drdy  Pin
	rst   Pin
	phase time.Duration
	sleep func(time.Duration)
}

var _ ads1263.Transport = (*Device)(nil)

// New returns a transport that leaves chip-select deasserted and the converter out of reset.
func New(b drivers.SPI, cs, drdy, rst Pin) *Device {
	cs.Set(true)
	rst.Set(true)
	return &Device{bus: b, cs: cs, drdy: drdy, rst: rst, phase: resetPhase, sleep: time.Sleep}
}

type bus struct {
	spi drivers.SPI
}

func (b bus) WriteByte(c byte) error {
	_, err := b.spi.Transfer(c)
	return err
}

func (b bus) ReadByte() (byte, error) {
	return b.spi.Transfer(0)
}

func (d *Device) Transaction(fn func(ads1263.Bus) error) error {
	d.cs.Set(false)
	err := fn(bus{d.bus})
	d.cs.Set(true)
	return err
}

func (d *Device) WaitReady(timeout time.Duration) (bool, error) {
	for waited := time.Duration(0); ; waited += drdyPoll {
		if !d.drdy.Get() {
			return true, nil
		}
		if waited >= timeout {
			return false, nil
		}
		d.sleep(drdyPoll)
	}
}

func (d *Device) PulseReset() error {
	for _, level := range []bool{true, false, true} {
		d.rst.Set(level)
		d.sleep(d.phase)
	}
	return nil
}

func (d *Device) Delay(dur time.Duration) {
	d.sleep(dur)
}

// Close leaves RESET low and CS high. The SPI bus stays configured, it belongs to the caller.
func (d *Device) Close() error {
	if d.bus == nil {
		return errors.New("tinyspi: closed")
	}
	d.rst.Set(false)
	d.cs.Set(true)
	d.bus = nil
	return nil
}
