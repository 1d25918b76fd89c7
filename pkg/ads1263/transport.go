package ads1263

import (
	"io"
	"time"
)

// Bus exchanges single bytes with the converter while chip-select is asserted.
// The exchange is full duplex: ReadByte clocks out a zero byte.
type Bus interface {
	io.ByteWriter
	io.ByteReader
}

// Transport allows for different bus and pin backends (spidev, bit-banged GPIO, FT232H, microcontrollers).
//
// Implementations are chosen once at startup; the driver never looks at device files or pin numbers.
type Transport interface {
	// Transaction asserts chip-select, runs fn, then deasserts chip-select even if fn failed.
	// If fn fails its error is returned as-is, joined with any chip-select failure.
	Transaction(fn func(Bus) error) error

	// WaitReady blocks until the ready line (DRDY) is asserted low or timeout elapses.
	// It reports whether the line was asserted.
	WaitReady(timeout time.Duration) (bool, error)

	// PulseReset drives the reset line through a full high-low-high reset cycle.
	PulseReset() error

	// Delay blocks for d.
	Delay(d time.Duration)

	// Close puts the lines in their idle state (reset low, chip-select deasserted) and releases the bus.
	Close() error
}

// busIO wraps Bus failures as [TransportError]s tagged with the running operation.
type busIO struct {
	b  Bus
	op string
}

func (w busIO) WriteByte(c byte) error {
	return transportErr(w.op, w.b.WriteByte(c))
}

func (w busIO) ReadByte() (byte, error) {
	c, err := w.b.ReadByte()
	return c, transportErr(w.op, err)
}

func (w busIO) write(p ...byte) error {
	for _, c := range p {
		if err := w.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}

func (w busIO) read(p []byte) error {
	for i := range p {
		c, err := w.ReadByte()
		if err != nil {
			return err
		}
		p[i] = c
	}
	return nil
}

// transaction runs fn inside one chip-select scope of the transport.
func (adc *ADS1263) transaction(op string, fn func(w busIO) error) error {
	var inner error
	err := adc.t.Transaction(func(b Bus) error {
		inner = fn(busIO{b: b, op: op})
		return inner
	})
	switch {
	case err == nil:
		return nil
	case inner != nil && err == inner:
		return err
	default:
		return transportErr(op, err)
	}
}
