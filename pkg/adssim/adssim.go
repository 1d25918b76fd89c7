// Package adssim simulates an ADS1263 behind the [ads1263.Transport] contract.
//
// The simulated part decodes opcodes, keeps a register file with the datasheet reset values,
// answers RDATA with STATUS and check bytes formatted per its INTERFACE register, and
// counts every transaction so callers can assert on bus activity. Time is simulated:
// Delay and failed waits advance a clock instead of sleeping.
package adssim

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

// ErrInjected is returned by injected bus faults.
var ErrInjected = errors.New("adssim: injected bus fault")

var _ ads1263.Transport = (*Device)(nil)

type inputKey struct {
	adc ads1263.ADC
	mux byte
}

// Device is a simulated converter. The zero value is not usable, use [New].
type Device struct {
	// NeverReady keeps both converters from ever reporting new data.
	NeverReady bool
	// ADC2Latency is the number of RDATA2 polls that return stale data after START2 before a new result.
	ADC2Latency int
	// ReleaseErr, when set, is returned by every chip-select release.
	ReleaseErr error
	// ResetErr, when set, is returned by PulseReset.
	ResetErr error
	// CalibrationOffset is stored in the offset registers by the offset calibration commands.
	CalibrationOffset int32

	log zerolog.Logger

	id     byte
	regs   [ads1263.NumRegisters]byte
	inputs map[inputKey]int32

	running [3]bool
	fresh   [3]bool
	adc2Due int

	failBus      int
	corruptNext  int
	transactions int
	waitCalls    int
	resets       int
	commands     []byte
	lastBudget   time.Duration
	elapsed      time.Duration

	closed bool
	csLow  bool
	rstLow bool
}

// New returns a powered-up ADS1263 with reset register values and every input reading zero.
func New() *Device {
	d := &Device{
		ADC2Latency: 1,
		id:          0x21, // ADS1263, revision 1
		log:         zerolog.Nop(),
		inputs:      make(map[inputKey]int32),
	}
	d.powerOn()
	return d
}

// SetLogger sets the logger used for trace events.
func (d *Device) SetLogger(l zerolog.Logger) {
	d.log = l.With().Str("device", "adssim").Logger()
}

func (d *Device) powerOn() {
	d.regs = ads1263.PowerOnDefaults()
	d.regs[ads1263.RegID] = d.id
	d.running = [3]bool{}
	d.fresh = [3]bool{}
}

// SetChipID overrides the ID register, e.g. 0x01 to pose as an ADS1262. It survives resets.
func (d *Device) SetChipID(id byte) {
	d.id = id
	d.regs[ads1263.RegID] = id
}

// SetCode sets the conversion result a returns while its mux selects sel.
func (d *Device) SetCode(a ads1263.ADC, sel ads1263.Selector, code int32) error {
	mux, err := sel.Mux(a)
	if err != nil {
		return err
	}
	d.inputs[inputKey{a, mux}] = code
	return nil
}

// FailBus makes the next n bus byte operations fail with [ErrInjected].
func (d *Device) FailBus(n int) { d.failBus = n }

// CorruptFrames flips one data bit in the next n conversion frames after their check byte is computed.
func (d *Device) CorruptFrames(n int) { d.corruptNext = n }

// Register returns the simulated register value.
func (d *Device) Register(reg ads1263.Register) byte {
	if reg >= ads1263.NumRegisters {
		return 0
	}
	return d.regs[reg]
}

// PokeRegister changes a register behind the driver's back.
func (d *Device) PokeRegister(reg ads1263.Register, v byte) {
	d.regs[reg] = v
}

// Transactions is the number of chip-select scopes opened so far.
func (d *Device) Transactions() int { return d.transactions }

// Commands lists every opcode byte received, in order.
func (d *Device) Commands() []byte { return append([]byte(nil), d.commands...) }

// WaitReadyCalls is the number of WaitReady calls.
func (d *Device) WaitReadyCalls() int { return d.waitCalls }

// LastWaitBudget is the timeout passed to the most recent WaitReady.
func (d *Device) LastWaitBudget() time.Duration { return d.lastBudget }

// Resets is the number of reset pulses.
func (d *Device) Resets() int { return d.resets }

// Elapsed is the simulated time spent in Delay and failed waits.
func (d *Device) Elapsed() time.Duration { return d.elapsed }

// Closed reports whether Close was called, and whether it left chip-select high and reset low.
func (d *Device) Closed() (closed, csHigh, resetLow bool) {
	return d.closed, !d.csLow, d.rstLow
}

// Transaction implements [ads1263.Transport].
func (d *Device) Transaction(fn func(ads1263.Bus) error) error {
	d.transactions++
	d.csLow = true
	b := &bus{d: d}
	err := fn(b)
	d.csLow = false
	if d.ReleaseErr != nil {
		return errors.Join(err, d.ReleaseErr)
	}
	return err
}

// WaitReady implements [ads1263.Transport]. The ready line follows ADC1 only.
func (d *Device) WaitReady(timeout time.Duration) (bool, error) {
	d.waitCalls++
	d.lastBudget = timeout
	if d.NeverReady || !d.running[ads1263.ADC1] {
		d.elapsed += timeout
		return false, nil
	}
	d.fresh[ads1263.ADC1] = true
	return true, nil
}

// PulseReset implements [ads1263.Transport].
func (d *Device) PulseReset() error {
	if d.ResetErr != nil {
		return d.ResetErr
	}
	d.resets++
	d.powerOn()
	return nil
}

// Delay implements [ads1263.Transport] without sleeping.
func (d *Device) Delay(dur time.Duration) {
	d.elapsed += dur
}

// Close implements [ads1263.Transport].
func (d *Device) Close() error {
	d.closed = true
	d.csLow = false
	d.rstLow = true
	return nil
}
