package ads1263

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the STATUS byte prepended to conversion data.
type Status byte

func (s Status) ADC2NewData() bool { return s&StatusADC2bit != 0 }

func (s Status) ADC1NewData() bool { return s&StatusADC1bit != 0 }

func (s Status) ExternalClock() bool { return s&StatusEXTCLKbit != 0 }

func (s Status) ReferenceAlarm() bool { return s&StatusREFALMbit != 0 }

// Reset reports that the device reset since the flag was last cleared in POWER.
func (s Status) Reset() bool { return s&StatusRESETbit != 0 }

// PGAAlarm reports any of the PGA output low, high or differential alarms.
func (s Status) PGAAlarm() bool {
	return s&(StatusPGALbit|StatusPGAHbit|StatusPGADbit) != 0
}

func (s Status) String() string {
	names := [8]string{"RESET", "PGAD_ALM", "PGAH_ALM", "PGAL_ALM", "REF_ALM", "EXTCLK", "ADC1", "ADC2"}
	var set []string
	for bit := 7; bit >= 0; bit-- {
		if s&(1<<bit) != 0 {
			set = append(set, names[bit])
		}
	}
	if len(set) == 0 {
		return "(none)"
	}
	return strings.Join(set, "|")
}

// convState is a step of the per-conversion state machine.
type convState uint8

const (
	stateIdle convState = iota
	stateChannelSelected
	stateStarted
	stateAwaitingReady
	stateFrameReceived
	stateVerified
	stateChecksumFailed
	stateTimedOut
)

var convStateNames = [...]string{
	stateIdle:            "idle",
	stateChannelSelected: "channel selected",
	stateStarted:         "started",
	stateAwaitingReady:   "awaiting ready",
	stateFrameReceived:   "frame received",
	stateVerified:        "verified",
	stateChecksumFailed:  "checksum failed",
	stateTimedOut:        "timed out",
}

func (s convState) String() string {
	if int(s) >= len(convStateNames) {
		return "(invalid state)"
	}
	return convStateNames[s]
}

// conversion carries one measurement through the state machine.
// It is never reused: a result is produced once and handed to the caller.
type conversion struct {
	adc    ADC
	sel    Selector
	state  convState
	status Status
	raw    int32
}

func (c *conversion) advance(adc *ADS1263, next convState) {
	adc.log.Trace().
		Stringer("adc", c.adc).
		Stringer("from", c.state).
		Stringer("to", next).
		Msg("conversion")
	c.state = next
}

func muxRegister(a ADC) Register {
	if a == ADC2 {
		return RegADC2MUX
	}
	return RegINPMUX
}

// frameLayout describes the bytes clocked out after an RDATA opcode.
type frameLayout struct {
	status bool
	data   int
	pad    int
	check  bool
}

func (adc *ADS1263) layout(a ADC) frameLayout {
	l := frameLayout{
		status: adc.state.status,
		data:   a.BitWidth() / 8,
		check:  adc.state.check != CheckOff,
	}
	if a == ADC2 {
		// ADC2 data is left in a 32-bit slot: three data bytes and a zero pad.
		l.pad = 1
	}
	return l
}

func (l frameLayout) size() int {
	n := l.data + l.pad
	if l.status {
		n++
	}
	if l.check {
		n++
	}
	return n
}

// convert runs the full state machine for one conversion of a on sel.
// The returned conversion records the state it ended in.
func (adc *ADS1263) convert(a ADC, sel Selector) (conversion, error) {
	c := conversion{adc: a, sel: sel, state: stateIdle}
	if err := adc.checkADC(a); err != nil {
		return c, err
	}
	mux, err := sel.Mux(a)
	if err != nil {
		return c, err
	}

	if err = adc.writeRegister(muxRegister(a), mux); err != nil {
		return c, err
	}
	c.advance(adc, stateChannelSelected)

	if err = adc.sendCommand(startCommand(a)); err != nil {
		return c, err
	}
	c.advance(adc, stateStarted)

	s := adc.state.settings(a)
	budget := ConversionBudget(a, s.DataRate, adc.state.delay)
	c.advance(adc, stateAwaitingReady)

	var frame []byte
	l := adc.layout(a)
	if a == ADC2 {
		frame, err = adc.awaitADC2(l, budget)
	} else {
		frame, err = adc.awaitADC1(l, budget)
	}
	if frame != nil {
		defer putFrame(frame)
	}
	if err != nil {
		if isTimeout(err) {
			c.advance(adc, stateTimedOut)
			// Leave the converter stopped; a retry starts over from channel selection.
			if serr := adc.Stop(a); serr != nil {
				err = errors.Join(err, serr)
			}
		}
		return c, err
	}
	c.advance(adc, stateFrameReceived)

	pos := 0
	if l.status {
		c.status = Status(frame[0])
		pos++
	}
	data := frame[pos : pos+l.data]
	if l.check {
		if err = verifyFrame(a, adc.state.check, data, frame[len(frame)-1]); err != nil {
			c.advance(adc, stateChecksumFailed)
			adc.log.Debug().Err(err).Stringer("adc", a).Stringer("input", sel).Msg("frame discarded")
			return c, err
		}
	}

	if a == ADC2 {
		c.raw = Convert24To32(data)
	} else {
		c.raw = Convert32(data)
	}
	c.advance(adc, stateVerified)
	adc.log.Debug().
		Stringer("adc", a).
		Stringer("input", sel).
		Int32("raw", c.raw).
		Stringer("status", c.status).
		Msg("conversion")
	return c, nil
}

func isTimeout(err error) bool {
	var te *timeoutError
	return errors.As(err, &te)
}

// timeoutError reports an expired ready budget. It matches [ErrTimeout].
type timeoutError struct {
	adc    ADC
	budget time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("%s: %v (budget %s)", e.adc, ErrTimeout, e.budget)
}

func (e *timeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// awaitADC1 waits on the ready line, then reads one frame with RDATA1.
func (adc *ADS1263) awaitADC1(l frameLayout, budget time.Duration) ([]byte, error) {
	ready, err := adc.t.WaitReady(budget)
	if err != nil {
		return nil, transportErr("wait ready", err)
	}
	if !ready {
		return nil, &timeoutError{adc: ADC1, budget: budget}
	}
	return adc.readFrame(ADC1, l)
}

// awaitADC2 polls RDATA2 frames until the STATUS byte flags new ADC2 data.
// The ready line only follows ADC1, so the poll count is bounded by the budget instead.
// Without a STATUS byte there is nothing to poll: it waits the whole budget and reads once.
func (adc *ADS1263) awaitADC2(l frameLayout, budget time.Duration) ([]byte, error) {
	if !l.status {
		adc.delay(budget)
		return adc.readFrame(ADC2, l)
	}
	polls := int(budget/adc2PollInterval) + 1
	for i := 0; i < polls; i++ {
		frame, err := adc.readFrame(ADC2, l)
		if err != nil {
			return nil, err
		}
		if Status(frame[0]).ADC2NewData() {
			return frame, nil
		}
		putFrame(frame)
		adc.delay(adc2PollInterval)
	}
	return nil, &timeoutError{adc: ADC2, budget: budget}
}

// readFrame issues RDATA1 or RDATA2 and clocks out one frame in a single transaction.
// The returned frame comes from the frame pool.
func (adc *ADS1263) readFrame(a ADC, l frameLayout) ([]byte, error) {
	frame := getFrame(l.size())
	cmd := readCommand(a)
	err := adc.transaction(CommandName(cmd), func(w busIO) error {
		if err := w.write(cmd); err != nil {
			return err
		}
		return w.read(frame)
	})
	if err != nil {
		putFrame(frame)
		return nil, err
	}
	return frame, nil
}

// Read performs one complete conversion of a on sel and returns the sign-extended result.
// Invalid selections fail before any bus activity. Nothing is retried.
func (adc *ADS1263) Read(a ADC, sel Selector) (int32, error) {
	c, err := adc.convert(a, sel)
	if err != nil {
		return 0, err
	}
	return c.raw, nil
}

// ReadWithStatus is like Read, and also returns the STATUS byte of the frame (zero when disabled).
func (adc *ADS1263) ReadWithStatus(a ADC, sel Selector) (int32, Status, error) {
	c, err := adc.convert(a, sel)
	if err != nil {
		return 0, c.status, err
	}
	return c.raw, c.status, nil
}

// GetChannelValue reads ADC1 channel ch, interpreted per the ADC1 input mode.
func (adc *ADS1263) GetChannelValue(ch uint8) (int32, error) {
	sel, err := SelectorFor(adc.state.adc1.Mode, ch)
	if err != nil {
		return 0, err
	}
	return adc.Read(ADC1, sel)
}

// GetChannelValueADC2 reads ADC2 channel ch, interpreted per the ADC2 input mode.
func (adc *ADS1263) GetChannelValueADC2(ch uint8) (int32, error) {
	sel, err := SelectorFor(adc.state.adc2.Mode, ch)
	if err != nil {
		return 0, err
	}
	return adc.Read(ADC2, sel)
}

// GetAll reads each ADC1 channel in turn, one full conversion per channel.
// On failure it returns the values read so far.
func (adc *ADS1263) GetAll(channels []uint8) ([]int32, error) {
	values := make([]int32, 0, len(channels))
	for _, ch := range channels {
		v, err := adc.GetChannelValue(ch)
		if err != nil {
			return values, fmt.Errorf("channel %d: %w", ch, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// GetAllADC2 reads every ADC2 input (ten single-ended or five differential), stopping ADC2 after each.
func (adc *ADS1263) GetAllADC2() ([]int32, error) {
	n := uint8(CH_AIN9) + 1
	if adc.state.adc2.Mode == DifferentialMode {
		n = maxDifferentialIndex + 1
	}
	values := make([]int32, 0, n)
	for ch := uint8(0); ch < n; ch++ {
		v, err := adc.GetChannelValueADC2(ch)
		if err != nil {
			return values, fmt.Errorf("channel %d: %w", ch, err)
		}
		values = append(values, v)
		if err = adc.Stop(ADC2); err != nil {
			return values, err
		}
	}
	return values, nil
}
