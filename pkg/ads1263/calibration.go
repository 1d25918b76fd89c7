package ads1263

import (
	"fmt"
)

// CalibrationKind selects one of the on-chip calibration commands.
type CalibrationKind uint8

const (
	// SelfOffset shorts the inputs internally and stores the measured offset.
	SelfOffset CalibrationKind = iota
	// SystemOffset expects the caller to apply zero input to the selected channel.
	SystemOffset
	// SystemGain expects the caller to apply a full-scale input to the selected channel.
	SystemGain
)

func (k CalibrationKind) String() string {
	switch k {
	case SelfOffset:
		return "self offset"
	case SystemOffset:
		return "system offset"
	case SystemGain:
		return "system gain"
	default:
		return "(invalid calibration)"
	}
}

var calibrationCommands = map[ADC]map[CalibrationKind]byte{
	ADC1: {SelfOffset: CMDSFOCAL1, SystemOffset: CMDSYOCAL1, SystemGain: CMDSYGCAL1},
	ADC2: {SelfOffset: CMDSFOCAL2, SystemOffset: CMDSYOCAL2, SystemGain: CMDSYGCAL2},
}

// calibrationRegisters is the first calibration register and the register count, per converter.
var calibrationRegisters = map[ADC]struct {
	start Register
	count int
}{
	ADC1: {RegOFCAL0, 6},
	ADC2: {RegADC2OFC0, 4},
}

// Calibrate runs a calibration command on a with its current channel selection, then reads the
// resulting calibration registers back into the mirror.
//
// The converter is started first because calibration runs on live conversions. ADC1 completion is
// signalled on the ready line; ADC2 has none, so its full calibration budget is waited out.
func (adc *ADS1263) Calibrate(a ADC, kind CalibrationKind) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	cmd, ok := calibrationCommands[a][kind]
	if !ok {
		return fmt.Errorf("%w: calibration kind %d", ErrInvalidConfiguration, uint8(kind))
	}

	if err := adc.sendCommand(startCommand(a)); err != nil {
		return err
	}
	if err := adc.sendCommand(cmd); err != nil {
		return err
	}

	s := adc.state.settings(a)
	budget := calibrationBudget(a, s.DataRate, adc.state.delay)
	if a == ADC1 {
		ready, err := adc.t.WaitReady(budget)
		if err != nil {
			return transportErr("wait ready", err)
		}
		if !ready {
			return &timeoutError{adc: a, budget: budget}
		}
	} else {
		adc.delay(budget)
	}

	regs := calibrationRegisters[a]
	buf := make([]byte, regs.count)
	if err := adc.readRegisters(regs.start, buf); err != nil {
		return err
	}
	copy(adc.state.regs[regs.start:], buf)
	adc.log.Debug().Stringer("adc", a).Stringer("kind", kind).Hex("registers", buf).Msg("calibrated")
	return nil
}

// SetOffsetCalibration writes the offset calibration of a in one block write:
// a 24-bit signed value (OFCAL0..2) for ADC1, a 16-bit signed value (ADC2OFC0..1) for ADC2.
// Both are stored least significant byte first.
func (adc *ADS1263) SetOffsetCalibration(a ADC, offset int32) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	bits := 24
	start := RegOFCAL0
	if a == ADC2 {
		bits, start = 16, RegADC2OFC0
	}
	lim := int32(1) << (bits - 1)
	if offset < -lim || offset >= lim {
		return fmt.Errorf("%w: %s offset %d out of %d-bit range", ErrInvalidConfiguration, a, offset, bits)
	}
	return adc.writeRegisters(start, bits/8, littleEndian(uint32(offset), bits/8))
}

// SetFullScaleCalibration writes the full-scale (gain) calibration of a in one block write:
// 24 bits (FSCAL0..2, 0x400000 = 1.0) for ADC1, 16 bits (ADC2FSC0..1, 0x4000 = 1.0) for ADC2.
func (adc *ADS1263) SetFullScaleCalibration(a ADC, fullScale uint32) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	bits := 24
	start := RegFSCAL0
	if a == ADC2 {
		bits, start = 16, RegADC2FSC0
	}
	if fullScale >= 1<<bits {
		return fmt.Errorf("%w: %s full-scale 0x%X out of %d-bit range", ErrInvalidConfiguration, a, fullScale, bits)
	}
	return adc.writeRegisters(start, bits/8, littleEndian(fullScale, bits/8))
}

func littleEndian(v uint32, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(v >> (8 * i))
	}
	return b
}
