package ads1263

import (
	"fmt"
)

// mode2 assembles MODE2 from the PGA bypass flag, a gain code and a rate code.
func mode2(bypass bool, gainCode, rateCode byte) byte {
	v := gainCode<<mode2GainShift | rateCode&mode2RateMask
	if bypass {
		v |= Mode2BYPASSbit
	}
	return v
}

// adc2cfg assembles ADC2CFG from a rate code, a REF2 code and a gain code.
func adc2cfg(rateCode, refCode, gainCode byte) byte {
	return rateCode<<adc2RateShift | refCode<<adc2RefShift&adc2RefMask | gainCode&adc2GainMask
}

// writeADC1Mode2 writes MODE2 with the given gain, rate and bypass, and updates the mirror on success.
func (adc *ADS1263) writeADC1Mode2(g Gain, r DataRate, bypass bool) error {
	gc, err := GainCode(ADC1, g)
	if err != nil {
		return err
	}
	rc, err := DataRateCode(ADC1, r)
	if err != nil {
		return err
	}
	if bypass && g != Gain1 {
		return fmt.Errorf("%w: PGA bypass requires gain 1, got %s", ErrInvalidConfiguration, g)
	}
	if err = adc.writeRegister(RegMODE2, mode2(bypass, gc, rc)); err != nil {
		return err
	}
	adc.state.adc1.Gain = g
	adc.state.adc1.DataRate = r
	adc.state.pgaBypass = bypass
	return nil
}

// writeADC2Config writes ADC2CFG with the given gain, rate and reference, and updates the mirror on success.
func (adc *ADS1263) writeADC2Config(g Gain, r DataRate, ref Reference) error {
	gc, err := GainCode(ADC2, g)
	if err != nil {
		return err
	}
	rc, err := DataRateCode(ADC2, r)
	if err != nil {
		return err
	}
	refc, err := referenceCode(ADC2, ref)
	if err != nil {
		return err
	}
	if err = adc.writeRegister(RegADC2CFG, adc2cfg(rc, refc, gc)); err != nil {
		return err
	}
	s := &adc.state.adc2
	if s.Reference != ref {
		s.ReferenceVoltage = defaultReferenceVolts(ref, s.ReferenceVoltage)
	}
	s.Gain, s.DataRate, s.Reference = g, r, ref
	return nil
}

// defaultReferenceVolts keeps the caller-supplied reference voltage unless the internal reference is selected.
func defaultReferenceVolts(ref Reference, current float64) float64 {
	if ref == RefInternal2_5V {
		return internalReferenceVolts
	}
	return current
}

// SetGain programs the PGA gain of a.
func (adc *ADS1263) SetGain(a ADC, g Gain) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if a == ADC2 {
		s := adc.state.adc2
		return adc.writeADC2Config(g, s.DataRate, s.Reference)
	}
	s := adc.state.adc1
	return adc.writeADC1Mode2(g, s.DataRate, adc.state.pgaBypass)
}

// SetDataRate programs the output data rate of a.
// The new rate also selects the ready-line budget of subsequent conversions.
func (adc *ADS1263) SetDataRate(a ADC, r DataRate) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if a == ADC2 {
		s := adc.state.adc2
		return adc.writeADC2Config(s.Gain, r, s.Reference)
	}
	s := adc.state.adc1
	return adc.writeADC1Mode2(s.Gain, r, adc.state.pgaBypass)
}

// SetPGABypass enables or disables the ADC1 PGA bypass. Bypassing requires gain 1.
func (adc *ADS1263) SetPGABypass(bypass bool) error {
	s := adc.state.adc1
	return adc.writeADC1Mode2(s.Gain, s.DataRate, bypass)
}

// SetFilter selects the ADC1 digital filter in MODE1.
// ADC2 has a fixed sinc3 filter: selecting FilterSinc3 for it succeeds without bus activity,
// anything else fails with [ErrInvalidConfiguration].
func (adc *ADS1263) SetFilter(a ADC, f Filter) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if !f.valid() {
		return fmt.Errorf("%w: filter %d", ErrInvalidConfiguration, uint8(f))
	}
	if a == ADC2 {
		if f != FilterSinc3 {
			return fmt.Errorf("%w: ADC2 filter is fixed sinc3, got %s", ErrInvalidConfiguration, f)
		}
		return nil
	}
	v := adc.state.regs[RegMODE1]&^mode1FilterMask | byte(f)<<mode1FilterShift
	if err := adc.writeRegister(RegMODE1, v); err != nil {
		return err
	}
	adc.state.adc1.Filter = f
	return nil
}

// SetMode chooses how GetChannelValue (ADC1) or GetChannelValueADC2 (ADC2) interprets a channel number.
// The input mode has no register of its own; the mux is written per conversion.
func (adc *ADS1263) SetMode(a ADC, m InputMode) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if m != SingleEndedMode && m != DifferentialMode {
		return fmt.Errorf("%w: input mode %d", ErrInvalidConfiguration, uint8(m))
	}
	adc.state.settings(a).Mode = m
	return nil
}

// SetReference selects the reference inputs of a (REFMUX for ADC1, the REF2 field of ADC2CFG for ADC2).
// Selecting the internal reference also sets the reference voltage to 2.5V; other sources keep the
// voltage last given to [ADS1263.SetReferenceVoltage].
func (adc *ADS1263) SetReference(a ADC, ref Reference) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if a == ADC2 {
		s := adc.state.adc2
		return adc.writeADC2Config(s.Gain, s.DataRate, ref)
	}
	code, err := referenceCode(ADC1, ref)
	if err != nil {
		return err
	}
	if err = adc.writeRegister(RegREFMUX, code); err != nil {
		return err
	}
	s := &adc.state.adc1
	if s.Reference != ref {
		s.ReferenceVoltage = defaultReferenceVolts(ref, s.ReferenceVoltage)
	}
	s.Reference = ref
	return nil
}

// SetReferenceVoltage records the physical voltage across a's reference, used to scale conversions.
func (adc *ADS1263) SetReferenceVoltage(a ADC, volts float64) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	if !(volts > 0) {
		return fmt.Errorf("%w: reference voltage %g", ErrInvalidConfiguration, volts)
	}
	adc.state.settings(a).ReferenceVoltage = volts
	return nil
}

// SetDelay programs the ADC1 conversion start delay in MODE0.
func (adc *ADS1263) SetDelay(d Delay) error {
	if !d.valid() {
		return fmt.Errorf("%w: delay %d", ErrInvalidConfiguration, uint8(d))
	}
	v := adc.state.regs[RegMODE0]&^mode0DelayMask | byte(d)
	if err := adc.writeRegister(RegMODE0, v); err != nil {
		return err
	}
	adc.state.delay = d
	return nil
}

// SetCheckMode selects the integrity byte appended to conversion data and whether the STATUS byte is prepended.
func (adc *ADS1263) SetCheckMode(mode CheckMode, status bool) error {
	if !mode.valid() {
		return fmt.Errorf("%w: check mode %d", ErrInvalidConfiguration, uint8(mode))
	}
	v := adc.state.regs[RegINTERFACE]&^(InterfaceSTATUSbit|InterfaceCRCMask) | byte(mode)
	if status {
		v |= InterfaceSTATUSbit
	}
	if err := adc.writeRegister(RegINTERFACE, v); err != nil {
		return err
	}
	adc.state.check = mode
	adc.state.status = status
	return nil
}

// SetDAC programs the positive (TDACP, output on AIN6) or negative (TDACN, output on AIN7) test DAC.
func (adc *ADS1263) SetDAC(positive bool, v DACVoltage, enable bool) error {
	if !v.valid() {
		return fmt.Errorf("%w: DAC voltage code 0x%02X", ErrInvalidConfiguration, byte(v))
	}
	reg := RegTDACN
	if positive {
		reg = RegTDACP
	}
	var val byte
	if enable {
		val = byte(v) | tdacOUTbit
	}
	return adc.writeRegister(reg, val)
}

// SetExcitation connects the two excitation current sources to the given inputs with the given magnitude.
// IDACMUX is written before IDACMAG so current never flows into a stale pin.
func (adc *ADS1263) SetExcitation(idac1, idac2 Channel, current IDACCurrent) error {
	if !current.valid() {
		return fmt.Errorf("%w: IDAC magnitude %d", ErrInvalidConfiguration, uint8(current))
	}
	if idac1 > CH_AINCOM || idac2 > CH_AINCOM {
		return fmt.Errorf("%w: IDAC outputs %s/%s", ErrInvalidConfiguration, idac1, idac2)
	}
	if err := adc.writeRegister(RegIDACMUX, idac2.Byte()<<4|idac1.Byte()); err != nil {
		return err
	}
	return adc.writeRegister(RegIDACMAG, byte(current)<<4|byte(current))
}

// DisableExcitation switches both current sources off and disconnects them.
func (adc *ADS1263) DisableExcitation() error {
	if err := adc.writeRegister(RegIDACMAG, 0x00); err != nil {
		return err
	}
	return adc.writeRegister(RegIDACMUX, idacNoConnection<<4|idacNoConnection)
}
