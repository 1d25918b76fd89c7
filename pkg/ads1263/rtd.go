package ads1263

import (
	"errors"
	"fmt"
	"time"
)

// SettleDelay is a pause between switching on the excitation current and starting the conversion.
type SettleDelay uint8

const (
	SettleNone SettleDelay = iota
	Settle1ms
	Settle5ms
	Settle10ms
	Settle50ms
	Settle100ms
)

var settleDurations = [...]time.Duration{
	SettleNone:  0,
	Settle1ms:   time.Millisecond,
	Settle5ms:   5 * time.Millisecond,
	Settle10ms:  10 * time.Millisecond,
	Settle50ms:  50 * time.Millisecond,
	Settle100ms: 100 * time.Millisecond,
}

func (s SettleDelay) Duration() time.Duration {
	if int(s) >= len(settleDurations) {
		return 0
	}
	return settleDurations[s]
}

func (s SettleDelay) valid() bool {
	return int(s) < len(settleDurations)
}

// RTDConfig describes a ratiometric RTD measurement on ADC1.
type RTDConfig struct {
	IDAC1   Channel     // first excitation output
	IDAC2   Channel     // second excitation output
	Current IDACCurrent // magnitude of both sources
	Input   ChannelPair // sensor voltage
	// Reference is the pair across the reference resistor. ADC1 is switched to it for the measurement
	// and restored afterwards.
	Reference         Reference
	ReferenceResistor float64 // ohms
	Settle            SettleDelay
}

// DefaultRTDConfig is the 2-wire PT100 arrangement of the Waveshare High-Precision AD HAT:
// IDAC1 on AIN3, IDAC2 on AINCOM, 250uA each, sensor on AIN7-AIN6, 2k reference resistor on AIN4/AIN5.
func DefaultRTDConfig() RTDConfig {
	return RTDConfig{
		IDAC1:             CH_AIN3,
		IDAC2:             CH_AINCOM,
		Current:           IDAC250uA,
		Input:             Differential(CH_AIN7, CH_AIN6),
		Reference:         RefExternalAIN45,
		ReferenceResistor: 2000,
		Settle:            Settle10ms,
	}
}

// RTDReading is the result of [ADS1263.ReadRTD].
type RTDReading struct {
	Raw        int32
	Resistance float64 // ohms
	Celsius    float64 // PT100 curve
}

// ReadRTD excites the sensor, runs one ADC1 conversion on the sensor input and switches the excitation off again.
//
// ADC1 is stopped, both current sources are disabled and the previous reference is restored
// on every path out, including failed conversions. Release failures are joined to the returned error.
func (adc *ADS1263) ReadRTD(cfg RTDConfig) (reading RTDReading, err error) {
	mux, err := cfg.Input.Mux(ADC1)
	if err != nil {
		return reading, err
	}
	if !cfg.Settle.valid() {
		return reading, fmt.Errorf("%w: settle delay %d", ErrInvalidConfiguration, uint8(cfg.Settle))
	}
	if !(cfg.ReferenceResistor > 0) {
		return reading, fmt.Errorf("%w: reference resistor %g", ErrInvalidConfiguration, cfg.ReferenceResistor)
	}

	prev := adc.state.adc1
	if prev.Reference != cfg.Reference {
		if err = adc.SetReference(ADC1, cfg.Reference); err != nil {
			return reading, err
		}
		defer func() {
			rerr := adc.SetReference(ADC1, prev.Reference)
			if rerr == nil {
				adc.state.adc1.ReferenceVoltage = prev.ReferenceVoltage
			}
			err = errors.Join(err, rerr)
		}()
	}

	defer func() {
		err = errors.Join(err, adc.DisableExcitation())
	}()
	if err = adc.SetExcitation(cfg.IDAC1, cfg.IDAC2, cfg.Current); err != nil {
		return reading, err
	}
	adc.log.Debug().
		Stringer("idac1", cfg.IDAC1).
		Stringer("idac2", cfg.IDAC2).
		Stringer("input", cfg.Input).
		Msg("RTD excitation on")

	// Select the sensor pair now so the settle delay also covers mux settling.
	if err = adc.writeRegister(RegINPMUX, mux); err != nil {
		return reading, err
	}
	adc.delay(cfg.Settle.Duration())

	defer func() {
		err = errors.Join(err, adc.Stop(ADC1))
	}()
	raw, err := adc.Read(ADC1, cfg.Input)
	if err != nil {
		return reading, err
	}

	reading.Raw = raw
	reading.Resistance = RTDToResistance(raw, cfg.ReferenceResistor) / float64(adc.state.adc1.Gain)
	reading.Celsius = PT100ToCelsius(reading.Resistance)
	return reading, nil
}
