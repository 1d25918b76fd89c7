package ads1263

// Settings is the configuration currently applied to one converter.
type Settings struct {
	Gain      Gain
	DataRate  DataRate
	Filter    Filter
	Mode      InputMode
	Reference Reference
	// ReferenceVoltage is the physical voltage across the selected reference, used by [ADS1263.Voltage].
	ReferenceVoltage float64
}

// DeviceState mirrors the converter's registers and the typed settings derived from them.
//
// It is mutated only by the configuration setters after the corresponding register write
// succeeded, so it never runs ahead of the hardware.
type DeviceState struct {
	regs      [NumRegisters]byte
	adc1      Settings
	adc2      Settings
	delay     Delay
	check     CheckMode
	status    bool
	pgaBypass bool
}

// internalReferenceVolts is the on-chip reference selected after reset.
const internalReferenceVolts = 2.5

func newDeviceState() DeviceState {
	var s DeviceState
	s.reset()
	return s
}

// reset restores the datasheet power-on values.
func (s *DeviceState) reset() {
	s.regs = powerOnDefaults
	s.adc1 = Settings{
		Gain:             Gain1,
		DataRate:         Rate20SPS,
		Filter:           FilterFIR,
		Mode:             s.adc1.Mode,
		Reference:        RefInternal2_5V,
		ReferenceVoltage: internalReferenceVolts,
	}
	s.adc2 = Settings{
		Gain:             Gain1,
		DataRate:         Rate10SPS,
		Filter:           FilterSinc3,
		Mode:             s.adc2.Mode,
		Reference:        RefInternal2_5V,
		ReferenceVoltage: internalReferenceVolts,
	}
	s.delay = Delay0
	s.check = CheckChecksum
	s.status = true
	s.pgaBypass = false
}

func (s *DeviceState) settings(a ADC) *Settings {
	if a == ADC2 {
		return &s.adc2
	}
	return &s.adc1
}

// Settings returns a copy of the settings applied to a.
func (s DeviceState) Settings(a ADC) Settings {
	return *s.settings(a)
}

// Register returns the mirrored value of reg.
func (s DeviceState) Register(reg Register) byte {
	if reg >= NumRegisters {
		return 0
	}
	return s.regs[reg]
}

// Delay returns the ADC1 conversion start delay.
func (s DeviceState) Delay() Delay { return s.delay }

// CheckMode returns the conversion frame integrity mode.
func (s DeviceState) CheckMode() CheckMode { return s.check }

// StatusByte reports whether conversion frames carry a leading STATUS byte.
func (s DeviceState) StatusByte() bool { return s.status }

// PGABypass reports whether the ADC1 PGA is bypassed.
func (s DeviceState) PGABypass() bool { return s.pgaBypass }
