package ads1263

import (
	"fmt"
	"strconv"
	"time"
)

// ADC selects one of the two converters sharing the bus.
type ADC uint8

const (
	// ADC1 is the 32-bit primary converter.
	ADC1 ADC = 1
	// ADC2 is the 24-bit auxiliary converter.
	ADC2 ADC = 2
)

func (a ADC) String() string {
	switch a {
	case ADC1:
		return "ADC1"
	case ADC2:
		return "ADC2"
	default:
		return "(invalid adc)"
	}
}

// BitWidth is the width of a conversion result in bits.
func (a ADC) BitWidth() int {
	if a == ADC2 {
		return 24
	}
	return 32
}

// MaxChannel is the highest input index accepted for a single-ended or differential selection.
func (a ADC) MaxChannel() Channel {
	if a == ADC2 {
		return CH_AIN9
	}
	return CH_AINCOM
}

func (a ADC) valid() bool {
	return a == ADC1 || a == ADC2
}

// Gain is the programmable gain amplifier multiplier.
type Gain uint8

const (
	Gain1   Gain = 1
	Gain2   Gain = 2
	Gain4   Gain = 4
	Gain8   Gain = 8
	Gain16  Gain = 16
	Gain32  Gain = 32
	Gain64  Gain = 64
	Gain128 Gain = 128
)

func (g Gain) String() string {
	return strconv.Itoa(int(g)) + "x"
}

// gainCodes maps each supported gain to its 3-bit register code, per converter.
var gainCodes = map[ADC]map[Gain]byte{
	ADC1: {Gain1: 0, Gain2: 1, Gain4: 2, Gain8: 3, Gain16: 4, Gain32: 5, Gain64: 6},
	ADC2: {Gain1: 0, Gain2: 1, Gain4: 2, Gain8: 3, Gain16: 4, Gain32: 5, Gain64: 6, Gain128: 7},
}

// GainCode returns the register code for g on the given converter.
func GainCode(adc ADC, g Gain) (byte, error) {
	code, ok := gainCodes[adc][g]
	if !ok {
		return 0, fmt.Errorf("%w: gain %s not supported by %s", ErrInvalidConfiguration, g, adc)
	}
	return code, nil
}

// DataRate is a nominal output data rate.
type DataRate uint8

const (
	Rate2_5SPS DataRate = iota
	Rate5SPS
	Rate10SPS
	Rate16_6SPS
	Rate20SPS
	Rate50SPS
	Rate60SPS
	Rate100SPS
	Rate400SPS
	Rate800SPS
	Rate1200SPS
	Rate2400SPS
	Rate4800SPS
	Rate7200SPS
	Rate14400SPS
	Rate19200SPS
	Rate38400SPS
)

var rateSPS = [...]float64{
	Rate2_5SPS:   2.5,
	Rate5SPS:     5,
	Rate10SPS:    10,
	Rate16_6SPS:  16.6,
	Rate20SPS:    20,
	Rate50SPS:    50,
	Rate60SPS:    60,
	Rate100SPS:   100,
	Rate400SPS:   400,
	Rate800SPS:   800,
	Rate1200SPS:  1200,
	Rate2400SPS:  2400,
	Rate4800SPS:  4800,
	Rate7200SPS:  7200,
	Rate14400SPS: 14400,
	Rate19200SPS: 19200,
	Rate38400SPS: 38400,
}

// SPS returns the nominal rate in samples per second.
func (r DataRate) SPS() float64 {
	if int(r) >= len(rateSPS) {
		return 0
	}
	return rateSPS[r]
}

func (r DataRate) String() string {
	if int(r) >= len(rateSPS) {
		return "(invalid data rate)"
	}
	return strconv.FormatFloat(rateSPS[r], 'f', -1, 64) + " SPS"
}

var rateCodes = map[ADC]map[DataRate]byte{
	ADC1: {
		Rate2_5SPS: 0x00, Rate5SPS: 0x01, Rate10SPS: 0x02, Rate16_6SPS: 0x03,
		Rate20SPS: 0x04, Rate50SPS: 0x05, Rate60SPS: 0x06, Rate100SPS: 0x07,
		Rate400SPS: 0x08, Rate1200SPS: 0x09, Rate2400SPS: 0x0A, Rate4800SPS: 0x0B,
		Rate7200SPS: 0x0C, Rate14400SPS: 0x0D, Rate19200SPS: 0x0E, Rate38400SPS: 0x0F,
	},
	ADC2: {Rate10SPS: 0x00, Rate100SPS: 0x01, Rate400SPS: 0x02, Rate800SPS: 0x03},
}

// DataRateCode returns the register code for r on the given converter.
func DataRateCode(adc ADC, r DataRate) (byte, error) {
	code, ok := rateCodes[adc][r]
	if !ok {
		return 0, fmt.Errorf("%w: data rate %s not supported by %s", ErrInvalidConfiguration, r, adc)
	}
	return code, nil
}

// Filter is the ADC1 digital filter, stored in MODE1.
type Filter uint8

const (
	FilterSinc1 Filter = 0
	FilterSinc2 Filter = 1
	FilterSinc3 Filter = 2
	FilterSinc4 Filter = 3
	FilterFIR   Filter = 4
)

func (f Filter) String() string {
	switch f {
	case FilterSinc1:
		return "sinc1"
	case FilterSinc2:
		return "sinc2"
	case FilterSinc3:
		return "sinc3"
	case FilterSinc4:
		return "sinc4"
	case FilterFIR:
		return "FIR"
	default:
		return "(invalid filter)"
	}
}

func (f Filter) valid() bool {
	return f <= FilterFIR
}

// Delay is the conversion start delay programmed in MODE0.
type Delay uint8

//goland:noinspection GoSnakeCaseUsage
const (
	Delay0 Delay = iota
	Delay8_7us
	Delay17us
	Delay35us
	Delay69us
	Delay139us
	Delay278us
	Delay555us
	Delay1_1ms
	Delay2_2ms
	Delay4_4ms
	Delay8_8ms
)

var delayDurations = [...]time.Duration{
	Delay0:     0,
	Delay8_7us: 8700 * time.Nanosecond,
	Delay17us:  17 * time.Microsecond,
	Delay35us:  35 * time.Microsecond,
	Delay69us:  69 * time.Microsecond,
	Delay139us: 139 * time.Microsecond,
	Delay278us: 278 * time.Microsecond,
	Delay555us: 555 * time.Microsecond,
	Delay1_1ms: 1100 * time.Microsecond,
	Delay2_2ms: 2200 * time.Microsecond,
	Delay4_4ms: 4400 * time.Microsecond,
	Delay8_8ms: 8800 * time.Microsecond,
}

// Duration returns the programmed delay.
func (d Delay) Duration() time.Duration {
	if int(d) >= len(delayDurations) {
		return 0
	}
	return delayDurations[d]
}

func (d Delay) String() string {
	if int(d) >= len(delayDurations) {
		return "(invalid delay)"
	}
	return d.Duration().String()
}

func (d Delay) valid() bool {
	return int(d) < len(delayDurations)
}

// Reference is a reference input pair.
type Reference byte

// REFMUX values (RMUXP<<3 | RMUXN). ADC2CFG uses its own encoding, see adc2Reference.
const (
	RefInternal2_5V  Reference = 0x00
	RefExternalAIN01 Reference = 0x09
	RefExternalAIN23 Reference = 0x12
	RefExternalAIN45 Reference = 0x1B
	RefAVDD          Reference = 0x24
)

func (r Reference) String() string {
	switch r {
	case RefInternal2_5V:
		return "internal 2.5V"
	case RefExternalAIN01:
		return "AIN0/AIN1"
	case RefExternalAIN23:
		return "AIN2/AIN3"
	case RefExternalAIN45:
		return "AIN4/AIN5"
	case RefAVDD:
		return "AVDD/AVSS"
	default:
		return "(invalid reference)"
	}
}

// adc2Reference maps a reference pair to the ADC2CFG REF2 field.
var adc2Reference = map[Reference]byte{
	RefInternal2_5V:  0,
	RefExternalAIN01: 1,
	RefExternalAIN23: 2,
	RefExternalAIN45: 3,
	RefAVDD:          4,
}

func referenceCode(adc ADC, r Reference) (byte, error) {
	if adc == ADC2 {
		code, ok := adc2Reference[r]
		if !ok {
			return 0, fmt.Errorf("%w: reference %s not supported by %s", ErrInvalidConfiguration, r, adc)
		}
		return code, nil
	}
	switch r {
	case RefInternal2_5V, RefExternalAIN01, RefExternalAIN23, RefExternalAIN45, RefAVDD:
		return byte(r), nil
	}
	return 0, fmt.Errorf("%w: reference 0x%02X not supported by %s", ErrInvalidConfiguration, byte(r), adc)
}

// InputMode decides how a bare channel index is interpreted.
type InputMode uint8

const (
	// SingleEndedMode measures AINn against AINCOM.
	SingleEndedMode InputMode = iota
	// DifferentialMode measures the pair (AIN2n, AIN2n+1).
	DifferentialMode
)

func (m InputMode) String() string {
	switch m {
	case SingleEndedMode:
		return "single-ended"
	case DifferentialMode:
		return "differential"
	default:
		return "(invalid input mode)"
	}
}

// CheckMode is the integrity byte appended to conversion data, selected in INTERFACE.
type CheckMode uint8

const (
	CheckOff      CheckMode = 0
	CheckChecksum CheckMode = 1
	CheckCRC      CheckMode = 2
)

func (c CheckMode) String() string {
	switch c {
	case CheckOff:
		return "off"
	case CheckChecksum:
		return "checksum"
	case CheckCRC:
		return "crc8"
	default:
		return "(invalid check mode)"
	}
}

func (c CheckMode) valid() bool {
	return c <= CheckCRC
}

// IDACCurrent is an excitation current magnitude (IDACMAG nibble).
type IDACCurrent uint8

const (
	IDACOff IDACCurrent = iota
	IDAC50uA
	IDAC100uA
	IDAC250uA
	IDAC500uA
	IDAC750uA
	IDAC1000uA
	IDAC1500uA
	IDAC2000uA
	IDAC2500uA
	IDAC3000uA
)

func (c IDACCurrent) valid() bool {
	return c <= IDAC3000uA
}

// DACVoltage is a test DAC output level (TDACP/TDACN MAG field).
type DACVoltage uint8

const (
	DAC4_5V       DACVoltage = 0b01001
	DAC3_5V       DACVoltage = 0b01000
	DAC3_0V       DACVoltage = 0b00111
	DAC2_75V      DACVoltage = 0b00110
	DAC2_625V     DACVoltage = 0b00101
	DAC2_5625V    DACVoltage = 0b00100
	DAC2_53125V   DACVoltage = 0b00011
	DAC2_515625V  DACVoltage = 0b00010
	DAC2_5078125V DACVoltage = 0b00001
	DAC2_5V       DACVoltage = 0b00000
	DAC2_4921875V DACVoltage = 0b10001
	DAC2_484375V  DACVoltage = 0b10010
	DAC2_46875V   DACVoltage = 0b10011
	DAC2_4375V    DACVoltage = 0b10100
	DAC2_375V     DACVoltage = 0b10101
	DAC2_25V      DACVoltage = 0b10110
	DAC2_0V       DACVoltage = 0b10111
	DAC1_5V       DACVoltage = 0b11000
	DAC0_5V       DACVoltage = 0b11001
)

func (v DACVoltage) valid() bool {
	return v <= 0b01001 || (v >= 0b10001 && v <= 0b11001)
}
