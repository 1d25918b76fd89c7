package ads1263

import (
	"encoding/binary"
	"math"
)

// Convert24To32 interprets a 3-byte, 24-bit signed value
// in two's complement form, MSB first, as a 32-bit int.
func Convert24To32(data []byte) int32 {
	// data[0] is MSB. If top bit set => negative
	var u32 uint32
	u32 |= uint32(data[0]) << 16
	u32 |= uint32(data[1]) << 8
	u32 |= uint32(data[2])

	// sign extension
	if (u32 & 0x800000) != 0 {
		u32 |= 0xFF000000
	}
	return int32(u32)
}

// Convert32 interprets 4 bytes, MSB first, as a two's complement 32-bit int.
func Convert32(data []byte) int32 {
	return int32(binary.BigEndian.Uint32(data))
}

// RawToVoltage converts a signed conversion result of the given bit width to volts.
//
// Full scale is +-vRef/gain: the divisor is 2^31 for ADC1 and 2^23 for ADC2.
func RawToVoltage(raw int32, vRef float64, gain Gain, bitWidth int) float64 {
	if gain == 0 {
		gain = Gain1
	}
	fullScale := math.Ldexp(1, bitWidth-1)
	return float64(raw) / fullScale * vRef / float64(gain)
}

// Voltage converts a result of a to volts using the gain and reference voltage currently applied to a.
func (adc *ADS1263) Voltage(a ADC, raw int32) float64 {
	s := adc.state.settings(a)
	return RawToVoltage(raw, s.ReferenceVoltage, s.Gain, a.BitWidth())
}

// RTDToResistance converts a ratiometric ADC1 result to the sensor resistance.
//
// Both excitation currents return through the reference resistor while only one flows
// through the sensor, so the reference sits at twice the current: R = raw * 2 * rRef / 2^31.
func RTDToResistance(raw int32, rRef float64) float64 {
	return float64(raw) * rRef / (1 << 30)
}

// Callendar-Van Dusen coefficients (IEC 60751).
const (
	pt100Nominal = 100.0
	cvdA         = 3.9083e-3
	cvdB         = -5.775e-7
)

// PT100ToCelsius converts a PT100 resistance to degrees Celsius.
//
// At and above 0°C it solves the quadratic Callendar-Van Dusen equation exactly.
// Below 0°C it uses a fifth-order polynomial fit of the full equation, which stays
// within 0.0011°C of it from -200°C to 0°C.
func PT100ToCelsius(resistance float64) float64 {
	z1 := -cvdA
	z2 := cvdA*cvdA - 4*cvdB
	z3 := 4 * cvdB / pt100Nominal
	z4 := 2 * cvdB

	temp := (math.Sqrt(z2+z3*resistance) + z1) / z4
	if temp >= 0 {
		return temp
	}

	rpoly := resistance
	temp = -242.02
	temp += 2.2228 * rpoly
	rpoly *= resistance // ^2
	temp += 2.5859e-3 * rpoly
	rpoly *= resistance // ^3
	temp -= 4.8260e-6 * rpoly
	rpoly *= resistance // ^4
	temp -= 2.8183e-8 * rpoly
	rpoly *= resistance // ^5
	temp += 1.5243e-10 * rpoly
	return temp
}

// PT100ToCelsiusLinear uses the single-coefficient approximation alpha = 0.00385.
// It matches the full curve at 0°C and 100°C, reads 0.4°C high at 50°C and 18°C low at 400°C.
func PT100ToCelsiusLinear(resistance float64) float64 {
	return (resistance/pt100Nominal - 1) / 0.00385
}
