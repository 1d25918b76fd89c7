package ads1263

// Constants from the datasheet

// Register is a register address in the converter's register map.
type Register byte

// Register Addresses
const (
	// RegID is the device identification register (read-only)
	RegID Register = 0x00
	// RegPOWER is the power register
	RegPOWER Register = 0x01
	// RegINTERFACE is the interface register (STATUS byte, checksum mode)
	RegINTERFACE Register = 0x02
	// RegMODE0 is the mode 0 register (run mode, chop, conversion delay)
	RegMODE0 Register = 0x03
	// RegMODE1 is the mode 1 register (digital filter, sensor bias)
	RegMODE1 Register = 0x04
	// RegMODE2 is the mode 2 register (PGA bypass, gain, data rate)
	RegMODE2 Register = 0x05
	// RegINPMUX is the ADC1 input multiplexer register
	RegINPMUX Register = 0x06
	// RegOFCAL0 is the ADC1 offset calibration register 0 (LSB)
	RegOFCAL0 Register = 0x07
	// RegOFCAL1 is the ADC1 offset calibration register 1
	RegOFCAL1 Register = 0x08
	// RegOFCAL2 is the ADC1 offset calibration register 2 (MSB)
	RegOFCAL2 Register = 0x09
	// RegFSCAL0 is the ADC1 full-scale calibration register 0 (LSB)
	RegFSCAL0 Register = 0x0A
	// RegFSCAL1 is the ADC1 full-scale calibration register 1
	RegFSCAL1 Register = 0x0B
	// RegFSCAL2 is the ADC1 full-scale calibration register 2 (MSB)
	RegFSCAL2 Register = 0x0C
	// RegIDACMUX is the excitation current multiplexer register
	RegIDACMUX Register = 0x0D
	// RegIDACMAG is the excitation current magnitude register
	RegIDACMAG Register = 0x0E
	// RegREFMUX is the ADC1 reference multiplexer register
	RegREFMUX Register = 0x0F
	// RegTDACP is the positive test DAC register
	RegTDACP Register = 0x10
	// RegTDACN is the negative test DAC register
	RegTDACN Register = 0x11
	// RegGPIOCON is the GPIO connection register
	RegGPIOCON Register = 0x12
	// RegGPIODIR is the GPIO direction register
	RegGPIODIR Register = 0x13
	// RegGPIODAT is the GPIO data register
	RegGPIODAT Register = 0x14
	// RegADC2CFG is the ADC2 configuration register
	RegADC2CFG Register = 0x15
	// RegADC2MUX is the ADC2 input multiplexer register
	RegADC2MUX Register = 0x16
	// RegADC2OFC0 is the ADC2 offset calibration register 0
	RegADC2OFC0 Register = 0x17
	// RegADC2OFC1 is the ADC2 offset calibration register 1
	RegADC2OFC1 Register = 0x18
	// RegADC2FSC0 is the ADC2 full-scale calibration register 0
	RegADC2FSC0 Register = 0x19
	// RegADC2FSC1 is the ADC2 full-scale calibration register 1
	RegADC2FSC1 Register = 0x1A

	// NumRegisters is the total number of registers.
	NumRegisters = 0x1B // 27 total (0 through 0x1A)
)

var registerNames = [NumRegisters]string{
	"ID", "POWER", "INTERFACE", "MODE0", "MODE1", "MODE2", "INPMUX",
	"OFCAL0", "OFCAL1", "OFCAL2", "FSCAL0", "FSCAL1", "FSCAL2",
	"IDACMUX", "IDACMAG", "REFMUX", "TDACP", "TDACN",
	"GPIOCON", "GPIODIR", "GPIODAT",
	"ADC2CFG", "ADC2MUX", "ADC2OFC0", "ADC2OFC1", "ADC2FSC0", "ADC2FSC1",
}

func (r Register) String() string {
	if r >= NumRegisters {
		return "(invalid register)"
	}
	return registerNames[r]
}

// powerOnDefaults are the register values after a reset, per the datasheet register map.
// The ID register's revision bits vary per part and are left at zero here.
var powerOnDefaults = [NumRegisters]byte{
	RegID:        0x20,
	RegPOWER:     0x11,
	RegINTERFACE: 0x05,
	RegMODE0:     0x00,
	RegMODE1:     0x80,
	RegMODE2:     0x04,
	RegINPMUX:    0x01,
	RegFSCAL2:    0x40,
	RegIDACMUX:   0xBB,
	RegIDACMAG:   0x00,
	RegREFMUX:    0x00,
	RegADC2CFG:   0x00,
	RegADC2MUX:   0x01,
	RegADC2FSC1:  0x40,
}

// PowerOnDefaults returns the datasheet reset values of every register.
func PowerOnDefaults() [NumRegisters]byte {
	return powerOnDefaults
}

// Command Opcodes
const (
	CMDNOP     = 0x00
	CMDRESET   = 0x06
	CMDSTART1  = 0x08
	CMDSTOP1   = 0x0A
	CMDSTART2  = 0x0C
	CMDSTOP2   = 0x0E
	CMDRDATA1  = 0x12
	CMDRDATA2  = 0x14
	CMDSYOCAL1 = 0x16
	CMDSYGCAL1 = 0x17
	CMDSFOCAL1 = 0x19
	CMDSYOCAL2 = 0x1B
	CMDSYGCAL2 = 0x1C
	CMDSFOCAL2 = 0x1E
	CMDRREG    = 0x20 // 0x20 + (reg & 0x1F)
	CMDWREG    = 0x40 // 0x40 + (reg & 0x1F)

	// CMDSYNC restarts the digital filters of a running conversion
	CMDSYNC = 0x04
)

// Bits for the INTERFACE register
const (
	InterfaceTIMEOUTbit = 0x08 // (bit3) serial interface auto-reset
	InterfaceSTATUSbit  = 0x04 // (bit2) prepend STATUS byte to conversion data
	InterfaceCRCMask    = 0x03 // (bits1-0) checksum mode
)

// Bits for the STATUS byte prepended to conversion data
const (
	StatusADC2bit   = 0x80 // (bit7) ADC2 new data
	StatusADC1bit   = 0x40 // (bit6) ADC1 new data
	StatusEXTCLKbit = 0x20 // (bit5) external clock detected
	StatusREFALMbit = 0x10 // (bit4) low reference alarm
	StatusPGALbit   = 0x08 // (bit3) PGA output low alarm
	StatusPGAHbit   = 0x04 // (bit2) PGA output high alarm
	StatusPGADbit   = 0x02 // (bit1) PGA differential output alarm
	StatusRESETbit  = 0x01 // (bit0) device reset occurred
)

// Bits for the MODE2 register
const (
	Mode2BYPASSbit = 0x80 // (bit7) PGA bypass
	mode2GainShift = 4
	mode2RateMask  = 0x0F
)

// Bits for the MODE1 register
const (
	mode1FilterShift = 5
	mode1FilterMask  = 0xE0
)

// Bits for the MODE0 register
const (
	Mode0REFREVbit  = 0x80
	Mode0RUNMODEbit = 0x40
	mode0DelayMask  = 0x0F
)

// Bits for the ADC2CFG register
const (
	adc2RateShift = 6
	adc2RefShift  = 3
	adc2RefMask   = 0x38
	adc2GainMask  = 0x07
)

// Test DAC enable bit (TDACP/TDACN)
const tdacOUTbit = 0x80

// IDAC mux value leaving an excitation source unconnected.
const idacNoConnection = 0x0B

// Device identification values (ID register bits 7-5)
const (
	DeviceADS1262 = 0
	DeviceADS1263 = 1
)
