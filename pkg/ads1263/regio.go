package ads1263

import (
	"fmt"
)

// Registers returns a snapshot of the register mirror.
func (adc *ADS1263) Registers() map[Register]byte {
	r := make(map[Register]byte, NumRegisters)
	for reg, val := range adc.state.regs {
		r[Register(reg)] = val
	}
	return r
}

// LastWrittenRegister returns the mirror value of reg.
func (adc *ADS1263) LastWrittenRegister(reg Register) byte {
	if reg >= NumRegisters {
		return 0
	}
	return adc.state.regs[reg]
}

func checkRange(start Register, count int) error {
	if count < 1 || int(start)+count > NumRegisters {
		return fmt.Errorf("%w: 0x%02X+%d", ErrInvalidRegister, byte(start), count)
	}
	return nil
}

// writeRegister writes a single register [reg] with the given value, then updates the mirror.
func (adc *ADS1263) writeRegister(reg Register, value byte) error {
	return adc.writeRegisters(reg, 1, []byte{value})
}

// writeRegisters performs one WREG block transaction starting at [start].
// The payload must hold exactly count bytes. The mirror is only updated once the transaction succeeded.
func (adc *ADS1263) writeRegisters(start Register, count int, payload []byte) error {
	if err := checkRange(start, count); err != nil {
		return err
	}
	if len(payload) != count {
		return &FrameLengthError{Want: count, Got: len(payload)}
	}

	// WREG: 0x40 + reg, second byte: # of registers -1
	cmd := CMDWREG | (byte(start) & 0x1F)
	err := adc.transaction("WREG "+start.String(), func(w busIO) error {
		if err := w.write(cmd, byte(count-1)); err != nil {
			return err
		}
		return w.write(payload...)
	})
	if err != nil {
		return err
	}

	copy(adc.state.regs[start:], payload)
	adc.log.Debug().Stringer("register", start).Hex("value", payload).Msg("register write")
	return nil
}

// readRegister reads a single register [reg].
func (adc *ADS1263) readRegister(reg Register) (byte, error) {
	buf := get1Byte()
	defer put1Byte(buf)
	if err := adc.readRegisters(reg, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readRegisters performs one RREG block transaction filling p from [start].
func (adc *ADS1263) readRegisters(start Register, p []byte) error {
	if err := checkRange(start, len(p)); err != nil {
		return err
	}

	// RREG: 0x20 + reg, second byte: # of registers -1
	cmd := CMDRREG | (byte(start) & 0x1F)
	return adc.transaction("RREG "+start.String(), func(w busIO) error {
		if err := w.write(cmd, byte(len(p)-1)); err != nil {
			return err
		}
		return w.read(p)
	})
}

// ReadRegister reads reg from the device without touching the mirror.
func (adc *ADS1263) ReadRegister(reg Register) (byte, error) {
	return adc.readRegister(reg)
}

// ReadAllRegisters reads the full register map in one block transfer. The mirror is left untouched.
func (adc *ADS1263) ReadAllRegisters() (map[Register]byte, error) {
	var buf [NumRegisters]byte
	if err := adc.readRegisters(RegID, buf[:]); err != nil {
		return nil, err
	}
	registers := make(map[Register]byte, NumRegisters)
	for reg, val := range buf {
		registers[Register(reg)] = val
	}
	return registers, nil
}

// VerifyRegisters compares the device's writable registers with the mirror and
// returns a [*RegisterMismatchError] naming every difference.
func (adc *ADS1263) VerifyRegisters() error {
	hw, err := adc.ReadAllRegisters()
	if err != nil {
		return err
	}
	var mismatches []RegisterMismatch
	for reg := RegPOWER; reg < NumRegisters; reg++ {
		mirror := adc.state.regs[reg]
		// STATUS-like read-only bits: POWER bit4 is the reset flag
		got := hw[reg]
		if reg == RegPOWER {
			got &^= 0x10
			mirror &^= 0x10
		}
		if got != mirror {
			mismatches = append(mismatches, RegisterMismatch{Register: reg, Mirror: mirror, Hardware: got})
		}
	}
	if len(mismatches) > 0 {
		return &RegisterMismatchError{Mismatches: mismatches}
	}
	return nil
}
