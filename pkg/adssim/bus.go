package adssim

import (
	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

type phase uint8

const (
	phaseOpcode phase = iota
	phaseCount
	phasePayload
)

// bus decodes one chip-select scope worth of bytes.
type bus struct {
	d     *Device
	phase phase
	write bool
	reg   int
	left  int
	out   []byte
}

func (b *bus) fault() error {
	if b.d.failBus > 0 {
		b.d.failBus--
		return ErrInjected
	}
	return nil
}

// WriteByte implements io.ByteWriter.
func (b *bus) WriteByte(c byte) error {
	if err := b.fault(); err != nil {
		return err
	}
	switch b.phase {
	case phaseOpcode:
		b.opcode(c)
	case phaseCount:
		b.left = int(c) + 1
		if b.write {
			b.phase = phasePayload
			return nil
		}
		for i := 0; i < b.left; i++ {
			b.out = append(b.out, b.d.Register(ads1263.Register(b.reg+i)))
		}
		b.phase = phaseOpcode
	case phasePayload:
		b.d.store(b.reg, c)
		b.reg++
		b.left--
		if b.left == 0 {
			b.phase = phaseOpcode
		}
	}
	return nil
}

// ReadByte implements io.ByteReader. An empty output shifts out zeros.
func (b *bus) ReadByte() (byte, error) {
	if err := b.fault(); err != nil {
		return 0, err
	}
	if len(b.out) == 0 {
		return 0x00, nil
	}
	c := b.out[0]
	b.out = b.out[1:]
	return c, nil
}

func (b *bus) opcode(c byte) {
	d := b.d
	d.commands = append(d.commands, c)
	d.log.Trace().Str("command", ads1263.CommandName(c)).Msg("opcode")

	switch {
	case c&0xE0 == ads1263.CMDRREG:
		b.reg, b.write, b.phase = int(c&0x1F), false, phaseCount
		return
	case c&0xE0 == ads1263.CMDWREG:
		b.reg, b.write, b.phase = int(c&0x1F), true, phaseCount
		return
	}

	switch c {
	case ads1263.CMDRESET:
		d.powerOn()
	case ads1263.CMDSTART1, ads1263.CMDSYNC:
		d.running[ads1263.ADC1] = true
	case ads1263.CMDSTOP1:
		d.running[ads1263.ADC1] = false
	case ads1263.CMDSTART2:
		d.running[ads1263.ADC2] = true
		d.adc2Due = d.ADC2Latency
	case ads1263.CMDSTOP2:
		d.running[ads1263.ADC2] = false
	case ads1263.CMDRDATA1:
		b.out = append(b.out, d.frame(ads1263.ADC1)...)
	case ads1263.CMDRDATA2:
		b.out = append(b.out, d.frame(ads1263.ADC2)...)
	case ads1263.CMDSFOCAL1, ads1263.CMDSYOCAL1:
		d.storeCalibration(ads1263.RegOFCAL0, uint32(d.CalibrationOffset), 3)
	case ads1263.CMDSYGCAL1:
		d.storeCalibration(ads1263.RegFSCAL0, 0x400000, 3)
	case ads1263.CMDSFOCAL2, ads1263.CMDSYOCAL2:
		d.storeCalibration(ads1263.RegADC2OFC0, uint32(d.CalibrationOffset), 2)
	case ads1263.CMDSYGCAL2:
		d.storeCalibration(ads1263.RegADC2FSC0, 0x4000, 2)
	}
}

// store applies a register write. ID is read-only and the POWER reset flag can only be cleared.
func (d *Device) store(reg int, v byte) {
	switch {
	case reg >= ads1263.NumRegisters, reg == int(ads1263.RegID):
		return
	case reg == int(ads1263.RegPOWER):
		v = v&^0x10 | d.regs[reg]&v&0x10
	}
	d.regs[reg] = v
}

func (d *Device) storeCalibration(start ads1263.Register, v uint32, n int) {
	for i := 0; i < n; i++ {
		d.regs[int(start)+i] = byte(v >> (8 * i))
	}
}

// frame builds the bytes clocked out after RDATA1/RDATA2, per the INTERFACE register.
func (d *Device) frame(a ads1263.ADC) []byte {
	iface := d.regs[ads1263.RegINTERFACE]
	mode := ads1263.CheckMode(iface & ads1263.InterfaceCRCMask)

	var status byte
	if d.regs[ads1263.RegPOWER]&0x10 != 0 {
		status |= ads1263.StatusRESETbit
	}
	if d.newData(a) {
		if a == ads1263.ADC2 {
			status |= ads1263.StatusADC2bit
		} else {
			status |= ads1263.StatusADC1bit
		}
	}

	code := d.inputs[inputKey{a, d.mux(a)}]
	var data []byte
	if a == ads1263.ADC2 {
		data = []byte{byte(code >> 16), byte(code >> 8), byte(code)}
	} else {
		data = []byte{byte(code >> 24), byte(code >> 16), byte(code >> 8), byte(code)}
	}
	check := ads1263.CheckByte(mode, data)
	if d.corruptNext > 0 {
		d.corruptNext--
		data[len(data)-1] ^= 0x01
	}

	var f []byte
	if iface&ads1263.InterfaceSTATUSbit != 0 {
		f = append(f, status)
	}
	f = append(f, data...)
	if a == ads1263.ADC2 {
		f = append(f, 0x00)
	}
	if mode != ads1263.CheckOff {
		f = append(f, check)
	}
	return f
}

func (d *Device) mux(a ads1263.ADC) byte {
	if a == ads1263.ADC2 {
		return d.regs[ads1263.RegADC2MUX]
	}
	return d.regs[ads1263.RegINPMUX]
}

// newData reports and consumes the new-data flag of a.
func (d *Device) newData(a ads1263.ADC) bool {
	if d.NeverReady || !d.running[a] {
		return false
	}
	if a == ads1263.ADC2 {
		if d.adc2Due > 0 {
			d.adc2Due--
			return false
		}
		d.adc2Due = d.ADC2Latency
		return true
	}
	fresh := d.fresh[a]
	d.fresh[a] = false
	return fresh
}
