package ads1263

import "fmt"

var commandNames = map[byte]string{
	CMDNOP:     "NOP",
	CMDSYNC:    "SYNC",
	CMDRESET:   "RESET",
	CMDSTART1:  "START1",
	CMDSTOP1:   "STOP1",
	CMDSTART2:  "START2",
	CMDSTOP2:   "STOP2",
	CMDRDATA1:  "RDATA1",
	CMDRDATA2:  "RDATA2",
	CMDSYOCAL1: "SYOCAL1",
	CMDSYGCAL1: "SYGCAL1",
	CMDSFOCAL1: "SFOCAL1",
	CMDSYOCAL2: "SYOCAL2",
	CMDSYGCAL2: "SYGCAL2",
	CMDSFOCAL2: "SFOCAL2",
}

// CommandName returns the mnemonic of a control opcode.
func CommandName(cmd byte) string {
	if name, ok := commandNames[cmd]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", cmd)
}

// sendCommand performs a single command byte with no payload.
func (adc *ADS1263) sendCommand(cmd byte) error {
	if _, ok := commandNames[cmd]; !ok || cmd == CMDRDATA1 || cmd == CMDRDATA2 {
		return fmt.Errorf("%w: 0x%02X is not a control command", ErrInvalidConfiguration, cmd)
	}
	name := CommandName(cmd)
	if err := adc.transaction(name, func(w busIO) error {
		return w.write(cmd)
	}); err != nil {
		return err
	}
	adc.log.Debug().Str("command", name).Msg("command sent")
	return nil
}

func startCommand(a ADC) byte {
	if a == ADC2 {
		return CMDSTART2
	}
	return CMDSTART1
}

func stopCommand(a ADC) byte {
	if a == ADC2 {
		return CMDSTOP2
	}
	return CMDSTOP1
}

func readCommand(a ADC) byte {
	if a == ADC2 {
		return CMDRDATA2
	}
	return CMDRDATA1
}

// Start issues START1 or START2.
func (adc *ADS1263) Start(a ADC) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	return adc.sendCommand(startCommand(a))
}

// Stop issues STOP1 or STOP2.
func (adc *ADS1263) Stop(a ADC) error {
	if err := adc.checkADC(a); err != nil {
		return err
	}
	return adc.sendCommand(stopCommand(a))
}

// Sync sends a SYNC command to restart the running conversion.
func (adc *ADS1263) Sync() error {
	return adc.sendCommand(CMDSYNC)
}

// SoftReset sends the RESET command. All registers return to their power-on values,
// and so does the mirror.
func (adc *ADS1263) SoftReset() error {
	if err := adc.sendCommand(CMDRESET); err != nil {
		return err
	}
	adc.state.reset()
	return nil
}
