package ads1263

import (
	"bytes"
	"errors"
	"testing"
)

func TestRegisterCodec(t *testing.T) {
	t.Run("WriteRegister", func(t *testing.T) {
		f := &countingTransport{}
		adc := NewADS1263(f)
		if err := adc.writeRegister(RegMODE2, 0x84); err != nil {
			t.Fatal(err)
		}
		if f.transactions != 1 || !bytes.Equal(f.tx[0], []byte{0x45, 0x00, 0x84}) {
			t.Errorf("unexpected traffic % X", f.tx)
		}
		if adc.LastWrittenRegister(RegMODE2) != 0x84 {
			t.Error("mirror not updated")
		}
	})

	t.Run("ReadRegister", func(t *testing.T) {
		f := &countingTransport{rx: [][]byte{{0x21}}}
		adc := NewADS1263(f)
		v, err := adc.ReadRegister(RegID)
		if err != nil {
			t.Fatal(err)
		}
		if v != 0x21 || !bytes.Equal(f.tx[0], []byte{0x20, 0x00}) {
			t.Errorf("got 0x%02X after % X", v, f.tx[0])
		}
	})

	t.Run("BlockWrite", func(t *testing.T) {
		f := &countingTransport{}
		adc := NewADS1263(f)
		if err := adc.writeRegisters(RegOFCAL0, 3, []byte{0x01, 0x02, 0x03}); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(f.tx[0], []byte{0x47, 0x02, 0x01, 0x02, 0x03}) {
			t.Errorf("unexpected traffic % X", f.tx[0])
		}
		regs := adc.Registers()
		if regs[RegOFCAL0] != 0x01 || regs[RegOFCAL2] != 0x03 {
			t.Errorf("mirror not updated: %v", regs)
		}
	})

	t.Run("FrameLengthMismatch", func(t *testing.T) {
		f := &countingTransport{}
		adc := NewADS1263(f)
		err := adc.writeRegisters(RegOFCAL0, 3, []byte{0x01, 0x02})
		if !errors.Is(err, ErrFrameLength) {
			t.Fatalf("expected ErrFrameLength, got %v", err)
		}
		if f.transactions != 0 {
			t.Errorf("expected no bus activity, got %d transactions", f.transactions)
		}
		if adc.LastWrittenRegister(RegOFCAL0) != 0 {
			t.Error("mirror changed on rejected write")
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		f := &countingTransport{}
		adc := NewADS1263(f)
		if err := adc.writeRegister(Register(NumRegisters), 0x00); !errors.Is(err, ErrInvalidRegister) {
			t.Errorf("expected ErrInvalidRegister, got %v", err)
		}
		if err := adc.writeRegisters(RegADC2FSC0, 3, []byte{1, 2, 3}); !errors.Is(err, ErrInvalidRegister) {
			t.Errorf("expected ErrInvalidRegister, got %v", err)
		}
		if f.transactions != 0 {
			t.Errorf("expected no bus activity, got %d transactions", f.transactions)
		}
	})

	t.Run("UnknownCommand", func(t *testing.T) {
		f := &countingTransport{}
		adc := NewADS1263(f)
		if err := adc.sendCommand(0x99); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
		if err := adc.sendCommand(CMDRDATA1); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("RDATA1 is not a control command, got %v", err)
		}
		if f.transactions != 0 {
			t.Errorf("expected no bus activity, got %d transactions", f.transactions)
		}
	})
}

func TestRegisterNames(t *testing.T) {
	if RegADC2FSC1.String() != "ADC2FSC1" || RegREFMUX.String() != "REFMUX" {
		t.Error("register names out of order")
	}
	if Register(0x1B).String() != "(invalid register)" {
		t.Error("expected invalid register name")
	}
}

func TestSelectors(t *testing.T) {
	cases := []struct {
		sel  Selector
		adc  ADC
		want byte
	}{
		{SingleEnded(CH_AIN0), ADC1, 0x0A},
		{SingleEnded(CH_AIN9), ADC2, 0x9A},
		{SingleEnded(CH_AINCOM), ADC1, 0xAA},
		{Differential(CH_AIN7, CH_AIN6), ADC1, 0x76},
		{Differential(CH_AIN8, CH_AIN9), ADC2, 0x89},
	}
	for _, c := range cases {
		got, err := c.sel.Mux(c.adc)
		if err != nil {
			t.Errorf("%s on %s: %v", c.sel, c.adc, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s on %s: expected 0x%02X, got 0x%02X", c.sel, c.adc, c.want, got)
		}
	}

	t.Run("DifferentialIndex", func(t *testing.T) {
		sel, err := SelectorFor(DifferentialMode, 3)
		if err != nil {
			t.Fatal(err)
		}
		if sel != Differential(CH_AIN6, CH_AIN7) {
			t.Errorf("expected AIN6-AIN7, got %s", sel)
		}
	})
}

func TestConversionBudget(t *testing.T) {
	t.Run("SlowerRatesWaitLonger", func(t *testing.T) {
		var rates []DataRate
		for r := range rateCodes[ADC1] {
			rates = append(rates, r)
		}
		for _, a := range rates {
			for _, b := range rates {
				if a.SPS() < b.SPS() && ConversionBudget(ADC1, a, Delay0) < ConversionBudget(ADC1, b, Delay0) {
					t.Errorf("%s budget shorter than %s budget", a, b)
				}
			}
		}
	})

	t.Run("CoversConversionPeriod", func(t *testing.T) {
		for a, rates := range rateCodes {
			for r := range rates {
				period := float64(1e9) / r.SPS()
				if float64(ConversionBudget(a, r, Delay0)) < period {
					t.Errorf("%s %s: budget shorter than one conversion period", a, r)
				}
			}
		}
	})

	t.Run("DelayAdds", func(t *testing.T) {
		base := ConversionBudget(ADC1, Rate400SPS, Delay0)
		if got := ConversionBudget(ADC1, Rate400SPS, Delay8_8ms); got != base+Delay8_8ms.Duration() {
			t.Errorf("expected %s, got %s", base+Delay8_8ms.Duration(), got)
		}
	})

	t.Run("UnsupportedRateFallsBackToSlowest", func(t *testing.T) {
		if got := ConversionBudget(ADC2, Rate2_5SPS, Delay0); got != readyBudget[ADC2][Rate10SPS] {
			t.Errorf("expected slowest ADC2 budget, got %s", got)
		}
	})
}
