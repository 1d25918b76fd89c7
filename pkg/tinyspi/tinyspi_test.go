package tinyspi

import (
	"bytes"
	"testing"
	"time"

	"github.com/yunginnanet/ads1263/pkg/ads1263"
)

type pin struct {
	high    bool
	history []bool
}

func (p *pin) Set(high bool) {
	p.high = high
	p.history = append(p.history, high)
}

func (p *pin) Get() bool { return p.high }

type spiBus struct {
	cs  *pin
	w   []byte
	r   []byte
	off int // transfers while CS was high
}

func (s *spiBus) Tx(w, r []byte) error {
	for i := range w {
		c, _ := s.Transfer(w[i])
		if r != nil {
			r[i] = c
		}
	}
	return nil
}

func (s *spiBus) Transfer(b byte) (byte, error) {
	if s.cs.high {
		s.off++
	}
	s.w = append(s.w, b)
	if len(s.r) == 0 {
		return 0, nil
	}
	c := s.r[0]
	s.r = s.r[1:]
	return c, nil
}

func TestTransport(t *testing.T) {
	cs, drdy, rst := &pin{}, &pin{high: true}, &pin{}
	spi := &spiBus{cs: cs, r: []byte{0x00, 0x00, 0x21}}
	var slept time.Duration
	d := New(spi, cs, drdy, rst)
	d.sleep = func(dur time.Duration) { slept += dur }

	adc := ads1263.NewADS1263(d)
	v, err := adc.ReadRegister(ads1263.RegID)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x21 || !bytes.Equal(spi.w, []byte{0x20, 0x00, 0x00}) {
		t.Errorf("got 0x%02X after % X", v, spi.w)
	}
	if spi.off != 0 || !cs.high {
		t.Error("traffic outside chip-select")
	}

	t.Run("WaitReady", func(t *testing.T) {
		slept = 0
		ok, _ := d.WaitReady(time.Millisecond)
		if ok {
			t.Error("expected timeout while DRDY is high")
		}
		if slept < time.Millisecond {
			t.Errorf("gave up after %s", slept)
		}
		drdy.high = false
		if ok, _ = d.WaitReady(time.Millisecond); !ok {
			t.Error("expected ready while DRDY is low")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		rst.history = nil
		if err := d.PulseReset(); err != nil {
			t.Fatal(err)
		}
		want := []bool{true, false, true}
		if len(rst.history) != len(want) {
			t.Fatalf("unexpected reset sequence %v", rst.history)
		}
		for i := range want {
			if rst.history[i] != want[i] {
				t.Fatalf("unexpected reset sequence %v", rst.history)
			}
		}
	})

	t.Run("Close", func(t *testing.T) {
		if err := d.Close(); err != nil {
			t.Fatal(err)
		}
		if rst.high || !cs.high {
			t.Error("expected RESET low and CS high")
		}
		if err := d.Close(); err == nil {
			t.Error("expected an error on second close")
		}
	})
}
