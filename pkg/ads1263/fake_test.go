package ads1263

import (
	"time"
)

// countingTransport records bus traffic and replays scripted MISO bytes.
type countingTransport struct {
	transactions int
	waits        int
	budgets      []time.Duration
	ready        bool
	waitErr      error
	delayed      time.Duration
	delays       []int // transaction count at each Delay call

	tx [][]byte // bytes written, one slice per transaction
	rx [][]byte // bytes to shift out, one slice per transaction
}

type countingBus struct {
	t  *countingTransport
	rx []byte
}

func (b *countingBus) WriteByte(c byte) error {
	last := len(b.t.tx) - 1
	b.t.tx[last] = append(b.t.tx[last], c)
	return nil
}

func (b *countingBus) ReadByte() (byte, error) {
	if len(b.rx) == 0 {
		return 0, nil
	}
	c := b.rx[0]
	b.rx = b.rx[1:]
	return c, nil
}

func (f *countingTransport) Transaction(fn func(Bus) error) error {
	f.transactions++
	f.tx = append(f.tx, nil)
	b := &countingBus{t: f}
	if len(f.rx) > 0 {
		b.rx, f.rx = f.rx[0], f.rx[1:]
	}
	return fn(b)
}

func (f *countingTransport) WaitReady(timeout time.Duration) (bool, error) {
	f.waits++
	f.budgets = append(f.budgets, timeout)
	return f.ready, f.waitErr
}

func (f *countingTransport) PulseReset() error { return nil }

func (f *countingTransport) Delay(d time.Duration) {
	f.delayed += d
	f.delays = append(f.delays, len(f.tx))
}

// opcodeIndex returns the first transaction whose opcode is op, or -1.
func (f *countingTransport) opcodeIndex(op byte) int {
	for i, tx := range f.tx {
		if len(tx) > 0 && tx[0] == op {
			return i
		}
	}
	return -1
}

func (f *countingTransport) Close() error { return nil }
