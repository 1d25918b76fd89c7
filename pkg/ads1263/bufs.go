package ads1263

import "sync"

// maxFrame is the longest conversion frame: STATUS, four data bytes, check byte.
const maxFrame = 6

var (
	frameBytes = &sync.Pool{New: func() interface{} { return make([]byte, maxFrame) }}
	oneByte    = &sync.Pool{New: func() interface{} { return make([]byte, 1) }}
)

func getFrame(n int) []byte {
	return frameBytes.Get().([]byte)[:n]
}

func putFrame(b []byte) {
	b = b[:maxFrame]
	clear(b)
	frameBytes.Put(b)
}

func get1Byte() []byte {
	return oneByte.Get().([]byte)
}

func put1Byte(b []byte) {
	b[0] = 0
	oneByte.Put(b)
}
