package ads1263

// crc8Table is the CRC-8 table for x^8 + x^2 + x + 1 (0x07).
var crc8Table = func() (t [256]byte) {
	for i := range t {
		crc := byte(i)
		for bit := 0; bit < 8; bit++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x07
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}()

// CRC8 computes the CRC-8 (polynomial 0x07, initial value 0x00, no reflection) of data.
// For conversion frames data is the data bytes only; the RDATA opcode is not covered.
func CRC8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc = crc8Table[crc^b]
	}
	return crc
}

// checksumSeed is added to the byte sum so an all-zero frame does not produce a zero check byte.
const checksumSeed = 0x9B

// Checksum computes the simple checksum mode: the sum of data modulo 256, plus 0x9B.
func Checksum(data []byte) byte {
	sum := byte(checksumSeed)
	for _, b := range data {
		sum += b
	}
	return sum
}

// CheckByte computes the check byte of data under mode. CheckOff always yields 0.
// The device excludes the opcode and STATUS byte, so data is the conversion data alone.
func CheckByte(mode CheckMode, data []byte) byte {
	switch mode {
	case CheckCRC:
		return CRC8(data)
	case CheckChecksum:
		return Checksum(data)
	default:
		return 0
	}
}

// Verify reports whether received is the check byte of frame under mode. CheckOff always verifies.
func Verify(mode CheckMode, frame []byte, received byte) bool {
	if mode == CheckOff {
		return true
	}
	return CheckByte(mode, frame) == received
}

// verifyFrame checks a conversion frame and returns a [*ChecksumError] on mismatch.
// Retrying is the caller's choice.
func verifyFrame(a ADC, mode CheckMode, frame []byte, received byte) error {
	if Verify(mode, frame, received) {
		return nil
	}
	return &ChecksumError{ADC: a, Mode: mode, Want: CheckByte(mode, frame), Got: received}
}
