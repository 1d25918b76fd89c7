package ads1263

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport is matched by every failure reported by the Transport (bus, reset line, ready line).
	ErrTransport = errors.New("transport failure")
	// ErrTimeout indicates the converter did not signal ready within the rate-derived budget.
	ErrTimeout = errors.New("timed out waiting for conversion")
	// ErrChecksum indicates a conversion frame failed verification; the sample was discarded.
	ErrChecksum = errors.New("conversion frame failed verification")
	// ErrInvalidChannel is matched by [*InvalidChannelError].
	ErrInvalidChannel = errors.New("invalid channel")
	// ErrInvalidConfiguration indicates a gain, rate, filter or other setting the target ADC does not support.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrFrameLength indicates a block transfer whose payload does not match its declared count.
	ErrFrameLength = errors.New("frame length mismatch")
	// ErrInvalidRegister indicates a register address outside the register map.
	ErrInvalidRegister = errors.New("invalid register address")
	// ErrUnsupportedDevice indicates the ID register does not name a supported converter.
	ErrUnsupportedDevice = errors.New("unsupported device")
)

// InvalidChannelError reports a channel index beyond the target ADC's inputs.
// It is returned before any bus activity.
type InvalidChannelError struct {
	Requested uint8
	Max       uint8
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid channel: %d (max: %d)", e.Requested, e.Max)
}

func (e *InvalidChannelError) Is(target error) bool {
	return target == ErrInvalidChannel
}

// ChecksumError describes a conversion frame whose check byte did not verify.
type ChecksumError struct {
	ADC  ADC
	Mode CheckMode
	Want byte
	Got  byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("%s %s mismatch: computed 0x%02X, received 0x%02X", e.ADC, e.Mode, e.Want, e.Got)
}

func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}

// TransportError wraps a failure from the Transport with the operation that hit it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// FrameLengthError reports a block transfer whose payload length differs from its register count.
type FrameLengthError struct {
	Want int
	Got  int
}

func (e *FrameLengthError) Error() string {
	return fmt.Sprintf("frame length mismatch: count %d, payload %d bytes", e.Want, e.Got)
}

func (e *FrameLengthError) Is(target error) bool {
	return target == ErrFrameLength
}

// RegisterMismatchError lists registers whose hardware value differs from the driver's mirror.
type RegisterMismatchError struct {
	Mismatches []RegisterMismatch
}

// RegisterMismatch is one register that disagrees with the mirror.
type RegisterMismatch struct {
	Register Register
	Mirror   byte
	Hardware byte
}

func (e *RegisterMismatchError) Error() string {
	s := fmt.Sprintf("%d register(s) differ from mirror:", len(e.Mismatches))
	for _, m := range e.Mismatches {
		s += fmt.Sprintf(" %s(mirror 0x%02X, hw 0x%02X)", m.Register, m.Mirror, m.Hardware)
	}
	return s
}

func transportErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
