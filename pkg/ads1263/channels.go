package ads1263

import "fmt"

// Channel is an analog input index as encoded in the multiplexer nibbles.
type Channel uint8

//goland:noinspection GoSnakeCaseUsage
const (
	CH_AIN0 Channel = iota
	CH_AIN1
	CH_AIN2
	CH_AIN3
	CH_AIN4
	CH_AIN5
	CH_AIN6
	CH_AIN7
	CH_AIN8
	CH_AIN9
	CH_AINCOM
	CH_TEMP
	CH_AVDD
	CH_DVDD
	CH_TDAC
	CH_FLOAT
)

func (c Channel) Byte() byte {
	return byte(c)
}

func (c Channel) String() string {
	switch {
	case c <= CH_AIN9:
		return fmt.Sprintf("AIN%d", c)
	case c == CH_AINCOM:
		return "AINCOM"
	case c == CH_TEMP:
		return "TEMP"
	case c == CH_AVDD:
		return "AVDD"
	case c == CH_DVDD:
		return "DVDD"
	case c == CH_TDAC:
		return "TDAC"
	case c == CH_FLOAT:
		return "FLOAT"
	default:
		return "(invalid channel)"
	}
}

// Selector picks the multiplexer inputs for one conversion.
type Selector interface {
	// Mux validates the selection against the target ADC and returns the mux register byte.
	Mux(a ADC) (byte, error)
	String() string
}

// SingleEnded measures one input against AINCOM.
type SingleEnded Channel

// Mux implements [Selector].
func (s SingleEnded) Mux(a ADC) (byte, error) {
	limit := a.MaxChannel()
	if Channel(s) > limit {
		return 0, &InvalidChannelError{Requested: uint8(s), Max: uint8(limit)}
	}
	return byte(s)<<4 | CH_AINCOM.Byte(), nil
}

func (s SingleEnded) String() string {
	return Channel(s).String() + "-" + CH_AINCOM.String()
}

// ChannelPair is a differential selection of positive and negative inputs.
type ChannelPair struct {
	Pos Channel
	Neg Channel
}

// Differential returns the pair (pos, neg).
func Differential(pos, neg Channel) ChannelPair {
	return ChannelPair{Pos: pos, Neg: neg}
}

// Mux implements [Selector].
func (p ChannelPair) Mux(a ADC) (byte, error) {
	limit := a.MaxChannel()
	if p.Pos > limit {
		return 0, &InvalidChannelError{Requested: uint8(p.Pos), Max: uint8(limit)}
	}
	if p.Neg > limit {
		return 0, &InvalidChannelError{Requested: uint8(p.Neg), Max: uint8(limit)}
	}
	return p.Pos.Byte()<<4 | p.Neg.Byte()&0x0F, nil
}

func (p ChannelPair) String() string {
	return p.Pos.String() + "-" + p.Neg.String()
}

// maxDifferentialIndex is the highest pair index in differential input mode: (AIN8, AIN9).
const maxDifferentialIndex = 4

// SelectorFor interprets a bare channel index according to mode, as GetChannelValue does.
func SelectorFor(mode InputMode, ch uint8) (Selector, error) {
	if mode == DifferentialMode {
		if ch > maxDifferentialIndex {
			return nil, &InvalidChannelError{Requested: ch, Max: maxDifferentialIndex}
		}
		return Differential(Channel(2*ch), Channel(2*ch+1)), nil
	}
	return SingleEnded(ch), nil
}
