package ft232h

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/yunginnanet/ft232h"
)

// ErrBadDescriptor is returned when a [Descriptor] names no index, serial or mask.
var ErrBadDescriptor = errors.New("invalid FT232H descriptor provided")

// DeviceInfo represents a snapshot of the device information for the [FT232H] device.
type DeviceInfo struct {
	Index       int
	Serial      string
	Description string
	ProductID   string
	VendorID    string
	IsOpen      bool
	IsHighSpeed bool
}

// String formats the info like "#0 FT232H (FT1ABC) 0403:6014 hi-speed".
func (ft DeviceInfo) String() string {
	speed := "full-speed"
	if ft.IsHighSpeed {
		speed = "hi-speed"
	}
	s := fmt.Sprintf("#%d %s (%s) %s:%s %s", ft.Index, ft.Description, ft.Serial, ft.VendorID, ft.ProductID, speed)
	if !ft.IsOpen {
		s += " closed"
	}
	return s
}

// FT232H is an opened FT232H bridge. Its SPI engine and ACBUS pins are driven by [Transport].
type FT232H struct {
	*ft232h.FT232H
	info DeviceInfo
}

// Info returns a fresh snapshot of the device information.
func (ft *FT232H) Info() DeviceInfo {
	vid, pid := ft.vidPid()
	return DeviceInfo{
		Index:       ft.Index(),
		Serial:      ft.Serial(),
		Description: ft.Desc(),
		ProductID:   pid,
		VendorID:    vid,
		IsOpen:      ft.IsOpen(),
		IsHighSpeed: ft.IsHiSpeed(),
	}
}

// String uses the info captured at connect time, so it stays valid after Close.
func (ft *FT232H) String() string {
	return fmt.Sprintf("FT232H[%s:%s]: %s", ft.info.VendorID, ft.info.ProductID, ft.info.Description)
}

// Close releases the MPSSE SPI engine.
func (ft *FT232H) Close() error {
	return ft.SPI.Close()
}

// Descriptor selects which attached FT232H to open: by index, by serial number, or by a raw mask.
type Descriptor struct {
	Index  int
	Serial string
	mask   *ft232h.Mask
}

// Validate checks if [Descriptor] is valid.
func (ftd Descriptor) Validate() error {
	if ftd.Index < 0 && ftd.Serial == "" && emptyMask(ftd.mask) {
		return ErrBadDescriptor
	}
	return nil
}

// Mask returns a pointer to the [ft232h.Mask] representation of the [Descriptor].
func (ftd Descriptor) Mask() *ft232h.Mask {
	if ftd.mask == nil {
		ftd.mask = new(ft232h.Mask)
	}
	if ftd.Serial != "" {
		ftd.mask.Serial = ftd.Serial
	}
	if ftd.Index >= 0 {
		ftd.mask.Index = strconv.Itoa(ftd.Index)
	}
	return ftd.mask
}

func (ftd Descriptor) String() string {
	return fmt.Sprintf("Descriptor{Index:%d, Serial:%s, mask:%v}", ftd.Index, ftd.Serial, ftd.mask)
}

// ByIndex returns a [Descriptor] with the specified index.
func ByIndex(index int) Descriptor {
	return Descriptor{Index: index}
}

// BySerial returns a [Descriptor] with the specified serial number.
func BySerial(serial string) Descriptor {
	return Descriptor{Serial: serial, Index: -1}
}

// ByMask returns a [Descriptor] with the specified mask.
func ByMask(mask *ft232h.Mask) Descriptor {
	return Descriptor{mask: mask, Index: -1}
}

// ConnectFT232h opens the first FT232H found, or the one matching choice.
func ConnectFT232h(choice ...Descriptor) (ft *FT232H, err error) {
	ft = &FT232H{}

	switch len(choice) {
	case 0:
		ft.FT232H, err = ft232h.New()
	case 1:
		if err = choice[0].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s", err, choice[0])
		}
		ft.FT232H, err = ft232h.OpenMask(choice[0].Mask())
	default:
		return nil, fmt.Errorf("expected at most one descriptor, got %d", len(choice))
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open FT232H %v: %w", choice, err)
	}

	ft.info = ft.Info()
	return ft, nil
}
