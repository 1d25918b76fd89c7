package ft232h

import (
	"fmt"

	"github.com/yunginnanet/ft232h"
)

// usbID formats the low 16 bits of a USB vendor or product id the way lsusb prints them.
func usbID[T ~uint16 | ~uint32 | ~uint64 | ~int](id T) string {
	return fmt.Sprintf("%04x", uint64(id)&0xFFFF)
}

func (ft *FT232H) vidPid() (vid string, pid string) {
	return usbID(ft.VID()), usbID(ft.PID())
}

func emptyMask(mask *ft232h.Mask) bool {
	if mask == nil {
		return true
	}
	return mask.Serial == "" && mask.PID == "" && mask.VID == "" && mask.Desc == "" && mask.Index == ""
}
