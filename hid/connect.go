package hid

import "strings"

// ConnectMask selects which host subsystems are enabled for a device when
// its hardware is started. Flags are single pre-shifted bits; combine them
// with Compose or plain bitwise OR.
type ConnectMask uint32

const (
	// ConnectHIDInput routes reports to the host's generic input layer.
	ConnectHIDInput ConnectMask = 1 << 0
	// ConnectHIDInputForce forces input-layer connection even when the
	// host would normally skip it.
	ConnectHIDInputForce ConnectMask = 1 << 1
	// ConnectHIDRaw exposes raw report I/O to the driver.
	ConnectHIDRaw ConnectMask = 1 << 2
	// ConnectHIDDev exposes the host's hiddev-style interface.
	ConnectHIDDev ConnectMask = 1 << 3
	// ConnectHIDDevForce forces the hiddev interface.
	ConnectHIDDevForce ConnectMask = 1 << 4
	// ConnectFF enables force-feedback handling.
	ConnectFF ConnectMask = 1 << 5
	// ConnectDriver indicates the driver manages the connection itself.
	ConnectDriver ConnectMask = 1 << 6
)

// allConnectFlags lists every defined flag in bit order, for decoding.
var allConnectFlags = []ConnectMask{
	ConnectHIDInput,
	ConnectHIDInputForce,
	ConnectHIDRaw,
	ConnectHIDDev,
	ConnectHIDDevForce,
	ConnectFF,
	ConnectDriver,
}

var connectFlagNames = map[ConnectMask]string{
	ConnectHIDInput:      "hidinput",
	ConnectHIDInputForce: "hidinput-force",
	ConnectHIDRaw:        "hidraw",
	ConnectHIDDev:        "hiddev",
	ConnectHIDDevForce:   "hiddev-force",
	ConnectFF:            "ff",
	ConnectDriver:        "driver",
}

// Compose combines flags into a single mask. It is pure and
// order-independent; composing no flags yields the empty mask, a valid but
// inert request.
func Compose(flags ...ConnectMask) ConnectMask {
	var m ConnectMask
	for _, f := range flags {
		m |= f
	}
	return m
}

// Has reports whether every bit of flag is set in the mask.
func (m ConnectMask) Has(flag ConnectMask) bool {
	return m&flag == flag
}

// Flags decodes the mask back into the individual defined flags that are
// set, in bit order. Composing the result reproduces the mask as long as
// only defined bits were set.
func (m ConnectMask) Flags() []ConnectMask {
	var out []ConnectMask
	for _, f := range allConnectFlags {
		if m.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

func (m ConnectMask) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, f := range m.Flags() {
		parts = append(parts, connectFlagNames[f])
	}
	return strings.Join(parts, "|")
}
