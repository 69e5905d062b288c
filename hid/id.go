// Package hid bridges HID device-class drivers and a callback-based host
// device framework. Drivers implement the Driver interface; an Adapter
// translates host probe/remove/report callbacks into Driver calls around a
// short-lived Device handle.
package hid

// BusKind identifies the transport a HID device is connected over, using the
// host framework's numeric bus identifiers.
type BusKind uint16

const (
	// BusUSB is a HID device connected via USB.
	BusUSB BusKind = 0x03
	// BusBluetooth is a HID device connected via Bluetooth.
	BusBluetooth BusKind = 0x05
)

func (b BusKind) String() string {
	switch b {
	case BusUSB:
		return "usb"
	case BusBluetooth:
		return "bluetooth"
	default:
		return "unknown"
	}
}

// DeviceID identifies one device model on one bus. Drivers author their
// identity tables as DeviceID lists; BuildIDTable converts them to the host's
// wire records.
type DeviceID struct {
	Bus     BusKind
	Vendor  uint16
	Product uint16
}

// RawDeviceID is the host framework's fixed-size identity record. Field
// widths and ordering are an ABI contract with the host and must not change.
// The zero value is the table-terminating sentinel.
type RawDeviceID struct {
	Bus        uint16
	Group      uint16
	Vendor     uint32
	Product    uint32
	DriverData uint64
}

// SentinelID terminates every identity table handed to the host.
var SentinelID = RawDeviceID{}

// IsSentinel reports whether the record is the end-of-table marker.
func (r RawDeviceID) IsSentinel() bool {
	return r == SentinelID
}

// DeviceID converts the host record back to the driver-facing form, for
// runtime dispatch on the matched identity.
func (r RawDeviceID) DeviceID() DeviceID {
	return DeviceID{
		Bus:     BusKind(r.Bus),
		Vendor:  uint16(r.Vendor),
		Product: uint16(r.Product),
	}
}

// Matches reports whether the record identifies the given device. The
// sentinel matches nothing.
func (r RawDeviceID) Matches(id DeviceID) bool {
	if r.IsSentinel() {
		return false
	}
	return BusKind(r.Bus) == id.Bus &&
		uint16(r.Vendor) == id.Vendor &&
		uint16(r.Product) == id.Product
}

// BuildIDTable converts an authored identity table into the host's record
// format, appending the terminating sentinel. For N entries the result has
// N+1 records. An empty table is a programming defect and panics; the host
// would treat a sentinel-only table as a driver that matches nothing.
func BuildIDTable(ids []DeviceID) []RawDeviceID {
	if len(ids) == 0 {
		panic("hid: empty identity table")
	}
	out := make([]RawDeviceID, 0, len(ids)+1)
	for _, id := range ids {
		out = append(out, RawDeviceID{
			Bus:     uint16(id.Bus),
			Vendor:  uint32(id.Vendor),
			Product: uint32(id.Product),
		})
	}
	return append(out, SentinelID)
}
