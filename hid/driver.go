package hid

import (
	"log/slog"
	"strings"
	"sync"
)

// Driver is the contract a concrete device-class driver implements. The
// adapter drives it from host callbacks; see Framework for the per-device
// ordering and serialization guarantees a Driver may rely on.
type Driver interface {
	// Name returns the driver's stable identifying name.
	Name() string
	// IDTable returns the non-empty identity table this driver matches.
	IDTable() []DeviceID
	// Connect is called exactly once per device instance, when the host
	// first associates the device with this driver. It must not assume any
	// other call has occurred for the device.
	Connect(dev *Device, id DeviceID) error
	// Disconnect is called exactly once, when the device is removed or the
	// driver is unloaded for it. Best-effort cleanup only; there is no
	// error channel.
	Disconnect(dev *Device)
	// Report is called once per inbound report, strictly after a
	// successful Connect and strictly before Disconnect, never
	// concurrently with another call for the same device.
	Report(dev *Device, info ReportInfo, data []byte) error
}

// DriverFactory constructs a driver instance with the given logger.
type DriverFactory func(logger *slog.Logger) Driver

var (
	driverRegistry   = make(map[string]DriverFactory)
	driverRegistryMu sync.RWMutex
)

// RegisterDriverType registers a driver type for creation by name.
// This should be called from driver package init() functions.
// The name is case-insensitive and will be lowercased.
func RegisterDriverType(name string, f DriverFactory) {
	driverRegistryMu.Lock()
	defer driverRegistryMu.Unlock()
	driverRegistry[strings.ToLower(name)] = f
}

// NewDriver creates a driver instance of a registered type. Returns nil if
// the type is unknown. Name lookup is case-insensitive.
func NewDriver(name string, logger *slog.Logger) Driver {
	driverRegistryMu.RLock()
	f := driverRegistry[strings.ToLower(name)]
	driverRegistryMu.RUnlock()
	if f == nil {
		return nil
	}
	return f(logger)
}

// ListDriverTypes returns the names of all registered driver types.
func ListDriverTypes() []string {
	driverRegistryMu.RLock()
	defer driverRegistryMu.RUnlock()
	types := make([]string, 0, len(driverRegistry))
	for name := range driverRegistry {
		types = append(types, name)
	}
	return types
}
