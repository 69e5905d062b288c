package hid

import (
	"fmt"
	"log/slog"
	"time"
)

// Device is a non-owning handle around a host device object, constructed by
// the adapter at the start of each callback and valid only until that
// callback returns. Drivers must not retain a Device (or the value returned
// by Host) in any field that outlives the call; per-device state should be
// keyed on Host() instead, which is stable for the device's lifetime.
type Device struct {
	host HostDevice
	log  *slog.Logger
}

// NewDevice wraps a host device object in a handle. The adapter calls this
// around every callback; it is exported for Framework implementations and
// tests that drive a Driver directly. The handle inherits the host object's
// validity window.
func NewDevice(host HostDevice, logger *slog.Logger) *Device {
	return &Device{host: host, log: logger}
}

// Host returns the underlying host device object, usable as a stable,
// comparable key for per-device driver state.
func (d *Device) Host() HostDevice {
	return d.host
}

// Name returns the device's display name for diagnostics.
func (d *Device) Name() string {
	return d.host.Name()
}

// Identity returns the device's vendor and product ids, for dispatch on
// sub-models within one driver.
func (d *Device) Identity() (vendor, product uint16) {
	return d.host.Identity()
}

// Parse asks the host to parse the device's report descriptor. It must be
// called before StartHardware.
func (d *Device) Parse() error {
	if err := d.host.ParseDescriptor(); err != nil {
		return fmt.Errorf("%s: parse descriptor: %w: %w", d.Name(), ErrDescriptor, err)
	}
	return nil
}

// StartHardware activates the host subsystems selected by the mask.
func (d *Device) StartHardware(mask ConnectMask) error {
	if err := d.host.StartHardware(mask); err != nil {
		return fmt.Errorf("%s: start hardware (%s): %w: %w", d.Name(), mask, ErrHardwareStart, err)
	}
	return nil
}

// Open opens the transport for active communication. It must follow a
// successful StartHardware.
func (d *Device) Open() error {
	if err := d.host.Open(); err != nil {
		return fmt.Errorf("%s: open: %w: %w", d.Name(), ErrOpen, err)
	}
	return nil
}

// ActivateIO marks the device ready to send and receive reports.
// Re-activation is harmless at the host level and never fails here, but it
// indicates a driver logic defect and is logged.
func (d *Device) ActivateIO() {
	if d.host.ActivateIO() {
		d.log.Warn("io already started", "device", d.Name())
	}
}

// Close closes the transport. Best-effort teardown; failures are the host's
// to log.
func (d *Device) Close() {
	d.host.Close()
}

// Stop releases the subsystems activated by StartHardware. Best-effort.
func (d *Device) Stop() {
	d.host.Stop()
}

// OutputReport sends one outbound report synchronously. The timeout bounds
// the single attempt; use SendSync for retries.
func (d *Device) OutputReport(data []byte, timeout time.Duration) error {
	if err := d.host.OutputReport(data, timeout); err != nil {
		return fmt.Errorf("%s: output report (%d bytes): %w: %w", d.Name(), len(data), ErrTransport, err)
	}
	return nil
}
