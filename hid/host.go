package hid

import "time"

// ReportType classifies an inbound or outbound report.
type ReportType int

const (
	ReportInput ReportType = iota
	ReportOutput
	ReportFeature
)

func (t ReportType) String() string {
	switch t {
	case ReportInput:
		return "input"
	case ReportOutput:
		return "output"
	case ReportFeature:
		return "feature"
	default:
		return "unknown"
	}
}

// ReportInfo is the host-supplied metadata accompanying each report event.
type ReportInfo struct {
	ID   byte
	Type ReportType
}

// HostDevice is the host framework's device object. The host owns the
// device's lifetime; implementations must be comparable (typically a
// pointer) and the host must pass the same value for every callback
// concerning one physical device, so drivers can key per-device state on it.
//
// Operation ordering is enforced by the host: the only valid bring-up
// sequence is ParseDescriptor, StartHardware, Open, ActivateIO.
// Implementations reject out-of-order calls rather than corrupt state.
type HostDevice interface {
	// ParseDescriptor asks the host to parse the device's report
	// descriptor. Must precede StartHardware.
	ParseDescriptor() error
	// StartHardware activates the host subsystems selected by the mask.
	StartHardware(mask ConnectMask) error
	// Open opens the transport for active communication. Must follow a
	// successful StartHardware.
	Open() error
	// ActivateIO marks the device ready to send and receive. It reports
	// whether I/O was already active; re-activation is harmless at the
	// host level but indicates a driver defect.
	ActivateIO() (alreadyActive bool)
	// Close closes the transport opened by Open. Best-effort.
	Close()
	// Stop releases the subsystems activated by StartHardware. Best-effort.
	Stop()
	// OutputReport sends one outbound report synchronously. The timeout is
	// the per-attempt upper bound the transport should honor; transports
	// without bounded writes may treat it as advisory.
	OutputReport(data []byte, timeout time.Duration) error
	// Identity returns the device's vendor and product ids.
	Identity() (vendor, product uint16)
	// Name returns a display name for diagnostics.
	Name() string
}

// Callbacks is the registration record a driver installs with the host
// framework. The host guarantees the three functions remain valid until a
// matching Unregister completes, and invokes them synchronously on its own
// threads. Probe and RawEvent return integer statuses: 0 for success,
// negative host codes for failure.
type Callbacks struct {
	Name     string
	IDs      []RawDeviceID
	Probe    func(dev HostDevice, id *RawDeviceID) int
	Remove   func(dev HostDevice)
	RawEvent func(dev HostDevice, info *ReportInfo, data []byte) int
}

// Framework is the host device framework's registration surface. It owns
// device objects, performs identity-table matching, and dispatches the
// registered callbacks.
//
// Per-device serialization contract: for a single device, Probe
// happens-before all RawEvent calls, RawEvent calls are never concurrent
// with each other or with Remove, and Remove happens-after all RawEvent
// calls. Different devices may be driven concurrently.
type Framework interface {
	Register(cb *Callbacks) error
	Unregister(cb *Callbacks)
}
