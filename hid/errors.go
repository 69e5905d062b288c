package hid

import "errors"

// Error kinds for device and registration operations. Callers match them
// with errors.Is; the concrete errors returned by Device methods wrap one of
// these sentinels together with the host's underlying failure.
var (
	// ErrDescriptor indicates a malformed or unparsable report descriptor.
	ErrDescriptor = errors.New("malformed report descriptor")
	// ErrHardwareStart indicates the host could not activate the requested
	// subsystems for the device.
	ErrHardwareStart = errors.New("hardware start failed")
	// ErrOpen indicates the transport could not be opened.
	ErrOpen = errors.New("transport open failed")
	// ErrTransport indicates a report send/receive failure.
	ErrTransport = errors.New("transport failure")
	// ErrRegistration indicates the host rejected driver registration, or
	// the adapter was registered twice.
	ErrRegistration = errors.New("driver registration failed")
	// ErrProtocol indicates the device violated the expected report
	// protocol (e.g. handshake never acknowledged).
	ErrProtocol = errors.New("protocol failure")
)

// Host status codes returned across the callback boundary. Zero is success;
// failures are negative, following the host framework's errno-style
// convention.
const (
	StatusOK = 0

	statusIO       = -5  // transport and unclassified failures
	statusExist    = -17 // duplicate registration
	statusNoDev    = -19 // hardware bring-up failure
	statusInval    = -22 // malformed descriptor
	statusProtocol = -71 // report protocol violation
)

// StatusFromError converts a typed result into the host's raw status
// convention. It is the single point where typed errors leave this layer;
// no error crosses the host boundary untyped.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrDescriptor):
		return statusInval
	case errors.Is(err, ErrHardwareStart):
		return statusNoDev
	case errors.Is(err, ErrRegistration):
		return statusExist
	case errors.Is(err, ErrProtocol):
		return statusProtocol
	default:
		// ErrOpen, ErrTransport and anything unclassified report as I/O.
		return statusIO
	}
}
