package nintendo

import "bytes"

// connState tracks where a controller is in its connection lifecycle.
// Failed is absorbing: once a controller fails, only removal ends it.
type connState int

const (
	stateInit connState = iota
	stateAwaitingAck
	stateActive
	stateFailed
)

func (s connState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateAwaitingAck:
		return "awaiting-ack"
	case stateActive:
		return "active"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// controller is the per-device context, created on connect and destroyed on
// disconnect. The host serializes all calls for one device, so no locking is
// needed here; the struct must only ever be reached through its own device's
// callbacks.
type controller struct {
	state   connState
	vendor  uint16
	product uint16

	// Release guards: disconnect only closes/stops what was actually
	// acquired during bring-up.
	hwStarted bool
	hwOpened  bool

	// Non-matching reports seen while awaiting the handshake ack.
	unexpected int
}

// isHandshakeAck reports whether an inbound report carries the handshake
// acknowledgement signature in its leading bytes.
func isHandshakeAck(data []byte) bool {
	return len(data) >= len(handshakeAck) && bytes.Equal(data[:len(handshakeAck)], handshakeAck)
}
