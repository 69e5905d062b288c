package nintendo

import "time"

// Nintendo's USB vendor id and the Switch controller product ids this
// driver matches.
const (
	VendorNintendo uint16 = 0x057e

	ProductProController uint16 = 0x2009
	ProductChargingGrip  uint16 = 0x200e
	ProductJoyConLeft    uint16 = 0x2006
	ProductJoyConRight   uint16 = 0x2007
)

// USB handshake exchange. The controller answers an 0x80/0x02 output report
// with an 0x81/0x02 input report once it is ready for active communication.
const (
	reportIDUSBCommand byte = 0x80
	reportIDUSBReply   byte = 0x81

	usbCommandHandshake byte = 0x02
)

var handshakeRequest = []byte{reportIDUSBCommand, usbCommandHandshake}
var handshakeAck = []byte{reportIDUSBReply, usbCommandHandshake}

const (
	// sendTimeout bounds each output-report attempt at the transport.
	sendTimeout = time.Second
	// sendTries is the attempt bound for reliable sends.
	sendTries = 2
	// maxUnexpectedReports is how many non-matching reports the driver
	// tolerates while awaiting the handshake acknowledgement before giving
	// up on the device.
	maxUnexpectedReports = 8
)
