package hid

import "time"

// SendSync delivers one outbound report, retrying transient transport
// failures. It attempts OutputReport up to maxTries times (at least once),
// returns nil on the first success and otherwise the last observed error
// after the final attempt. The timeout bounds each individual attempt at the
// transport; no sleeps are inserted between attempts.
//
// The caller's buffer is copied once up front, since the host transport may
// scribble on the bytes it is handed.
func SendSync(dev *Device, data []byte, timeout time.Duration, maxTries int) error {
	if maxTries < 1 {
		maxTries = 1
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	var err error
	for try := 1; try <= maxTries; try++ {
		if err = dev.OutputReport(buf, timeout); err == nil {
			return nil
		}
	}
	return err
}
