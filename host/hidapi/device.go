package hidapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gohid "github.com/sstallion/go-hid"

	"github.com/Alia5/HIDRA/hid"
)

// bring-up stages, advanced strictly in order. The host rejects out-of-order
// device operations instead of corrupting its own state.
type stage int

const (
	stageNew stage = iota
	stageParsed
	stageStarted
	stageOpened
)

// reportDescriptorSize is hidapi's upper bound for a report descriptor.
const reportDescriptorSize = 4096

// device implements hid.HostDevice over one opened hidapi handle. The host
// passes the same *device for every callback concerning the physical device,
// so drivers can key their per-device state on it.
type device struct {
	host *Host
	cb   *hid.Callbacks
	log  *slog.Logger
	info gohid.DeviceInfo

	mu       sync.Mutex
	handle   *gohid.Device
	stage    stage
	mask     hid.ConnectMask
	ioActive bool

	pumpCtx    context.Context
	pumpCancel context.CancelFunc
	pumpDone   chan struct{}
	probed     bool
	removed    bool
}

func newHostDevice(ctx context.Context, h *Host, cb *hid.Callbacks, handle *gohid.Device, info gohid.DeviceInfo) *device {
	pumpCtx, cancel := context.WithCancel(ctx)
	return &device{
		host:       h,
		cb:         cb,
		log:        h.log.With("device", info.Path),
		info:       info,
		handle:     handle,
		pumpCtx:    pumpCtx,
		pumpCancel: cancel,
	}
}

func (d *device) Name() string {
	if d.info.ProductStr != "" {
		return d.info.ProductStr
	}
	return d.info.Path
}

func (d *device) Identity() (uint16, uint16) {
	return d.info.VendorID, d.info.ProductID
}

func (d *device) ParseDescriptor() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != stageNew {
		return fmt.Errorf("parse descriptor out of order (stage %d)", d.stage)
	}
	if d.handle == nil {
		return errors.New("device handle closed")
	}

	buf := make([]byte, reportDescriptorSize)
	n, err := d.handle.GetReportDescriptor(buf)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("empty report descriptor")
	}
	d.stage = stageParsed
	d.log.Debug("report descriptor parsed", "len", n)
	return nil
}

func (d *device) StartHardware(mask hid.ConnectMask) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != stageParsed {
		return fmt.Errorf("start hardware out of order (stage %d)", d.stage)
	}
	// Userspace has no input-layer or hiddev subsystems to wire up; raw
	// report access is inherent to the hidapi handle. The mask is recorded
	// so diagnostics show what the driver asked for.
	d.mask = mask
	d.stage = stageStarted
	d.log.Debug("hardware started", "mask", mask.String())
	return nil
}

func (d *device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != stageStarted {
		return fmt.Errorf("open out of order (stage %d)", d.stage)
	}
	if d.handle == nil {
		return errors.New("device handle closed")
	}
	// The OS handle is held since probe; Open gates report I/O on it.
	d.stage = stageOpened
	return nil
}

func (d *device) ActivateIO() (alreadyActive bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stage != stageOpened {
		d.log.Warn("activate io before open; ignored")
		return false
	}
	if d.ioActive {
		return true
	}
	d.ioActive = true
	d.pumpDone = make(chan struct{})
	go d.pump(d.pumpDone)
	return false
}

func (d *device) Close() {
	d.stopPump()
	d.mu.Lock()
	if d.stage == stageOpened {
		d.stage = stageStarted
	}
	d.mu.Unlock()
}

func (d *device) Stop() {
	d.stopPump()
	d.mu.Lock()
	if d.handle != nil {
		_ = d.handle.Close()
		d.handle = nil
	}
	d.stage = stageNew
	d.mu.Unlock()
}

// OutputReport writes one outbound report. hidapi writes are bounded by the
// OS transport itself, so the per-attempt timeout is advisory here.
func (d *device) OutputReport(data []byte, timeout time.Duration) error {
	d.mu.Lock()
	handle := d.handle
	st := d.stage
	d.mu.Unlock()

	if handle == nil || st != stageOpened {
		return errors.New("output report before open")
	}
	_ = timeout

	if _, err := handle.Write(data); err != nil {
		return err
	}
	d.host.raw.Log(false, data)
	return nil
}

// pump reads input reports and delivers them to the driver. It is the only
// goroutine invoking RawEvent for this device, which provides the per-device
// serialization the hid package documents.
func (d *device) pump(done chan struct{}) {
	defer close(done)

	buf := make([]byte, 1024)
	for d.pumpCtx.Err() == nil {
		d.mu.Lock()
		handle := d.handle
		d.mu.Unlock()
		if handle == nil {
			return
		}

		n, err := handle.ReadWithTimeout(buf, d.host.cfg.ReadTimeout)
		if err != nil {
			if d.pumpCtx.Err() != nil {
				return
			}
			d.log.Warn("read failed, removing device", "error", err)
			go d.remove()
			return
		}
		if n <= 0 {
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		d.host.raw.Log(true, data)

		info := hid.ReportInfo{ID: data[0], Type: hid.ReportInput}
		if status := d.cb.RawEvent(d, &info, data); status != hid.StatusOK {
			d.log.Warn("driver rejected report", "report", info.ID, "status", status)
		}
	}
}

// stopPump cancels the pump and waits for it to exit. Safe to call from the
// pump goroutine itself: done is already closed by then.
func (d *device) stopPump() {
	d.pumpCancel()
	d.mu.Lock()
	done := d.pumpDone
	d.pumpDone = nil
	d.ioActive = false
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

// remove runs the driver's remove callback once, after the pump has stopped,
// then releases the handle and drops the device from the host. Used for both
// unplug-style read failures and host shutdown.
func (d *device) remove() {
	d.mu.Lock()
	if d.removed {
		d.mu.Unlock()
		return
	}
	d.removed = true
	probed := d.probed
	d.mu.Unlock()

	d.stopPump()
	if probed {
		d.cb.Remove(d)
	}
	d.shutdown()
	d.host.drop(d.info.Path)
}

func (d *device) markProbed() {
	d.mu.Lock()
	d.probed = true
	d.mu.Unlock()
}

// shutdown force-releases the OS handle without involving the driver. Used
// after a failed probe and as the final step of remove.
func (d *device) shutdown() {
	d.stopPump()
	d.mu.Lock()
	if d.handle != nil {
		_ = d.handle.Close()
		d.handle = nil
	}
	d.mu.Unlock()
}
