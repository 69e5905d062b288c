// Package testing provides a scriptable fake host framework shared by the
// hid core and driver tests.
package testing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Alia5/HIDRA/hid"
)

// FakeDevice implements hid.HostDevice with scriptable failures and call
// accounting. The zero value is usable; NewFakeDevice fills in identity.
type FakeDevice struct {
	DeviceName string
	ID         hid.DeviceID

	// Scripted failures. OutputErrs, when non-empty, is consumed one entry
	// per OutputReport call (nil entries mean success) and takes precedence
	// over OutputErr.
	ParseErr   error
	StartErr   error
	OpenErr    error
	OutputErr  error
	OutputErrs []error

	// Call accounting.
	ParseCalls    int
	StartCalls    int
	OpenCalls     int
	ActivateCalls int
	CloseCalls    int
	StopCalls     int
	OutputCalls   int

	StartMask   hid.ConnectMask
	LastTimeout time.Duration
	Sent        [][]byte

	// Ops journals host operations in invocation order.
	Ops []string

	ioActive bool
}

// NewFakeDevice returns a fake host device with the given display name and
// identity.
func NewFakeDevice(name string, id hid.DeviceID) *FakeDevice {
	return &FakeDevice{DeviceName: name, ID: id}
}

func (d *FakeDevice) ParseDescriptor() error {
	d.ParseCalls++
	d.Ops = append(d.Ops, "parse")
	return d.ParseErr
}

func (d *FakeDevice) StartHardware(mask hid.ConnectMask) error {
	d.StartCalls++
	d.StartMask = mask
	d.Ops = append(d.Ops, "start")
	return d.StartErr
}

func (d *FakeDevice) Open() error {
	d.OpenCalls++
	d.Ops = append(d.Ops, "open")
	return d.OpenErr
}

func (d *FakeDevice) ActivateIO() bool {
	d.ActivateCalls++
	d.Ops = append(d.Ops, "activate")
	already := d.ioActive
	d.ioActive = true
	return already
}

func (d *FakeDevice) Close() {
	d.CloseCalls++
	d.Ops = append(d.Ops, "close")
}

func (d *FakeDevice) Stop() {
	d.StopCalls++
	d.Ops = append(d.Ops, "stop")
}

func (d *FakeDevice) OutputReport(data []byte, timeout time.Duration) error {
	d.OutputCalls++
	d.LastTimeout = timeout
	d.Ops = append(d.Ops, "output")
	buf := make([]byte, len(data))
	copy(buf, data)
	d.Sent = append(d.Sent, buf)

	if len(d.OutputErrs) > 0 {
		err := d.OutputErrs[0]
		d.OutputErrs = d.OutputErrs[1:]
		return err
	}
	return d.OutputErr
}

func (d *FakeDevice) Identity() (uint16, uint16) { return d.ID.Vendor, d.ID.Product }
func (d *FakeDevice) Name() string               { return d.DeviceName }

// FakeHost implements hid.Framework. It performs identity-table matching
// the way the real host does, and lets tests drive the callback lifecycle
// via Plug, Emit and Unplug.
type FakeHost struct {
	mu      sync.Mutex
	regs    map[string]*hid.Callbacks
	plugged map[*FakeDevice]*hid.Callbacks
}

func NewFakeHost() *FakeHost {
	return &FakeHost{
		regs:    make(map[string]*hid.Callbacks),
		plugged: make(map[*FakeDevice]*hid.Callbacks),
	}
}

func (h *FakeHost) Register(cb *hid.Callbacks) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.regs[cb.Name]; ok {
		return fmt.Errorf("duplicate driver name %q", cb.Name)
	}
	if len(cb.IDs) == 0 || !cb.IDs[len(cb.IDs)-1].IsSentinel() {
		return errors.New("identity table not sentinel-terminated")
	}
	h.regs[cb.Name] = cb
	return nil
}

func (h *FakeHost) Unregister(cb *hid.Callbacks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.regs, cb.Name)
}

// Registered reports whether a driver with the given name is registered.
func (h *FakeHost) Registered(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.regs[name]
	return ok
}

// Plug matches the device against all registered identity tables and, on a
// match, invokes the driver's probe. It returns the probe status and whether
// any table matched.
func (h *FakeHost) Plug(dev *FakeDevice) (status int, matched bool) {
	h.mu.Lock()
	var cb *hid.Callbacks
	var raw hid.RawDeviceID
	for _, reg := range h.regs {
		for _, rec := range reg.IDs {
			if rec.Matches(dev.ID) {
				cb, raw = reg, rec
				break
			}
		}
		if cb != nil {
			break
		}
	}
	h.mu.Unlock()

	if cb == nil {
		return 0, false
	}
	status = cb.Probe(dev, &raw)
	if status == hid.StatusOK {
		h.mu.Lock()
		h.plugged[dev] = cb
		h.mu.Unlock()
	}
	return status, true
}

// Emit delivers one inbound report for a plugged device and returns the
// raw-event status. It panics if the device was never successfully plugged,
// mirroring the host guarantee that reports only follow a successful probe.
func (h *FakeHost) Emit(dev *FakeDevice, info hid.ReportInfo, data []byte) int {
	h.mu.Lock()
	cb := h.plugged[dev]
	h.mu.Unlock()
	if cb == nil {
		panic("testing: Emit on device that was never plugged")
	}
	return cb.RawEvent(dev, &info, data)
}

// Unplug invokes the driver's remove callback for a plugged device.
func (h *FakeHost) Unplug(dev *FakeDevice) {
	h.mu.Lock()
	cb := h.plugged[dev]
	delete(h.plugged, dev)
	h.mu.Unlock()
	if cb != nil {
		cb.Remove(dev)
	}
}
