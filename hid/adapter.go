package hid

import (
	"fmt"
	"log/slog"
)

// Adapter bridges one Driver to a host Framework. It owns the one-time
// registration of the driver's identity table and callbacks, and translates
// each host callback into a Driver call around a short-lived Device handle,
// converting typed results into the host's raw status convention.
type Adapter struct {
	fw  Framework
	drv Driver
	log *slog.Logger

	cb         *Callbacks
	registered bool
}

// NewAdapter returns an adapter binding drv to fw. Register must be called
// before the driver can receive callbacks.
func NewAdapter(fw Framework, drv Driver, logger *slog.Logger) *Adapter {
	return &Adapter{fw: fw, drv: drv, log: logger.With("driver", drv.Name())}
}

// Register installs the driver's name, identity table and callback
// trampolines with the host. It may be called at most once per adapter;
// calling it twice is a caller defect and fails with ErrRegistration, as
// does rejection by the host (e.g. a duplicate driver name).
func (a *Adapter) Register() error {
	if a.registered {
		return fmt.Errorf("%w: %s already registered", ErrRegistration, a.drv.Name())
	}
	cb := &Callbacks{
		Name:     a.drv.Name(),
		IDs:      BuildIDTable(a.drv.IDTable()),
		Probe:    a.probe,
		Remove:   a.remove,
		RawEvent: a.rawEvent,
	}
	if err := a.fw.Register(cb); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRegistration, a.drv.Name(), err)
	}
	a.cb = cb
	a.registered = true
	a.log.Info("driver registered", "ids", len(cb.IDs)-1)
	return nil
}

// Unregister reverses a prior successful Register, exactly once. Calling it
// without a matching Register is logged and ignored.
func (a *Adapter) Unregister() {
	if !a.registered {
		a.log.Warn("unregister without prior register")
		return
	}
	a.fw.Unregister(a.cb)
	a.cb = nil
	a.registered = false
	a.log.Info("driver unregistered")
}

// probe is the host's probe trampoline. The Device handle it constructs is
// valid only for the dynamic extent of this call.
func (a *Adapter) probe(host HostDevice, raw *RawDeviceID) (status int) {
	defer a.recoverStatus("probe", &status)

	dev := NewDevice(host, a.log)
	if err := a.drv.Connect(dev, raw.DeviceID()); err != nil {
		a.log.Error("connect failed", "device", dev.Name(), "error", err)
		return StatusFromError(err)
	}
	return StatusOK
}

// remove is the host's remove trampoline. It has no status channel; faults
// are recovered and logged so teardown always completes on the host side.
func (a *Adapter) remove(host HostDevice) {
	var ignored int
	defer a.recoverStatus("remove", &ignored)

	a.drv.Disconnect(NewDevice(host, a.log))
}

// rawEvent is the host's report trampoline.
func (a *Adapter) rawEvent(host HostDevice, info *ReportInfo, data []byte) (status int) {
	defer a.recoverStatus("raw event", &status)

	dev := NewDevice(host, a.log)
	if err := a.drv.Report(dev, *info, data); err != nil {
		a.log.Error("report handling failed", "device", dev.Name(), "error", err)
		return StatusFromError(err)
	}
	return StatusOK
}

// recoverStatus converts a driver panic into a reported failure status.
// Internal faults must never propagate across the host boundary as
// undefined behavior.
func (a *Adapter) recoverStatus(op string, status *int) {
	if r := recover(); r != nil {
		a.log.Error("driver panic", "op", op, "panic", r)
		*status = statusIO
	}
}
