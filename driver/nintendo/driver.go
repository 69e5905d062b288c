// Package nintendo provides a Nintendo Switch controller driver. It walks a
// controller through descriptor parse, hardware start, transport open and
// I/O activation, then runs the USB handshake before entering active report
// exchange.
package nintendo

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Alia5/HIDRA/hid"
)

func init() {
	hid.RegisterDriverType("nintendo", func(logger *slog.Logger) hid.Driver {
		return New(logger)
	})
}

// Driver implements hid.Driver for the Switch controller family.
type Driver struct {
	log *slog.Logger

	// controllers maps each host device object to its connection context.
	// The map is locked because different devices may connect or disconnect
	// concurrently; the per-device context itself is only touched from that
	// device's serialized callbacks and needs no lock.
	mu          sync.Mutex
	controllers map[hid.HostDevice]*controller
}

// New returns a Switch controller driver.
func New(logger *slog.Logger) *Driver {
	return &Driver{
		log:         logger.With("driver", "nintendo"),
		controllers: make(map[hid.HostDevice]*controller),
	}
}

func (d *Driver) Name() string { return "nintendo" }

func (d *Driver) IDTable() []hid.DeviceID {
	return []hid.DeviceID{
		{Bus: hid.BusUSB, Vendor: VendorNintendo, Product: ProductProController},
		{Bus: hid.BusBluetooth, Vendor: VendorNintendo, Product: ProductProController},
		{Bus: hid.BusUSB, Vendor: VendorNintendo, Product: ProductChargingGrip},
		{Bus: hid.BusBluetooth, Vendor: VendorNintendo, Product: ProductJoyConLeft},
		{Bus: hid.BusBluetooth, Vendor: VendorNintendo, Product: ProductJoyConRight},
	}
}

// model names a product id for diagnostics.
func model(product uint16) string {
	switch product {
	case ProductProController:
		return "pro-controller"
	case ProductChargingGrip:
		return "joycon-charging-grip"
	case ProductJoyConLeft:
		return "joycon-left"
	case ProductJoyConRight:
		return "joycon-right"
	default:
		return "unknown"
	}
}

// Connect brings the controller online: parse, start hardware with raw
// report access, open, activate I/O, then initiate the handshake. The first
// bring-up failure aborts the attempt; anything acquired up to that point is
// released here, since the host will not call Disconnect for a failed probe.
func (d *Driver) Connect(dev *hid.Device, id hid.DeviceID) error {
	vendor, product := dev.Identity()
	ctl := &controller{state: stateInit, vendor: vendor, product: product}

	d.log.Info("connect", "device", dev.Name(), "bus", id.Bus, "model", model(product))

	if err := d.bringUp(dev, ctl); err != nil {
		ctl.state = stateFailed
		d.release(dev, ctl)
		return err
	}

	if err := hid.SendSync(dev, handshakeRequest, sendTimeout, sendTries); err != nil {
		ctl.state = stateFailed
		d.release(dev, ctl)
		return fmt.Errorf("handshake send: %w", err)
	}
	ctl.state = stateAwaitingAck

	d.mu.Lock()
	d.controllers[dev.Host()] = ctl
	d.mu.Unlock()

	d.log.Info("handshake sent", "device", dev.Name())
	return nil
}

// bringUp performs the hardware bring-up sequence in the only valid order.
// Bring-up failures are fatal for the connect attempt; retrying a
// mis-sequenced bring-up risks inconsistent host state.
func (d *Driver) bringUp(dev *hid.Device, ctl *controller) error {
	if err := dev.Parse(); err != nil {
		return err
	}
	if err := dev.StartHardware(hid.ConnectHIDRaw); err != nil {
		return err
	}
	ctl.hwStarted = true
	if err := dev.Open(); err != nil {
		return err
	}
	ctl.hwOpened = true
	dev.ActivateIO()
	return nil
}

// release closes and stops the hardware, guarded by what bring-up actually
// acquired for this controller.
func (d *Driver) release(dev *hid.Device, ctl *controller) {
	if ctl.hwOpened {
		dev.Close()
		ctl.hwOpened = false
	}
	if ctl.hwStarted {
		dev.Stop()
		ctl.hwStarted = false
	}
}

// Disconnect is the single authoritative release point for a controller's
// resources. It is valid from any state and never fails.
func (d *Driver) Disconnect(dev *hid.Device) {
	d.mu.Lock()
	ctl := d.controllers[dev.Host()]
	delete(d.controllers, dev.Host())
	d.mu.Unlock()

	if ctl == nil {
		d.log.Warn("disconnect for unknown device", "device", dev.Name())
		return
	}
	d.release(dev, ctl)
	d.log.Info("disconnect", "device", dev.Name(), "state", ctl.state.String())
}

// Report advances the controller's connection state machine on each inbound
// report. Reports for unknown or failed controllers are logged and ignored;
// they must never surface as fatal at the host boundary.
func (d *Driver) Report(dev *hid.Device, info hid.ReportInfo, data []byte) error {
	d.mu.Lock()
	ctl := d.controllers[dev.Host()]
	d.mu.Unlock()

	if ctl == nil {
		d.log.Debug("report before connect completed", "device", dev.Name(), "report", info.ID)
		return nil
	}

	switch ctl.state {
	case stateAwaitingAck:
		if isHandshakeAck(data) {
			ctl.state = stateActive
			d.log.Info("handshake acknowledged", "device", dev.Name())
			return nil
		}
		ctl.unexpected++
		if ctl.unexpected >= maxUnexpectedReports {
			ctl.state = stateFailed
			return fmt.Errorf("%s: no handshake ack after %d reports: %w", dev.Name(), ctl.unexpected, hid.ErrProtocol)
		}
		d.log.Debug("unrelated report while awaiting handshake ack",
			"device", dev.Name(), "report", info.ID, "seen", ctl.unexpected)
		return nil

	case stateActive:
		return d.handleReport(dev, ctl, info, data)

	case stateFailed:
		d.log.Debug("report on failed device", "device", dev.Name(), "report", info.ID)
		return nil

	default:
		d.log.Debug("report in unexpected state", "device", dev.Name(), "state", ctl.state.String())
		return nil
	}
}

// handleReport dispatches application-level reports for an active
// controller. Full button/IMU decoding lives above this driver; here we only
// account for the traffic.
func (d *Driver) handleReport(dev *hid.Device, ctl *controller, info hid.ReportInfo, data []byte) error {
	d.log.Debug("report", "device", dev.Name(), "model", model(ctl.product), "report", info.ID, "len", len(data))
	return nil
}
