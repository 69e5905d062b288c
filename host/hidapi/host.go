// Package hidapi implements the hid.Framework port on top of the userspace
// hidapi library. It owns device enumeration, identity-table matching and
// callback dispatch, so drivers written against the hid package can run
// without a kernel-side host.
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
	"github.com/Alia5/HIDRA/internal/log"
)

// Config holds the host's tunables, loadable via kong.
type Config struct {
	PollInterval time.Duration `help:"Device scan interval" default:"1s" env:"HIDRA_POLL_INTERVAL"`
	ReadTimeout  time.Duration `help:"Per-read timeout for the report pump" default:"250ms" env:"HIDRA_READ_TIMEOUT"`
}

// Host is a userspace host device framework. It matches enumerated HID
// devices against registered driver identity tables and drives the driver
// callbacks with the per-device serialization the hid package documents:
// one pump goroutine per device delivers all of its report events, and
// remove only runs once that pump has stopped.
type Host struct {
	cfg Config
	log *slog.Logger
	raw log.RawLogger

	mu      sync.Mutex
	drivers map[string]*hid.Callbacks
	open    map[string]*device // keyed by platform path
}

// New returns a host using the given configuration.
func New(cfg Config, logger *slog.Logger, rawLogger log.RawLogger) *Host {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 250 * time.Millisecond
	}
	return &Host{
		cfg:     cfg,
		log:     logger.With("component", "hidapi-host"),
		raw:     rawLogger,
		drivers: make(map[string]*hid.Callbacks),
		open:    make(map[string]*device),
	}
}

// Register implements hid.Framework. Duplicate driver names are rejected.
func (h *Host) Register(cb *hid.Callbacks) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.drivers[cb.Name]; ok {
		return fmt.Errorf("driver %q already registered", cb.Name)
	}
	if len(cb.IDs) == 0 || !cb.IDs[len(cb.IDs)-1].IsSentinel() {
		return errors.New("identity table not sentinel-terminated")
	}
	h.drivers[cb.Name] = cb
	return nil
}

// Unregister implements hid.Framework.
func (h *Host) Unregister(cb *hid.Callbacks) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.drivers, cb.Name)
}

// Run scans for matching devices until the context is canceled, probing new
// matches and removing devices on shutdown. It returns nil on a clean
// shutdown.
func (h *Host) Run(ctx context.Context) error {
	if err := gohid.Init(); err != nil {
		return fmt.Errorf("hidapi init: %w", err)
	}
	defer func() { _ = gohid.Exit() }()

	ticker := time.NewTicker(h.cfg.PollInterval)
	defer ticker.Stop()

	for {
		h.scan(ctx)
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil
		case <-ticker.C:
		}
	}
}

// busKind maps hidapi bus types to host bus identifiers. Unmappable buses
// return false and are skipped during matching.
func busKind(t gohid.BusType) (hid.BusKind, bool) {
	switch t {
	case gohid.BusUSB:
		return hid.BusUSB, true
	case gohid.BusBluetooth:
		return hid.BusBluetooth, true
	default:
		return 0, false
	}
}

// scan enumerates all HID devices and probes new ones whose identity matches
// a registered driver's table.
func (h *Host) scan(ctx context.Context) {
	err := gohid.Enumerate(gohid.VendorIDAny, gohid.ProductIDAny, func(info *gohid.DeviceInfo) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		h.mu.Lock()
		_, already := h.open[info.Path]
		h.mu.Unlock()
		if already {
			return nil
		}

		bus, ok := busKind(info.BusType)
		if !ok {
			return nil
		}
		id := hid.DeviceID{Bus: bus, Vendor: info.VendorID, Product: info.ProductID}

		cb, raw := h.match(id)
		if cb == nil {
			return nil
		}
		h.probe(ctx, cb, raw, *info)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		h.log.Warn("device enumeration failed", "error", err)
	}
}

// match finds the first registered driver whose table claims the identity.
func (h *Host) match(id hid.DeviceID) (*hid.Callbacks, hid.RawDeviceID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, cb := range h.drivers {
		for _, rec := range cb.IDs {
			if rec.Matches(id) {
				return cb, rec
			}
		}
	}
	return nil, hid.RawDeviceID{}
}

// probe opens the device and hands it to the matched driver. A failed probe
// releases the OS handle but keeps the path on the open list, so rescans do
// not storm the device with further probes; the entry clears on shutdown.
func (h *Host) probe(ctx context.Context, cb *hid.Callbacks, raw hid.RawDeviceID, info gohid.DeviceInfo) {
	handle, err := gohid.OpenPath(info.Path)
	if err != nil {
		h.log.Warn("open failed", "path", info.Path, "error", err)
		return
	}

	dev := newHostDevice(ctx, h, cb, handle, info)
	h.mu.Lock()
	h.open[info.Path] = dev
	h.mu.Unlock()

	h.log.Info("probing device", "driver", cb.Name, "device", dev.Name(),
		"vendor", fmt.Sprintf("%04x", info.VendorID), "product", fmt.Sprintf("%04x", info.ProductID))

	if status := cb.Probe(dev, &raw); status != hid.StatusOK {
		h.log.Warn("probe rejected device", "driver", cb.Name, "device", dev.Name(), "status", status)
		dev.shutdown()
		return
	}
	dev.markProbed()
}

// drop removes a device from the open list. Called by the device itself once
// its pump has stopped and its handle is closed.
func (h *Host) drop(path string) {
	h.mu.Lock()
	delete(h.open, path)
	h.mu.Unlock()
}

// closeAll removes every open device: the pump is stopped first, then the
// driver's remove callback runs, then the handle is released.
func (h *Host) closeAll() {
	h.mu.Lock()
	devs := make([]*device, 0, len(h.open))
	for _, d := range h.open {
		devs = append(devs, d)
	}
	h.mu.Unlock()

	for _, d := range devs {
		d.remove()
	}
}
