package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Alia5/HIDRA/hid"
	"github.com/Alia5/HIDRA/host/hidapi"
	"github.com/Alia5/HIDRA/internal/log"
)

// Attach runs a registered driver on the userspace host until interrupted.
type Attach struct {
	Driver     string        `arg:"" optional:"" default:"nintendo" help:"Driver type to attach"`
	HostConfig hidapi.Config `embed:"" prefix:"host."`
}

// Run is called by kong when the attach command is executed.
func (a *Attach) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Start(ctx, logger, rawLogger)
}

// Start registers the driver with a fresh host and runs the host's scan
// loop until the context is canceled.
func (a *Attach) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	drv := hid.NewDriver(a.Driver, logger)
	if drv == nil {
		return fmt.Errorf("unknown driver %q (available: %s)",
			a.Driver, strings.Join(hid.ListDriverTypes(), ", "))
	}

	host := hidapi.New(a.HostConfig, logger, rawLogger)
	adapter := hid.NewAdapter(host, drv, logger)
	if err := adapter.Register(); err != nil {
		return err
	}
	defer adapter.Unregister()

	logger.Info("scanning for devices", "driver", drv.Name(), "interval", a.HostConfig.PollInterval)
	return host.Run(ctx)
}
