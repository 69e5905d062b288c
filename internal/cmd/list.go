package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	gohid "github.com/sstallion/go-hid"
	"golang.org/x/term"

	"github.com/Alia5/HIDRA/hid"
)

// List prints the HID devices visible to the userspace host, marking those
// a registered driver would claim.
type List struct {
	All bool `help:"Include devices no registered driver matches" default:"true" negatable:""`
}

// Run is called by kong when the list command is executed.
func (l *List) Run(logger *slog.Logger) error {
	if err := gohid.Init(); err != nil {
		return fmt.Errorf("hidapi init: %w", err)
	}
	defer func() { _ = gohid.Exit() }()

	tables := driverTables(logger)

	type row struct {
		id     hid.DeviceID
		name   string
		driver string
	}
	var rows []row
	seen := make(map[string]bool)

	err := gohid.Enumerate(gohid.VendorIDAny, gohid.ProductIDAny, func(info *gohid.DeviceInfo) error {
		if seen[info.Path] {
			return nil
		}
		seen[info.Path] = true

		var bus hid.BusKind
		switch info.BusType {
		case gohid.BusUSB:
			bus = hid.BusUSB
		case gohid.BusBluetooth:
			bus = hid.BusBluetooth
		default:
			return nil
		}

		id := hid.DeviceID{Bus: bus, Vendor: info.VendorID, Product: info.ProductID}
		driver := matchDriver(tables, id)
		if driver == "" && !l.All {
			return nil
		}
		name := info.ProductStr
		if name == "" {
			name = info.Path
		}
		rows = append(rows, row{id: id, name: name, driver: driver})
		return nil
	})
	if err != nil {
		return fmt.Errorf("enumerate: %w", err)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].id.Vendor != rows[j].id.Vendor {
			return rows[i].id.Vendor < rows[j].id.Vendor
		}
		return rows[i].id.Product < rows[j].id.Product
	})

	// Aligned output only when a human is watching; plain tab-separated
	// lines otherwise so the output stays scriptable.
	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	for _, r := range rows {
		driver := r.driver
		if driver == "" {
			driver = "-"
		}
		if pretty {
			fmt.Printf("%-9s  %04x:%04x  %-10s  %s\n", r.id.Bus, r.id.Vendor, r.id.Product, driver, r.name)
		} else {
			fmt.Printf("%s\t%04x:%04x\t%s\t%s\n", r.id.Bus, r.id.Vendor, r.id.Product, driver, r.name)
		}
	}
	return nil
}

// driverTables instantiates every registered driver type and collects its
// identity table, keyed by driver name.
func driverTables(logger *slog.Logger) map[string][]hid.DeviceID {
	tables := make(map[string][]hid.DeviceID)
	for _, name := range hid.ListDriverTypes() {
		if drv := hid.NewDriver(name, logger); drv != nil {
			tables[drv.Name()] = drv.IDTable()
		}
	}
	return tables
}

func matchDriver(tables map[string][]hid.DeviceID, id hid.DeviceID) string {
	var names []string
	for name, ids := range tables {
		for _, entry := range ids {
			if entry == id {
				names = append(names, name)
				break
			}
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
