package hid_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/HIDRA/hid"
)

func TestDriverRegistry(t *testing.T) {
	tests := []struct {
		name         string
		registerName string
		lookupName   string
		shouldFind   bool
	}{
		{
			name:         "register and retrieve exact match",
			registerName: "testdriver",
			lookupName:   "testdriver",
			shouldFind:   true,
		},
		{
			name:         "case insensitive lookup",
			registerName: "TestDriver",
			lookupName:   "testdriver",
			shouldFind:   true,
		},
		{
			name:         "case insensitive lookup uppercase",
			registerName: "mydriver",
			lookupName:   "MYDRIVER",
			shouldFind:   true,
		},
		{
			name:         "lookup non-existent driver",
			registerName: "driver1",
			lookupName:   "driver2",
			shouldFind:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testRegName := tt.name + "_" + tt.registerName
			hid.RegisterDriverType(testRegName, func(logger *slog.Logger) hid.Driver {
				return newMockDriver(testRegName)
			})

			testLookupName := tt.name + "_" + tt.lookupName
			drv := hid.NewDriver(testLookupName, slog.Default())

			if tt.shouldFind {
				require.NotNil(t, drv, "expected to find registered driver")
				assert.Equal(t, testRegName, drv.Name())
			} else {
				assert.Nil(t, drv, "expected not to find driver")
			}
		})
	}
}

func TestListDriverTypes(t *testing.T) {
	hid.RegisterDriverType("ListedDriver", func(logger *slog.Logger) hid.Driver {
		return newMockDriver("ListedDriver")
	})
	assert.Contains(t, hid.ListDriverTypes(), "listeddriver", "names are stored lowercased")
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, hid.StatusOK, hid.StatusFromError(nil))
	assert.Negative(t, hid.StatusFromError(hid.ErrDescriptor))
	assert.Negative(t, hid.StatusFromError(hid.ErrHardwareStart))
	assert.Negative(t, hid.StatusFromError(hid.ErrOpen))
	assert.Negative(t, hid.StatusFromError(hid.ErrTransport))
	assert.Negative(t, hid.StatusFromError(hid.ErrRegistration))
	assert.Negative(t, hid.StatusFromError(hid.ErrProtocol))

	// Distinct kinds that the host distinguishes must map to distinct codes.
	assert.NotEqual(t, hid.StatusFromError(hid.ErrDescriptor), hid.StatusFromError(hid.ErrHardwareStart))
	assert.NotEqual(t, hid.StatusFromError(hid.ErrProtocol), hid.StatusFromError(hid.ErrTransport))
}
