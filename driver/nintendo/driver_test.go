package nintendo_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/HIDRA/driver/nintendo"
	"github.com/Alia5/HIDRA/hid"
	th "github.com/Alia5/HIDRA/internal/testing"
)

var (
	procon    = hid.DeviceID{Bus: hid.BusUSB, Vendor: 0x057e, Product: 0x2009}
	handshake = []byte{0x80, 0x02}
	ack       = []byte{0x81, 0x02}
)

var errLink = errors.New("link down")

func inputReport(id byte, data ...byte) (hid.ReportInfo, []byte) {
	return hid.ReportInfo{ID: id, Type: hid.ReportInput}, append([]byte{id}, data...)
}

func newConnected(t *testing.T) (*nintendo.Driver, *th.FakeDevice) {
	t.Helper()
	drv := nintendo.New(slog.Default())
	dev := th.NewFakeDevice("procon0", procon)
	require.NoError(t, drv.Connect(hid.NewDevice(dev, slog.Default()), procon))
	return drv, dev
}

func TestConnectSuccess(t *testing.T) {
	_, dev := newConnected(t)

	assert.Equal(t, []string{"parse", "start", "open", "activate", "output"}, dev.Ops,
		"bring-up must run in order and end with the handshake send")
	assert.Equal(t, hid.ConnectHIDRaw, dev.StartMask, "driver needs raw report access")
	require.Len(t, dev.Sent, 1)
	assert.Equal(t, handshake, dev.Sent[0])
}

func TestConnectBringUpFailures(t *testing.T) {
	tests := []struct {
		name    string
		prep    func(*th.FakeDevice)
		wantErr error
		// Ops expected including any guarded release calls.
		wantOps []string
	}{
		{
			name:    "descriptor parse fails",
			prep:    func(d *th.FakeDevice) { d.ParseErr = errLink },
			wantErr: hid.ErrDescriptor,
			wantOps: []string{"parse"},
		},
		{
			name:    "hardware start fails",
			prep:    func(d *th.FakeDevice) { d.StartErr = errLink },
			wantErr: hid.ErrHardwareStart,
			wantOps: []string{"parse", "start"},
		},
		{
			name:    "open fails releases started hardware",
			prep:    func(d *th.FakeDevice) { d.OpenErr = errLink },
			wantErr: hid.ErrOpen,
			wantOps: []string{"parse", "start", "open", "stop"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drv := nintendo.New(slog.Default())
			dev := th.NewFakeDevice("procon0", procon)
			tt.prep(dev)

			err := drv.Connect(hid.NewDevice(dev, slog.Default()), procon)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantOps, dev.Ops)
			assert.Empty(t, dev.Sent, "no handshake after a bring-up failure")
		})
	}
}

func TestConnectPersistentSendFailure(t *testing.T) {
	drv := nintendo.New(slog.Default())
	dev := th.NewFakeDevice("procon0", procon)
	dev.OutputErr = errLink

	err := drv.Connect(hid.NewDevice(dev, slog.Default()), procon)
	require.Error(t, err)
	assert.ErrorIs(t, err, hid.ErrTransport)
	assert.Equal(t, 2, dev.OutputCalls, "reliable send is bounded to two attempts")
	assert.Equal(t, 1, dev.CloseCalls, "acquired transport must be released")
	assert.Equal(t, 1, dev.StopCalls, "started hardware must be released")
}

func TestHandshakeAck(t *testing.T) {
	drv, dev := newConnected(t)
	handle := hid.NewDevice(dev, slog.Default())

	// Unrelated reports before the ack are tolerated.
	info, data := inputReport(0x30, 0x00, 0x00)
	require.NoError(t, drv.Report(handle, info, data))

	require.NoError(t, drv.Report(handle, hid.ReportInfo{ID: 0x81, Type: hid.ReportInput}, ack))

	// Once active, a flood of arbitrary reports stays healthy; the machine
	// never regresses to the handshake phase.
	for i := 0; i < 100; i++ {
		info, data := inputReport(0x30, byte(i))
		assert.NoError(t, drv.Report(handle, info, data))
	}
	info, data = inputReport(0x81, 0x02)
	assert.NoError(t, drv.Report(handle, info, data), "an ack-shaped report while active is just traffic")
}

func TestHandshakeAckBound(t *testing.T) {
	drv, dev := newConnected(t)
	handle := hid.NewDevice(dev, slog.Default())

	info, data := inputReport(0x3f)
	var err error
	reports := 0
	for reports < 64 {
		reports++
		if err = drv.Report(handle, info, data); err != nil {
			break
		}
	}

	require.Error(t, err, "the non-matching report bound must trip")
	assert.ErrorIs(t, err, hid.ErrProtocol)
	assert.Equal(t, 8, reports, "bound is eight non-matching reports")

	// The failure is absorbing; even a real ack is ignored now, without
	// surfacing an error at the boundary.
	assert.NoError(t, drv.Report(handle, hid.ReportInfo{ID: 0x81, Type: hid.ReportInput}, ack))
	info, data = inputReport(0x3f)
	assert.NoError(t, drv.Report(handle, info, data))
}

func TestReportBeforeConnect(t *testing.T) {
	drv := nintendo.New(slog.Default())
	dev := th.NewFakeDevice("procon0", procon)

	info, data := inputReport(0x30)
	assert.NoError(t, drv.Report(hid.NewDevice(dev, slog.Default()), info, data),
		"reports for unknown devices are diagnostics, never boundary failures")
}

func TestDisconnectReleasesHardware(t *testing.T) {
	drv, dev := newConnected(t)
	handle := hid.NewDevice(dev, slog.Default())

	drv.Disconnect(handle)
	assert.Equal(t, 1, dev.CloseCalls)
	assert.Equal(t, 1, dev.StopCalls)

	// Disconnect destroyed the per-device context; later reports are
	// treated as unknown-device traffic.
	info, data := inputReport(0x30)
	assert.NoError(t, drv.Report(handle, info, data))
}

func TestDisconnectUnknownDevice(t *testing.T) {
	drv := nintendo.New(slog.Default())
	dev := th.NewFakeDevice("procon0", procon)

	assert.NotPanics(t, func() { drv.Disconnect(hid.NewDevice(dev, slog.Default())) })
	assert.Zero(t, dev.CloseCalls)
	assert.Zero(t, dev.StopCalls)
}

func TestIDTable(t *testing.T) {
	drv := nintendo.New(slog.Default())
	table := hid.BuildIDTable(drv.IDTable())

	require.Len(t, table, len(drv.IDTable())+1)
	assert.True(t, table[len(table)-1].IsSentinel())
	assert.True(t, table[0].Matches(procon), "USB pro controller must be matched")
}

func TestFullLifecycleThroughAdapter(t *testing.T) {
	host := th.NewFakeHost()
	drv := nintendo.New(slog.Default())
	a := hid.NewAdapter(host, drv, slog.Default())
	require.NoError(t, a.Register())
	defer a.Unregister()

	dev := th.NewFakeDevice("procon0", procon)
	status, matched := host.Plug(dev)
	require.True(t, matched)
	require.Equal(t, hid.StatusOK, status)
	require.Len(t, dev.Sent, 1, "probe must have sent the handshake")

	assert.Equal(t, hid.StatusOK, host.Emit(dev, hid.ReportInfo{ID: 0x81, Type: hid.ReportInput}, ack))

	info, data := inputReport(0x30, 0x01, 0x02)
	assert.Equal(t, hid.StatusOK, host.Emit(dev, info, data))

	host.Unplug(dev)
	assert.Equal(t, 1, dev.CloseCalls)
	assert.Equal(t, 1, dev.StopCalls)
}

func TestProbeFailureStatusThroughAdapter(t *testing.T) {
	host := th.NewFakeHost()
	a := hid.NewAdapter(host, nintendo.New(slog.Default()), slog.Default())
	require.NoError(t, a.Register())
	defer a.Unregister()

	dev := th.NewFakeDevice("procon0", procon)
	dev.StartErr = errLink

	status, matched := host.Plug(dev)
	require.True(t, matched)
	assert.Negative(t, status, "bring-up failure must report a negative host status")
	assert.Empty(t, dev.Sent)
}
