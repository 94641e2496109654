package device

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockSet() []*MockDevice {
	return []*MockDevice{
		NewMockDevice(DeviceInfo{
			Path:       "mock/0",
			VendorID:   0x046d,
			ProductID:  0xc52b,
			MfrStr:     "Logitech",
			ProductStr: "Unifying Receiver",
			SerialNbr:  "A1B2C3",
			UsagePage:  0x0001,
			Usage:      0x0006,
		}),
		NewMockDevice(DeviceInfo{
			Path:       "mock/1",
			VendorID:   0x046d,
			ProductID:  0xc077,
			MfrStr:     "Logitech",
			ProductStr: "M105 Мышь",
		}),
		NewMockDevice(DeviceInfo{
			Path:      "mock/2",
			VendorID:  0x1050,
			ProductID: 0x0407,
			MfrStr:    "Yubico",
			UsagePage: 0xf1d0,
			Usage:     0x0001,
		}),
	}
}

func TestHID_EnumerateAll(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	infos, err := hid.Enumerate(VendorIDAny, ProductIDAny)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	paths := lo.Map(infos, func(info *DeviceInfo, _ int) string {
		return info.Path
	})
	assert.ElementsMatch(t, []string{"mock/0", "mock/1", "mock/2"}, paths)
}

func TestHID_EnumerateFilter(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	tests := []struct {
		name      string
		vid, pid  uint16
		wantPaths []string
	}{
		{"vendor and product", 0x046d, 0xc52b, []string{"mock/0"}},
		{"vendor only", 0x046d, ProductIDAny, []string{"mock/0", "mock/1"}},
		{"product only", VendorIDAny, 0x0407, []string{"mock/2"}},
		{"no match", 0xdead, 0xbeef, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			infos, err := hid.Enumerate(tt.vid, tt.pid)
			require.NoError(t, err)

			paths := lo.Map(infos, func(info *DeviceInfo, _ int) string {
				return info.Path
			})
			assert.ElementsMatch(t, tt.wantPaths, paths)
		})
	}
}

func TestHID_EnumerateNarrowsStrings(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	infos, err := hid.Enumerate(0x046d, 0xc077)
	require.NoError(t, err)
	require.Len(t, infos, 1)

	assert.Equal(t, "M105 ????", infos[0].ProductStr)
	assert.Equal(t, "Logitech", infos[0].MfrStr)
}

func TestHID_OpenNotFound(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	_, err := hid.Open(0xdead, 0xbeef, "")
	require.ErrorIs(t, err, ErrDeviceNotFound)

	_, err = hid.OpenPath("mock/nope")
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestHID_OpenBySerial(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	dev, err := hid.Open(0x046d, 0xc52b, "A1B2C3")
	require.NoError(t, err)
	require.NoError(t, dev.Close())

	_, err = hid.Open(0x046d, 0xc52b, "WRONG")
	require.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestHID_OpenPath(t *testing.T) {
	hid, _ := newTestHID(t, mockSet()...)

	dev, err := hid.OpenPath("mock/2")
	require.NoError(t, err)
	assert.Equal(t, "mock/2", dev.Path)
	require.NoError(t, dev.Close())
}

func TestHID_InitFailure(t *testing.T) {
	backend := NewMockBackend()
	backend.InitErr = errors.New("no hidapi")

	_, err := NewWithBackend(backend)
	require.ErrorIs(t, err, ErrInitFailed)
}

func TestHID_CloseIdempotentAndFailsOperations(t *testing.T) {
	backend := NewMockBackend(mockSet()...)
	hid, err := NewWithBackend(backend)
	require.NoError(t, err)

	require.NoError(t, hid.Close())
	require.NoError(t, hid.Close())

	_, err = hid.Enumerate(VendorIDAny, ProductIDAny)
	require.ErrorIs(t, err, ErrClosed)

	_, err = hid.Open(0x046d, 0xc52b, "")
	require.ErrorIs(t, err, ErrClosed)

	_, err = hid.OpenPath("mock/0")
	require.ErrorIs(t, err, ErrClosed)
}

func TestHID_CloseReleasesOpenDevices(t *testing.T) {
	backend := NewMockBackend(mockSet()...)
	hid, err := NewWithBackend(backend)
	require.NoError(t, err)

	dev, err := hid.OpenPath("mock/0")
	require.NoError(t, err)

	require.NoError(t, hid.Close())

	// Teardown closed the handle; its operations now fail cleanly.
	_, err = dev.Write([]byte{0x01})
	require.ErrorIs(t, err, ErrDeviceClosed)
}

func TestHID_CloseRefusedWhilePendingRead(t *testing.T) {
	mock := mockSet()[0]
	backend := NewMockBackend(mock)
	hid, err := NewWithBackend(backend)
	require.NoError(t, err)

	dev, err := hid.OpenPath("mock/0")
	require.NoError(t, err)

	ch := dev.ReadAsync()
	require.ErrorIs(t, hid.Close(), ErrReadPending)

	mock.QueueInput([]byte{0x01})
	_, err = (<-ch).Get()
	require.NoError(t, err)

	require.NoError(t, hid.Close())
}

func TestHID_RefusedCloseLeavesSubsystemUsable(t *testing.T) {
	devices := mockSet()
	backend := NewMockBackend(devices...)
	hid, err := NewWithBackend(backend)
	require.NoError(t, err)

	dev, err := hid.OpenPath("mock/0")
	require.NoError(t, err)

	ch := dev.ReadAsync()
	require.ErrorIs(t, hid.Close(), ErrReadPending)

	// The refused teardown must not leave the context half closed.
	other, err := hid.OpenPath("mock/1")
	require.NoError(t, err)
	require.NoError(t, other.Close())

	devices[0].QueueInput([]byte{0x01})
	_, err = (<-ch).Get()
	require.NoError(t, err)

	require.NoError(t, hid.Close())

	_, err = hid.OpenPath("mock/1")
	require.ErrorIs(t, err, ErrClosed)
}
