package device

import (
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/masterakos/node-hid/pkg/options"
)

// HID is the process-scoped handle to the native HID subsystem. Create
// one at program start with New, pass it to every device-access call
// site and release it with Close. Besides the subsystem lifecycle it
// only tracks which handles are still open, so teardown can release
// them; descriptors stay independent of any handle.
type HID struct {
	logger  *slog.Logger
	backend Backend

	mu      sync.Mutex
	closed  bool
	devices map[*Device]struct{}
}

// New initializes the native HID subsystem and returns a context for
// device access. Initialization failure is returned as ErrInitFailed;
// no resource is held in that case.
func New(opts ...options.Option) (*HID, error) {
	oo := options.NewOptions(opts...)

	backend := defaultBackend()
	if oo.UseNamedPipe {
		backend = newRemoteBackend(oo)
	}

	return NewWithBackend(backend, opts...)
}

// NewWithBackend is like New but uses the supplied Backend. Useful for
// embedders and tests that run against MockBackend.
func NewWithBackend(backend Backend, opts ...options.Option) (*HID, error) {
	oo := options.NewOptions(opts...)

	if err := backend.Init(); err != nil {
		return nil, newErrorMessage(ErrInitFailed, err.Error())
	}

	return &HID{
		logger:  oo.Logger,
		backend: backend,
		devices: make(map[*Device]struct{}),
	}, nil
}

// Close releases all devices still open through this context, then
// tears the native subsystem down. It is idempotent. A device with an
// asynchronous read outstanding makes Close fail with ErrReadPending
// and leaves the subsystem up; wait for the completion and retry.
func (h *HID) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	// Mark closed before releasing the lock, so no new handle can be
	// opened while teardown is releasing the existing ones.
	h.closed = true
	open := make([]*Device, 0, len(h.devices))
	for d := range h.devices {
		open = append(open, d)
	}
	h.mu.Unlock()

	for _, d := range open {
		if err := d.Close(); err != nil {
			h.mu.Lock()
			h.closed = false
			h.mu.Unlock()
			return err
		}
	}

	return h.backend.Exit()
}

// Enumerate returns a snapshot of all attached HID devices, filtered by
// vendor and product IDs when non-zero. Order is whatever the platform
// yields. Descriptor strings are narrowed to one byte per character,
// substituting '?' for anything that does not fit.
func (h *HID) Enumerate(vid, pid uint16) ([]*DeviceInfo, error) {
	if err := h.alive(); err != nil {
		return nil, err
	}

	infos, err := h.backend.Enumerate(vid, pid)
	if err != nil {
		return nil, err
	}

	// The filter is enforced here as well, so a permissive backend can
	// not leak descriptors past it.
	infos = lo.Filter(infos, func(info *DeviceInfo, _ int) bool {
		return info.matches(vid, pid)
	})

	return lo.Map(infos, func(info *DeviceInfo, _ int) *DeviceInfo {
		return info.narrowed()
	}), nil
}

// Open opens the first attached device matching the vendor and product
// IDs and, when non-empty, the serial number. It fails atomically with
// ErrDeviceNotFound when nothing matches or the platform open fails.
func (h *HID) Open(vid, pid uint16, serial string) (*Device, error) {
	if err := h.alive(); err != nil {
		return nil, err
	}

	raw, err := h.backend.Open(vid, pid, serial)
	if err != nil {
		return nil, newErrorMessage(ErrDeviceNotFound, err.Error())
	}

	h.logger.Debug("opened device",
		slog.Any("vendorID", vid),
		slog.Any("productID", pid),
	)

	return h.track(newDevice(h, "", raw)), nil
}

// OpenPath opens the device at an exact platform path. It fails with
// ErrDeviceNotFound when the open fails.
func (h *HID) OpenPath(path string) (*Device, error) {
	if err := h.alive(); err != nil {
		return nil, err
	}

	raw, err := h.backend.OpenPath(path)
	if err != nil {
		return nil, newErrorMessage(ErrDeviceNotFound, err.Error())
	}

	h.logger.Debug("opened device", slog.String("path", path))

	return h.track(newDevice(h, path, raw)), nil
}

func (h *HID) track(d *Device) *Device {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.devices[d] = struct{}{}
	return d
}

func (h *HID) untrack(d *Device) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.devices, d)
}

func (h *HID) alive() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	return nil
}
