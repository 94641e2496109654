package device

import (
	"log/slog"
	"sync"

	"github.com/samber/mo"
)

// Device is one open HID session. It exclusively owns the underlying
// native resource until Close. A Device is safe for concurrent method
// calls, but only one in-flight read is meaningful at a time; a second
// read issued while one is pending fails with ErrReadPending.
type Device struct {
	// Path is the platform path the device was opened with, empty when
	// it was opened by vendor and product IDs.
	Path string

	owner  *HID
	logger *slog.Logger

	mu      sync.Mutex
	raw     ReportDevice // nil once closed
	pending bool
}

func newDevice(owner *HID, path string, raw ReportDevice) *Device {
	return &Device{
		Path:   path,
		owner:  owner,
		logger: owner.logger,
		raw:    raw,
	}
}

// Close releases the native resource. It is idempotent; the second and
// later calls are no-ops. Close refuses with ErrReadPending while an
// asynchronous read is outstanding: wait for its completion first.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raw == nil {
		return nil
	}
	if d.pending {
		return ErrReadPending
	}

	err := d.raw.Close()
	d.raw = nil
	d.owner.untrack(d)

	return err
}

// Write sends an output report. The first byte is the report ID for
// devices using numbered reports; framing is the caller's concern.
func (d *Device) Write(report []byte) (int, error) {
	if len(report) == 0 {
		return 0, newErrorMessage(ErrInvalidArgument, "empty report")
	}

	raw, err := d.acquire()
	if err != nil {
		return 0, err
	}

	n, err := raw.Write(report)
	if err != nil {
		return 0, newErrorMessage(ErrWriteFailed, err.Error())
	}

	return n, nil
}

// Read performs a direct read honoring the handle's blocking mode. It
// blocks the caller; use ReadAsync to keep the caller's goroutine free.
// The read pins the handle just like ReadAsync: Close refuses with
// ErrReadPending until it returns, and a second read issued meanwhile
// fails with ErrReadPending.
func (d *Device) Read(buf []byte) (int, error) {
	raw, err := d.beginRead()
	if err != nil {
		return 0, err
	}
	defer d.endRead()

	n, err := raw.Read(buf)
	if err != nil {
		return 0, newErrorMessage(ErrReadFailed, err.Error())
	}

	return n, nil
}

// ReadAsync schedules exactly one read of up to 1024 bytes on a
// background goroutine and returns a one-shot completion channel of
// capacity one. The completion carries either the bytes actually read
// (possibly zero in nonblocking mode) or an error wrapping
// ErrReadFailed, never both. The goroutine keeps the handle referenced
// until completion, and Close refuses while the read is pending. There
// is no cancellation; an issued read runs to completion.
func (d *Device) ReadAsync() <-chan mo.Result[[]byte] {
	ch := make(chan mo.Result[[]byte], 1)

	raw, err := d.beginRead()
	if err != nil {
		ch <- mo.Err[[]byte](err)
		return ch
	}

	go func() {
		buf := make([]byte, readBufferSize)
		n, err := raw.Read(buf)

		d.endRead()

		if err != nil {
			d.logger.Debug("async read failed", slog.Any("error", err))
			ch <- mo.Err[[]byte](newErrorMessage(ErrReadFailed, err.Error()))
			return
		}

		ch <- mo.Ok(buf[:n:n])
	}()

	return ch
}

// GetFeatureReport requests a feature report of at most length bytes,
// including the leading report-ID byte. The device may return fewer
// bytes than requested; exactly those are returned.
func (d *Device) GetFeatureReport(reportID byte, length int) ([]byte, error) {
	if length <= 0 {
		return nil, newErrorMessage(ErrInvalidArgument, "feature report length must be positive")
	}

	raw, err := d.acquire()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	buf[0] = reportID

	n, err := raw.GetFeatureReport(buf)
	if err != nil {
		return nil, newErrorMessage(ErrFeatureReportFailed, err.Error())
	}

	return buf[:n], nil
}

// SendFeatureReport sends a feature report; report[0] must be the
// target report ID. It returns the number of bytes written.
func (d *Device) SendFeatureReport(report []byte) (int, error) {
	if len(report) == 0 {
		return 0, newErrorMessage(ErrInvalidArgument, "empty feature report")
	}

	raw, err := d.acquire()
	if err != nil {
		return 0, err
	}

	n, err := raw.SendFeatureReport(report)
	if err != nil {
		return 0, newErrorMessage(ErrFeatureReportFailed, err.Error())
	}

	return n, nil
}

// SetNonblocking toggles blocking mode for subsequent reads.
func (d *Device) SetNonblocking(enabled bool) error {
	raw, err := d.acquire()
	if err != nil {
		return err
	}

	if err := raw.SetNonblock(enabled); err != nil {
		return newErrorMessage(ErrConfigurationFailed, err.Error())
	}

	return nil
}

func (d *Device) acquire() (ReportDevice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raw == nil {
		return nil, ErrDeviceClosed
	}
	return d.raw, nil
}

// beginRead marks a read in flight so Close refuses until endRead.
func (d *Device) beginRead() (ReportDevice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.raw == nil {
		return nil, ErrDeviceClosed
	}
	if d.pending {
		return nil, ErrReadPending
	}
	d.pending = true

	return d.raw, nil
}

func (d *Device) endRead() {
	d.mu.Lock()
	d.pending = false
	d.mu.Unlock()
}
