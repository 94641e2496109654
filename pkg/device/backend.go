package device

import "io"

// Backend abstracts the native HID layer so the core does not depend on
// a particular transport. The default backend is hidapi; alternatives
// are the cgo-free backend, the hidproxy remote backend and MockBackend.
type Backend interface {
	// Init prepares the native subsystem. It is called exactly once per
	// HID context, before any other method.
	Init() error

	// Exit tears the native subsystem down. Called exactly once, after
	// which no other method may be called.
	Exit() error

	// Enumerate returns a snapshot of attached devices, optionally
	// filtered by non-zero vendor and product IDs. Order is unspecified.
	Enumerate(vid, pid uint16) ([]*DeviceInfo, error)

	// Open opens the first device matching vendor and product IDs and,
	// when non-empty, the serial number.
	Open(vid, pid uint16, serial string) (ReportDevice, error)

	// OpenPath opens the device at an exact platform path.
	OpenPath(path string) (ReportDevice, error)
}

// ReportDevice is one open native HID session. Read honors the blocking
// mode set through SetNonblock. The first byte of a written report or a
// feature report is the report ID for devices using numbered reports.
type ReportDevice interface {
	io.ReadWriteCloser

	GetFeatureReport(b []byte) (int, error)
	SendFeatureReport(b []byte) (int, error)
	SetNonblock(nonblocking bool) error
}
