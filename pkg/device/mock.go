package device

import (
	"errors"
	"sync"

	"github.com/samber/lo"
)

// MockBackend is an in-memory Backend over a fixed device set. It backs
// the package tests and lets embedders exercise device logic without
// hardware attached.
type MockBackend struct {
	// InitErr and ExitErr force subsystem lifecycle failures.
	InitErr error
	ExitErr error

	mu      sync.Mutex
	devices []*MockDevice
}

func NewMockBackend(devices ...*MockDevice) *MockBackend {
	return &MockBackend{devices: devices}
}

func (b *MockBackend) Init() error { return b.InitErr }

func (b *MockBackend) Exit() error { return b.ExitErr }

func (b *MockBackend) Enumerate(vid, pid uint16) ([]*DeviceInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	matching := lo.Filter(b.devices, func(dev *MockDevice, _ int) bool {
		return dev.Info.matches(vid, pid)
	})

	return lo.Map(matching, func(dev *MockDevice, _ int) *DeviceInfo {
		info := dev.Info
		return &info
	}), nil
}

func (b *MockBackend) Open(vid, pid uint16, serial string) (ReportDevice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, dev := range b.devices {
		if !dev.Info.matches(vid, pid) {
			continue
		}
		if serial != "" && dev.Info.SerialNbr != serial {
			continue
		}
		return dev, nil
	}

	return nil, errors.New("no matching device attached")
}

func (b *MockBackend) OpenPath(path string) (ReportDevice, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, dev := range b.devices {
		if dev.Info.Path == path {
			return dev, nil
		}
	}

	return nil, errors.New("no device at path")
}

// MockDevice simulates one attached HID device. Input reports are fed
// through QueueInput or echoed back from Write when Echo is set. Reads
// block until a report is available unless nonblocking mode is on.
type MockDevice struct {
	Info DeviceInfo

	// Echo loops every written report back as an input report.
	Echo bool

	// Error injection for the corresponding operations.
	ReadErr     error
	WriteErr    error
	FeatureErr  error
	NonblockErr error

	mu       sync.Mutex
	nonblock bool
	features map[byte][]byte
	input    chan []byte
}

func NewMockDevice(info DeviceInfo) *MockDevice {
	return &MockDevice{
		Info:     info,
		features: make(map[byte][]byte),
		input:    make(chan []byte, 16),
	}
}

// QueueInput makes report available to a subsequent read.
func (m *MockDevice) QueueInput(report []byte) {
	m.input <- append([]byte(nil), report...)
}

// SetFeature seeds the feature report returned for its report ID;
// report[0] must be the ID.
func (m *MockDevice) SetFeature(report []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.features[report[0]] = append([]byte(nil), report...)
}

func (m *MockDevice) Read(b []byte) (int, error) {
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}

	m.mu.Lock()
	nonblock := m.nonblock
	m.mu.Unlock()

	if nonblock {
		select {
		case report := <-m.input:
			return copy(b, report), nil
		default:
			return 0, nil
		}
	}

	return copy(b, <-m.input), nil
}

func (m *MockDevice) Write(b []byte) (int, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}

	if m.Echo {
		m.input <- append([]byte(nil), b...)
	}

	return len(b), nil
}

func (m *MockDevice) Close() error { return nil }

func (m *MockDevice) GetFeatureReport(b []byte) (int, error) {
	if m.FeatureErr != nil {
		return 0, m.FeatureErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	report, ok := m.features[b[0]]
	if !ok {
		return 0, errors.New("no feature report with that ID")
	}

	return copy(b, report), nil
}

func (m *MockDevice) SendFeatureReport(b []byte) (int, error) {
	if m.FeatureErr != nil {
		return 0, m.FeatureErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.features[b[0]] = append([]byte(nil), b...)

	return len(b), nil
}

func (m *MockDevice) SetNonblock(nonblocking bool) error {
	if m.NonblockErr != nil {
		return m.NonblockErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nonblock = nonblocking

	return nil
}
