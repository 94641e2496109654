//go:build hid_purego

package device

import (
	"io"

	ghid "github.com/go-ctap/hid"
)

// puregoBackend avoids cgo by using the native Go HID implementation.
// It supports enumeration and report I/O only; feature reports and
// nonblocking mode are not available on this backend.
type puregoBackend struct{}

func defaultBackend() Backend { return puregoBackend{} }

func (puregoBackend) Init() error { return nil }

func (puregoBackend) Exit() error { return nil }

func (puregoBackend) Enumerate(vid, pid uint16) ([]*DeviceInfo, error) {
	infos := make([]*DeviceInfo, 0)

	for info, err := range ghid.Enumerate() {
		if err != nil {
			return nil, err
		}

		di := &DeviceInfo{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			SerialNbr:    info.SerialNbr,
			ReleaseNbr:   info.ReleaseNbr,
			MfrStr:       info.MfrStr,
			ProductStr:   info.ProductStr,
			UsagePage:    info.UsagePage,
			Usage:        info.Usage,
			InterfaceNbr: info.InterfaceNbr,
		}
		if !di.matches(vid, pid) {
			continue
		}

		infos = append(infos, di)
	}

	return infos, nil
}

func (b puregoBackend) Open(vid, pid uint16, serial string) (ReportDevice, error) {
	infos, err := b.Enumerate(vid, pid)
	if err != nil {
		return nil, err
	}

	for _, info := range infos {
		if serial != "" && info.SerialNbr != serial {
			continue
		}
		return b.OpenPath(info.Path)
	}

	return nil, ErrDeviceNotFound
}

func (puregoBackend) OpenPath(path string) (ReportDevice, error) {
	dev, err := ghid.OpenPath(path)
	if err != nil {
		return nil, err
	}
	return &puregoDevice{dev: dev}, nil
}

// puregoDevice adapts the plain stream interface of the cgo-free HID
// implementation to ReportDevice.
type puregoDevice struct {
	dev io.ReadWriteCloser
}

func (d *puregoDevice) Read(b []byte) (int, error)  { return d.dev.Read(b) }
func (d *puregoDevice) Write(b []byte) (int, error) { return d.dev.Write(b) }
func (d *puregoDevice) Close() error                { return d.dev.Close() }

func (d *puregoDevice) GetFeatureReport(_ []byte) (int, error) {
	return 0, ErrNotSupported
}

func (d *puregoDevice) SendFeatureReport(_ []byte) (int, error) {
	return 0, ErrNotSupported
}

func (d *puregoDevice) SetNonblock(_ bool) error {
	return ErrNotSupported
}
