//go:build !hid_purego

package device

import (
	"github.com/sstallion/go-hid"
)

// hidapiBackend is the default Backend, implemented on top of hidapi.
type hidapiBackend struct{}

func defaultBackend() Backend { return hidapiBackend{} }

func (hidapiBackend) Init() error { return hid.Init() }

func (hidapiBackend) Exit() error { return hid.Exit() }

func (hidapiBackend) Enumerate(vid, pid uint16) ([]*DeviceInfo, error) {
	infos := make([]*DeviceInfo, 0)

	if err := hid.Enumerate(vid, pid, func(info *hid.DeviceInfo) error {
		infos = append(infos, &DeviceInfo{
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
		})
		return nil
	}); err != nil {
		return nil, err
	}

	return infos, nil
}

func (hidapiBackend) Open(vid, pid uint16, serial string) (ReportDevice, error) {
	return hid.Open(vid, pid, serial)
}

func (hidapiBackend) OpenPath(path string) (ReportDevice, error) {
	return hid.OpenPath(path)
}
