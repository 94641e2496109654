package sugar

import (
	"github.com/samber/lo"

	"github.com/masterakos/node-hid/pkg/device"
	"github.com/masterakos/node-hid/pkg/options"
)

// Devices enumerates attached HID devices with a short-lived subsystem
// context, so one-shot callers do not have to manage device.HID
// themselves. Zero IDs match any vendor or product.
func Devices(vid, pid uint16, opts ...options.Option) ([]*device.DeviceInfo, error) {
	hid, err := device.New(opts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = hid.Close()
	}()

	return hid.Enumerate(vid, pid)
}

// DevicesByUsage enumerates all attached HID devices and keeps those
// matching the given usage page and usage.
func DevicesByUsage(usagePage, usage uint16, opts ...options.Option) ([]*device.DeviceInfo, error) {
	infos, err := Devices(device.VendorIDAny, device.ProductIDAny, opts...)
	if err != nil {
		return nil, err
	}

	return lo.Filter(infos, func(info *device.DeviceInfo, _ int) bool {
		return info.UsagePage == usagePage && info.Usage == usage
	}), nil
}
