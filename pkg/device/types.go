package device

// Wildcard IDs for Enumerate; zero matches any vendor or product.
const (
	VendorIDAny  uint16 = 0
	ProductIDAny uint16 = 0
)

// readBufferSize is the fixed upper bound for a single asynchronous read.
const readBufferSize = 1024

// DeviceInfo is an immutable snapshot of an attached HID device produced
// by enumeration. It carries no relation to any open handle.
//
// String fields are empty when the platform reports no value; they are
// omitted on the wire rather than sent as empty strings.
type DeviceInfo struct {
	Path         string `cbor:"path,omitempty"`
	VendorID     uint16 `cbor:"vendorID"`
	ProductID    uint16 `cbor:"productID"`
	SerialNbr    string `cbor:"serialNbr,omitempty"`
	ReleaseNbr   uint16 `cbor:"releaseNbr"`
	MfrStr       string `cbor:"mfrStr,omitempty"`
	ProductStr   string `cbor:"productStr,omitempty"`
	UsagePage    uint16 `cbor:"usagePage"`
	Usage        uint16 `cbor:"usage"`
	InterfaceNbr int    `cbor:"interfaceNbr"`
}

// narrowed returns a copy of the descriptor with its string fields
// narrowed to one byte per character.
func (i *DeviceInfo) narrowed() *DeviceInfo {
	info := *i
	info.SerialNbr = narrow(info.SerialNbr)
	info.MfrStr = narrow(info.MfrStr)
	info.ProductStr = narrow(info.ProductStr)
	return &info
}

func (i *DeviceInfo) matches(vid, pid uint16) bool {
	return (vid == VendorIDAny || i.VendorID == vid) &&
		(pid == ProductIDAny || i.ProductID == pid)
}
