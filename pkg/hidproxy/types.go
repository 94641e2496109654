package hidproxy

import "github.com/google/uuid"

// DeviceInfo mirrors the descriptor snapshot on the wire. Optional
// string fields are omitted, not sent empty.
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

type EnumerateRequest struct {
	VendorID  uint16 `cbor:"vendorID"`
	ProductID uint16 `cbor:"productID"`
}

type EnumerateResponse struct {
	Devices []*DeviceInfo `cbor:"devices"`
}

type OpenRequest struct {
	VendorID  uint16 `cbor:"vendorID"`
	ProductID uint16 `cbor:"productID"`
	Serial    string `cbor:"serial,omitempty"`
}

type OpenPathRequest struct {
	Path string `cbor:"path"`
}

// OpenResponse correlates the opened session; every subsequent request
// for it references the handle.
type OpenResponse struct {
	Handle uuid.UUID `cbor:"handle"`
}

type ReadRequest struct {
	Handle uuid.UUID `cbor:"handle"`
	Length int       `cbor:"length"`
}

type WriteRequest struct {
	Handle uuid.UUID `cbor:"handle"`
	Data   []byte    `cbor:"data"`
}

type GetFeatureRequest struct {
	Handle   uuid.UUID `cbor:"handle"`
	ReportID byte      `cbor:"reportID"`
	Length   int       `cbor:"length"`
}

type SendFeatureRequest struct {
	Handle uuid.UUID `cbor:"handle"`
	Data   []byte    `cbor:"data"`
}

type SetNonblockRequest struct {
	Handle   uuid.UUID `cbor:"handle"`
	Nonblock bool      `cbor:"nonblock"`
}

type CloseRequest struct {
	Handle uuid.UUID `cbor:"handle"`
}

type DataResponse struct {
	N    int    `cbor:"n"`
	Data []byte `cbor:"data,omitempty"`
}

type ErrorResponse struct {
	Message string `cbor:"message"`
}
