package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/masterakos/node-hid/pkg/hidproxy"
	"github.com/masterakos/node-hid/pkg/options"
)

// remoteBackend proxies every operation over a single local stream to a
// hidproxy helper holding the real handles. Requests are strictly
// serialized on the stream, so a blocking remote read stalls other
// traffic; pair it with nonblocking mode or a dedicated context.
type remoteBackend struct {
	oo *options.Options

	mu   sync.Mutex
	conn io.ReadWriteCloser
}

func newRemoteBackend(oo *options.Options) *remoteBackend {
	return &remoteBackend{oo: oo}
}

// newRemoteBackendConn skips dialing and uses an established stream.
func newRemoteBackendConn(conn io.ReadWriteCloser) *remoteBackend {
	return &remoteBackend{
		oo:   options.NewOptions(),
		conn: conn,
	}
}

func (b *remoteBackend) Init() error {
	if b.conn != nil {
		return nil
	}

	path := b.oo.PipePath
	if path == "" {
		path = hidproxy.NamedPipePath
	}

	conn, err := dialPipe(b.oo.Context, path)
	if err != nil {
		return err
	}
	b.conn = conn

	return nil
}

func (b *remoteBackend) Exit() error {
	if b.conn == nil {
		return nil
	}

	err := b.conn.Close()
	b.conn = nil

	return err
}

func (b *remoteBackend) roundTrip(cmd hidproxy.Command, req, resp any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return ErrClosed
	}

	msg, err := hidproxy.NewMessage(cmd, req)
	if err != nil {
		return err
	}
	if _, err := msg.WriteTo(b.conn); err != nil {
		return err
	}

	reply, err := hidproxy.ParseMessage(b.conn)
	if err != nil {
		return err
	}

	switch reply.Command {
	case hidproxy.CommandOK:
		if resp == nil || len(reply.Data) == 0 {
			return nil
		}
		return cbor.Unmarshal(reply.Data, resp)
	case hidproxy.CommandError:
		var errResp hidproxy.ErrorResponse
		if err := cbor.Unmarshal(reply.Data, &errResp); err != nil {
			return err
		}
		return errors.New(errResp.Message)
	default:
		return fmt.Errorf("hidproxy: unexpected reply command %d", reply.Command)
	}
}

func (b *remoteBackend) Enumerate(vid, pid uint16) ([]*DeviceInfo, error) {
	var resp hidproxy.EnumerateResponse
	if err := b.roundTrip(hidproxy.CommandEnumerate, &hidproxy.EnumerateRequest{
		VendorID:  vid,
		ProductID: pid,
	}, &resp); err != nil {
		return nil, err
	}

	return lo.Map(resp.Devices, func(info *hidproxy.DeviceInfo, _ int) *DeviceInfo {
		return &DeviceInfo{
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
	}), nil
}

func (b *remoteBackend) Open(vid, pid uint16, serial string) (ReportDevice, error) {
	var resp hidproxy.OpenResponse
	if err := b.roundTrip(hidproxy.CommandOpen, &hidproxy.OpenRequest{
		VendorID:  vid,
		ProductID: pid,
		Serial:    serial,
	}, &resp); err != nil {
		return nil, err
	}

	return &remoteDevice{backend: b, handle: resp.Handle}, nil
}

func (b *remoteBackend) OpenPath(path string) (ReportDevice, error) {
	var resp hidproxy.OpenResponse
	if err := b.roundTrip(hidproxy.CommandOpenPath, &hidproxy.OpenPathRequest{
		Path: path,
	}, &resp); err != nil {
		return nil, err
	}

	return &remoteDevice{backend: b, handle: resp.Handle}, nil
}

// remoteDevice is one proxied session, correlated by its handle.
type remoteDevice struct {
	backend *remoteBackend
	handle  uuid.UUID
}

func (d *remoteDevice) Read(b []byte) (int, error) {
	var resp hidproxy.DataResponse
	if err := d.backend.roundTrip(hidproxy.CommandRead, &hidproxy.ReadRequest{
		Handle: d.handle,
		Length: len(b),
	}, &resp); err != nil {
		return 0, err
	}

	return copy(b, resp.Data), nil
}

func (d *remoteDevice) Write(b []byte) (int, error) {
	var resp hidproxy.DataResponse
	if err := d.backend.roundTrip(hidproxy.CommandWrite, &hidproxy.WriteRequest{
		Handle: d.handle,
		Data:   b,
	}, &resp); err != nil {
		return 0, err
	}

	return resp.N, nil
}

func (d *remoteDevice) GetFeatureReport(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, ErrInvalidArgument
	}

	var resp hidproxy.DataResponse
	if err := d.backend.roundTrip(hidproxy.CommandGetFeature, &hidproxy.GetFeatureRequest{
		Handle:   d.handle,
		ReportID: b[0],
		Length:   len(b),
	}, &resp); err != nil {
		return 0, err
	}

	return copy(b, resp.Data), nil
}

func (d *remoteDevice) SendFeatureReport(b []byte) (int, error) {
	var resp hidproxy.DataResponse
	if err := d.backend.roundTrip(hidproxy.CommandSendFeature, &hidproxy.SendFeatureRequest{
		Handle: d.handle,
		Data:   b,
	}, &resp); err != nil {
		return 0, err
	}

	return resp.N, nil
}

func (d *remoteDevice) SetNonblock(nonblocking bool) error {
	return d.backend.roundTrip(hidproxy.CommandSetNonblock, &hidproxy.SetNonblockRequest{
		Handle:   d.handle,
		Nonblock: nonblocking,
	}, nil)
}

func (d *remoteDevice) Close() error {
	return d.backend.roundTrip(hidproxy.CommandClose, &hidproxy.CloseRequest{
		Handle: d.handle,
	}, nil)
}
