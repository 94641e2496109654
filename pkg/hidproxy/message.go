// Package hidproxy defines the wire framing used to proxy HID device
// access over a local stream, typically a named pipe to a helper
// process that holds the real device handles. Each message is a command
// byte, a big-endian payload length and a CBOR-encoded payload.
package hidproxy

import (
	"encoding/binary"
	"io"

	"github.com/fxamacker/cbor/v2"
)

var encMode, _ = cbor.CanonicalEncOptions().EncMode()

const NamedPipePath = "\\\\.\\pipe\\hidproxy"

type Command byte

const (
	CommandEnumerate Command = iota + 1
	CommandOpen
	CommandOpenPath
	CommandRead
	CommandWrite
	CommandGetFeature
	CommandSendFeature
	CommandSetNonblock
	CommandClose

	// Reply commands.
	CommandOK
	CommandError
)

type Message struct {
	Command Command
	length  uint16
	Data    []byte
}

func ParseMessage(r io.Reader) (*Message, error) {
	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint16(header[1:])

	data := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
	}

	return &Message{
		Command: Command(header[0]),
		length:  length,
		Data:    data,
	}, nil
}

func NewMessage(cmd Command, data any) (*Message, error) {
	msg := &Message{
		Command: cmd,
	}

	b := make([]byte, 0)
	var err error
	if data != nil {
		b, err = encMode.Marshal(data)
		if err != nil {
			return nil, err
		}
	}

	msg.length = uint16(len(b))
	msg.Data = b

	return msg, nil
}

func (m *Message) WriteTo(w io.Writer) (n int64, err error) {
	totalLen := 0

	cmdLen, err := w.Write([]byte{byte(m.Command)})
	if err != nil {
		return 0, err
	}
	totalLen += cmdLen

	bLen := make([]byte, 2)
	binary.BigEndian.PutUint16(bLen, m.length)
	lengthLen, err := w.Write(bLen)
	if err != nil {
		return 0, err
	}
	totalLen += lengthLen

	// ParseMessage skips the data read for empty payloads, so a
	// zero-length write here would have no matching read and block
	// forever on a synchronous transport.
	if len(m.Data) > 0 {
		dataLen, err := w.Write(m.Data)
		if err != nil {
			return 0, err
		}
		totalLen += dataLen
	}

	return int64(totalLen), nil
}
