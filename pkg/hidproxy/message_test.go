package hidproxy

import (
	"bytes"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_RoundTrip(t *testing.T) {
	msg, err := NewMessage(CommandOpen, &OpenRequest{
		VendorID:  0x046d,
		ProductID: 0xc52b,
		Serial:    "A1B2C3",
	})
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	n, err := msg.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	parsed, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, CommandOpen, parsed.Command)

	var req OpenRequest
	require.NoError(t, cbor.Unmarshal(parsed.Data, &req))
	assert.Equal(t, uint16(0x046d), req.VendorID)
	assert.Equal(t, uint16(0xc52b), req.ProductID)
	assert.Equal(t, "A1B2C3", req.Serial)
}

func TestMessage_EmptyPayload(t *testing.T) {
	msg, err := NewMessage(CommandOK, nil)
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	// Command byte plus two length bytes, nothing else.
	assert.Equal(t, 3, buf.Len())

	parsed, err := ParseMessage(buf)
	require.NoError(t, err)
	assert.Equal(t, CommandOK, parsed.Command)
	assert.Empty(t, parsed.Data)
}

func TestMessage_TruncatedInput(t *testing.T) {
	msg, err := NewMessage(CommandWrite, &WriteRequest{Data: []byte{1, 2, 3}})
	require.NoError(t, err)

	buf := bytes.NewBuffer(nil)
	_, err = msg.WriteTo(buf)
	require.NoError(t, err)

	truncated := buf.Bytes()[:buf.Len()-1]
	_, err = ParseMessage(bytes.NewReader(truncated))
	require.Error(t, err)
}

func TestMessage_EmptyPayloadOverSynchronousPipe(t *testing.T) {
	client, server := net.Pipe()
	defer func() {
		_ = client.Close()
		_ = server.Close()
	}()

	// The peer answers two requests with empty-payload replies. On a
	// synchronous pipe every write must have a matching read, so this
	// only completes if WriteTo never issues a zero-length data write.
	go func() {
		for range 2 {
			if _, err := ParseMessage(server); err != nil {
				return
			}
			reply, err := NewMessage(CommandOK, nil)
			if err != nil {
				return
			}
			if _, err := reply.WriteTo(server); err != nil {
				return
			}
		}
	}()

	done := make(chan error, 1)
	go func() {
		for _, cmd := range []Command{CommandSetNonblock, CommandClose} {
			msg, err := NewMessage(cmd, &CloseRequest{})
			if err != nil {
				done <- err
				return
			}
			if _, err := msg.WriteTo(client); err != nil {
				done <- err
				return
			}

			reply, err := ParseMessage(client)
			if err != nil {
				done <- err
				return
			}
			if reply.Command != CommandOK {
				done <- errors.New("unexpected reply command")
				return
			}
		}
		done <- nil
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("empty-payload exchange blocked")
	}
}
