//go:build !windows

package device

import (
	"context"
	"io"
)

// The hidproxy named pipe transport exists for Windows; elsewhere the
// in-process backends talk to the device directly.
func dialPipe(_ context.Context, _ string) (io.ReadWriteCloser, error) {
	return nil, ErrNotSupported
}
