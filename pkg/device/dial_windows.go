//go:build windows

package device

import (
	"context"
	"io"

	"github.com/Microsoft/go-winio"
)

func dialPipe(ctx context.Context, path string) (io.ReadWriteCloser, error) {
	return winio.DialPipeContext(ctx, path)
}
