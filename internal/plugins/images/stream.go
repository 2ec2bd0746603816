package images

import (
	"context"
	"io"
)

// readCloser pairs a buffered reader with the file it wraps.
type readCloser struct {
	io.Reader
	io.Closer
}

// contextReader stops reading once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

// copyContext copies src to dst until EOF, an error, or cancellation of ctx.
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	return io.Copy(dst, contextReader{ctx: ctx, r: src})
}
