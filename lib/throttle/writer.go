package throttle

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Writer that caps throughput with a token bucket.
type Writer struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

// Wrap `w` so at most `bytesPerSecond` bytes are written per second.
// Returns `w` unchanged when the cap is 0 or less. Waiting stops when `ctx` is done.
func NewWriter(ctx context.Context, w io.Writer, bytesPerSecond int) io.Writer {
	if bytesPerSecond <= 0 {
		return w
	}

	return &Writer{
		ctx:     ctx,
		w:       w,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), bytesPerSecond),
	}
}

func (t *Writer) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		// WaitN fails for n above the burst, so write in burst-sized chunks
		n := len(p)
		if burst := t.limiter.Burst(); n > burst {
			n = burst
		}

		if err := t.limiter.WaitN(t.ctx, n); err != nil {
			return written, err
		}

		m, err := t.w.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]
	}

	return written, nil
}
