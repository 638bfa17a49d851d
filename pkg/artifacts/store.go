package artifacts

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound      = errors.New("artifact not found")
	ErrEmptyWaveform = errors.New("empty waveform")
)

// EncodeFunc writes the encoded artifact. The writer is seekable so that
// container headers can be patched after the payload is written.
type EncodeFunc func(w io.WriteSeeker) error

// Store holds artifact bytes. Put must not make the object visible under the
// returned Location until it is completely written.
type Store interface {
	Put(ctx context.Context, name string, encode EncodeFunc) (Location, int64, error)
	Open(ctx context.Context, loc Location) (io.ReadCloser, error)
	Delete(ctx context.Context, loc Location) error
}
