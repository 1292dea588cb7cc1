package datasource

import (
	"context"
	"io"
)

// Source is anything that can hand back a readable survey export stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
