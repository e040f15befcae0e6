// Package datasource abstracts where the inventory CSV comes from: a local
// file from a manual export, or an HTTP download from the listing site.
package datasource

import (
	"context"
	"io"
)

// Source yields the raw bytes of one inventory snapshot.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
