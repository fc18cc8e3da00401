// Package storage provides the scratch area used for intermediate
// artifacts and optional S3 delivery of finished clips.
package storage

import (
	"context"
	"io"
)

// Uploader defines the interface for delivering finished clips to a
// remote store.
type Uploader interface {
	// Upload stores data under key and returns the public URL.
	Upload(ctx context.Context, key string, data io.Reader) (url string, err error)
}
