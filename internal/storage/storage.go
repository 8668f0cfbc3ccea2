package storage

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
}

type Deleter interface {
	Delete(ctx context.Context, objectName string) error
}

// Store is the object-store surface the submission flow needs: binary
// upload returning a resolvable URL, and delete by path.
type Store interface {
	Uploader
	Deleter
}
