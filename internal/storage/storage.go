package storage

import (
	"context"
	"io"
)

// Uploader persists an opaque payload under an object key and returns a
// durable, directly-fetchable URL. No retry policy: a transport failure
// propagates to the caller.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (url string, err error)
}

// Fetcher reads back a previously returned URL (used for interview scripts).
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
