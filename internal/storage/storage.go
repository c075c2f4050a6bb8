// Package storage provides upload of converted outputs to remote storage.
// Without a configured backend, outputs simply stay where ffmpeg wrote them
// and upload requests are rejected by the caller.
package storage

import "context"

// Storage defines the interface for uploading a converted output file.
type Storage interface {
	// Store uploads the converted file at path and returns its final
	// location, e.g. the object URL for S3-backed storage.
	Store(ctx context.Context, path string) (location string, err error)
}
