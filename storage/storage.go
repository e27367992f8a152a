// Package storage persists uploaded item images and hands back retrievable
// URLs. Like identity, it is an external collaborator with one
// implementation per environment.
package storage

import "context"

// ImageStorage stores binary content and returns a public URL for it.
// Failures surface as apperr.StorageError.
type ImageStorage interface {
	Store(ctx context.Context, content []byte, filename, contentType string) (string, error)
}
