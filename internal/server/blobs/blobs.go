// Package blobs stores pitch-deck file bodies outside the entries table.
// Entries keep only the opaque reference returned by Put.
package blobs

import "context"

// Meta describes the object being stored.
type Meta struct {
	Name     string
	MimeType string
}

// Store is a blob store. Get on an unknown ref returns common.ErrorNotFound;
// other failures wrap common.ErrPersistence.
type Store interface {
	Put(ctx context.Context, data []byte, meta Meta) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}
