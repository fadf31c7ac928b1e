package payloads

import "context"

// Payload is one stored file body.
type Payload struct {
	ID       string
	Name     string
	MimeType string
	Data     []byte
}

type Repository interface {
	Insert(ctx context.Context, p *Payload) (string, error)
	Get(ctx context.Context, id string) (*Payload, error)
	Delete(ctx context.Context, id string) error
}
