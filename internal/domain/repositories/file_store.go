package repositories

import (
	"context"
	"io"

	"assembly-directory.backend/internal/domain/entities"
)

// FileStore keeps binary attachments outside the member store and hands back a reference string
type FileStore interface {
	Save(ctx context.Context, kind entities.AttachmentKind, filename string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
