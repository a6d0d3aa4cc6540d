package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"assembly-directory.backend/internal/domain/entities"
	"assembly-directory.backend/pkg/utils"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore writes attachments below a directory served as static files.
// References look like <urlPrefix>/<kind>/<uuid><ext>.
type LocalStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

func NewLocalStore(dir, urlPrefix string, maxBytes int64) *LocalStore {
	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// Dir returns the directory attachments are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

// URLPrefix returns the path the directory is mounted under
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// Save stores the payload and returns a stable reference string
func (s *LocalStore) Save(ctx context.Context, kind entities.AttachmentKind, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	dir := filepath.Join(s.dir, string(kind))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := utils.GenerateUUIDv7().String() + ext
	target := filepath.Join(dir, name)
	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}

	reader := r
	if s.maxBytes > 0 {
		reader = io.LimitReader(r, s.maxBytes+1)
	}
	written, err := io.Copy(f, reader)
	closeErr := f.Close()
	if err == nil && s.maxBytes > 0 && written > s.maxBytes {
		err = ErrTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	return path.Join(s.urlPrefix, string(kind), name), nil
}

// Remove deletes a file previously returned by Save. Absolute URLs and
// references outside the mount are ignored.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	local, ok := s.localPath(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(local); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove upload: %w", err)
	}
	return nil
}

func (s *LocalStore) localPath(ref string) (string, bool) {
	if ref == "" || strings.Contains(ref, "://") {
		return "", false
	}
	clean := path.Clean("/" + ref)
	prefix := s.urlPrefix + "/"
	if !strings.HasPrefix(clean, prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(clean, prefix)
	return filepath.Join(s.dir, filepath.FromSlash(rel)), true
}
