package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/kirillkom/chat-gateway/internal/core/domain"
)

// Storage keeps uploads on disk for the duration of one request. Keys embed a
// UUID so concurrent requests can never collide on a location.
type Storage struct {
	basePath string
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/uploads"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) Save(_ context.Context, filename string, data io.Reader) (*domain.StoredArtifact, error) {
	key := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	path := filepath.Join(s.basePath, key)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create transient file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write transient file: %w", err)
	}
	return &domain.StoredArtifact{Key: key, Path: path}, nil
}

func (s *Storage) Remove(_ context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.basePath, key)); err != nil {
		return fmt.Errorf("remove transient file: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "upload.bin"
	}
	return base
}
