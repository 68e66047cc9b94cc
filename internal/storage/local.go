package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Local stores uploads on the local filesystem under a base directory.
// Upload returns the path relative to that directory; it doubles as the
// public URL path when the directory is served statically.
type Local struct {
	baseDir string
	logger  zerolog.Logger
}

// NewLocal constructs a local disk store rooted at baseDir.
func NewLocal(baseDir string, logger zerolog.Logger) (*Local, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("storage directory must be provided")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{
		baseDir: baseDir,
		logger:  logger.With().Str("component", "local_storage").Logger(),
	}, nil
}

// Upload writes the stream to disk under the given relative name.
func (l *Local) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	relative, err := l.cleanName(name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(l.baseDir, filepath.FromSlash(relative))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}

	l.logger.Debug().Str("path", relative).Msg("file stored")
	return relative, nil
}

// Remove deletes a previously stored file. A missing file is not an error.
func (l *Local) Remove(ctx context.Context, storedPath string) error {
	relative, err := l.cleanName(storedPath)
	if err != nil {
		return err
	}

	target := filepath.Join(l.baseDir, filepath.FromSlash(relative))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stored file: %w", err)
	}
	return nil
}

// cleanName rejects names that would escape the base directory.
func (l *Local) cleanName(name string) (string, error) {
	cleaned := filepath.ToSlash(filepath.Clean("/" + strings.TrimSpace(name)))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid storage name %q", name)
	}
	return cleaned, nil
}
