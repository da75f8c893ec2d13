package credential

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupFileName is the fixed name the file backend stores the token under.
const BackupFileName = "httpguard_token"

// FileBackend mirrors the credential to a file so it survives a process
// restart. The file is owner-readable only.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend storing the token under dir.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{path: filepath.Join(dir, BackupFileName)}
}

// Path returns the full path of the backup file.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the stored token. A missing file means no token is stored.
func (b *FileBackend) Load(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read credential backup: %w", err)
	}
	if len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

// Save writes the token, creating the directory if needed.
func (b *FileBackend) Save(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create credential backup dir: %w", err)
	}
	if err := os.WriteFile(b.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("write credential backup: %w", err)
	}
	return nil
}

// Delete removes the backup file. Idempotent - no error when absent.
func (b *FileBackend) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(b.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential backup: %w", err)
	}
	return nil
}

// Ensure FileBackend implements Backend
var _ Backend = (*FileBackend)(nil)
