// internal/infra/ledgerfile/file_store.go
package ledgerfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"password_notifier/internal/domain/ledger"
)

// FileStore persists the notification ledger as a single JSON object
// mapping account identifier to last-notified date. The whole file is
// read once at start of run and replaced wholesale at end of run.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the ledger file. A missing file means no prior state and
// yields an empty mapping; malformed content propagates as an error.
func (s *FileStore) Load(_ context.Context) (ledger.Entries, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(ledger.Entries), nil
		}
		return nil, fmt.Errorf("error reading ledger file %s: %w", s.path, err)
	}

	entries := make(ledger.Entries)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing ledger file %s: %w", s.path, err)
	}
	return entries, nil
}

// Save atomically replaces the ledger file with the given mapping, via a
// temp file and rename so a crash mid-write never leaves a torn file.
func (s *FileStore) Save(_ context.Context, entries ledger.Entries) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error encoding ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating ledger directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".last_notified-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp ledger file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing ledger file %s: %w", s.path, err)
	}
	return nil
}
