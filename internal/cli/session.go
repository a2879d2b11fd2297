package cli

import (
	"fmt"
	"os"

	"github.com/scribeworks/meetscribe/internal/archive"
)

// loadSession restores an archive dump if the file exists. A missing file
// is a fresh session, not an error.
func loadSession(s *archive.Session, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read session file: %w", err)
	}
	if _, err := s.ImportAll(data); err != nil {
		return fmt.Errorf("load session file %s: %w", path, err)
	}
	return nil
}

func saveSession(s *archive.Session, path string) error {
	data, err := s.ExportAll()
	if err != nil {
		return fmt.Errorf("dump session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
