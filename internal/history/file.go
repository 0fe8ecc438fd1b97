package history

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// historyFile is the on-disk shape of a saved stack.
type historyFile struct {
	Entries []Entry `yaml:"entries"`
}

// SaveFile writes the stack to path as YAML, creating parent directories
// as needed.
func (h *History) SaveFile(path string) error {
	data, err := yaml.Marshal(historyFile{Entries: h.Entries()})
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	return nil
}

// LoadFile restores the stack from path. A missing file leaves the stack
// empty without error.
func (h *History) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading history: %w", err)
	}
	var f historyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding history: %w", err)
	}
	h.Restore(f.Entries)
	return nil
}
