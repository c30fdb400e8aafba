package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/migrakit/migrakit/internal/domain"
)

const historyFile = ".migrakit/history/decisions.json"

// MaxEntries bounds the history; older entries are dropped first.
const MaxEntries = 500

// FileHistory implements domain.DecisionHistory using JSON file storage.
type FileHistory struct{}

func New() *FileHistory {
	return &FileHistory{}
}

func (h *FileHistory) Save(projectPath string, entry domain.DecisionEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	fp := filepath.Join(projectPath, historyFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	return os.WriteFile(fp, data, 0644)
}

// Load returns entries oldest first. A missing file is an empty history.
func (h *FileHistory) Load(projectPath string) ([]domain.DecisionEntry, error) {
	fp := filepath.Join(projectPath, historyFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.DecisionEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", historyFile, err)
	}

	return entries, nil
}
