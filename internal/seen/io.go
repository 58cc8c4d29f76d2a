package seen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/fithire/internal/models"
)

// Load reads a history file; a missing file is an empty history.
func Load(path string) (*History, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewHistory(nil), nil
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return NewHistory(nil), nil
	}

	var jobs []models.JobPosting
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("read history %s: %w", path, err)
	}
	return NewHistory(jobs), nil
}

// Save writes the history as pretty JSON, creating parent directories.
func Save(path string, h *History) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is required")
	}
	jobs := h.Jobs()
	if jobs == nil {
		jobs = []models.JobPosting{}
	}
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
