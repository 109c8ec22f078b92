package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ba4b0d/printquote/internal/quote"
)

// DefaultHistoryPath returns the default path for the quote history file.
func DefaultHistoryPath() string {
	return filepath.Join(DefaultConfigDir(), "history.json")
}

// LoadHistory reads the saved quote records from the given path, newest
// first. A missing file is an empty history, not an error.
func LoadHistory(path string) ([]quote.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []quote.Record{}, nil
		}
		return nil, err
	}
	var records []quote.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveHistory persists the records to the given path as JSON, creating
// missing parent directories automatically.
func SaveHistory(path string, records []quote.Record) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AppendHistory loads the history at path, prepends rec and saves the
// result, trimming to limit entries when limit is positive. It returns
// the updated list.
func AppendHistory(path string, rec quote.Record, limit int) ([]quote.Record, error) {
	records, err := LoadHistory(path)
	if err != nil {
		return nil, err
	}
	records = append([]quote.Record{rec}, records...)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if err := SaveHistory(path, records); err != nil {
		return nil, err
	}
	return records, nil
}
