package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Pratyush-06/Barista-Agent/internal/logging"
)

// JSONFile is a flat JSON array of records. Every write rewrites the whole
// file; the mutex serialises writers inside one process only.
type JSONFile[T any] struct {
	mu   sync.Mutex
	path string
}

// NewJSONFile returns a handle for the array file at path.
// The file is created on first write.
func NewJSONFile[T any](path string) *JSONFile[T] {
	return &JSONFile[T]{path: path}
}

// Path returns the file location.
func (f *JSONFile[T]) Path() string {
	return f.path
}

// Load returns all records. A missing or empty file holds no records.
func (f *JSONFile[T]) Load() ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *JSONFile[T]) load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(data) == 0) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	return records, nil
}

// Save overwrites the file with records.
func (f *JSONFile[T]) Save(records []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeJSON(f.path, records)
}

// Append adds one record and rewrites the file.
func (f *JSONFile[T]) Append(record T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.load()
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := writeJSON(f.path, records); err != nil {
		return err
	}
	logging.StoreDebug("Appended record to %s (%d total)", f.path, len(records))
	return nil
}

// Last returns the most recent record, if any.
func (f *JSONFile[T]) Last() (T, bool, error) {
	var zero T
	records, err := f.Load()
	if err != nil || len(records) == 0 {
		return zero, false, err
	}
	return records[len(records)-1], true, nil
}

// LoadDocument reads a single JSON document from path. When the file does
// not exist it is created from def and def is returned.
func LoadDocument[T any](path string, def T) (T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Store("Creating default content file %s", path)
		if err := writeJSON(path, def); err != nil {
			return def, err
		}
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc T
	if err := json.Unmarshal(data, &doc); err != nil {
		return def, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// SaveDocument writes a single JSON document, replacing path atomically.
func SaveDocument(path string, v any) error {
	return writeJSON(path, v)
}

// writeJSON writes v as indented JSON, replacing path atomically.
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
