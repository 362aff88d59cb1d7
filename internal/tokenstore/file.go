package tokenstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"tixgate/internal/models"
)

// File persists the record as a JSON file. Read and parse failures degrade to
// an absent record; only Save surfaces I/O errors.
type File struct {
	path string
	now  func() time.Time
}

func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

func (f *File) Save(_ context.Context, rec models.SessionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, raw, 0o600)
}

func (f *File) Load(_ context.Context) *models.SessionRecord {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return nil
	}
	return decode(raw, f.now())
}

func (f *File) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
