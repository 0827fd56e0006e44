package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pysugar/account-tabs/internal/db/models"
	"go.uber.org/zap"
)

// FileStore keeps the document as an indented JSON file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Read loads the document. A missing file is created with an empty document;
// an unreadable or corrupt file yields an empty document without touching it.
func (s *FileStore) Read(ctx context.Context) (models.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		doc := models.NewDocument()
		if werr := s.Write(ctx, doc); werr != nil {
			s.logger.Warn("could not initialize data file", zap.String("path", s.path), zap.Error(werr))
		}
		return doc, nil
	}
	if err != nil {
		s.logger.Error("error reading data file", zap.String("path", s.path), zap.Error(err))
		return models.NewDocument(), nil
	}

	doc, err := models.DecodeDocument(data)
	if err != nil {
		s.logger.Error("data file is corrupt, using empty document", zap.String("path", s.path), zap.Error(err))
		return models.NewDocument(), nil
	}
	return doc, nil
}

// Write replaces the file atomically: the document goes to a temp file in the
// same directory which is then renamed over the target.
func (s *FileStore) Write(_ context.Context, doc models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %q: %w", s.path, err)
	}
	return nil
}
