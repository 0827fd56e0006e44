package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/account-tabs/internal/db/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// InitDB opens the SQLite database and runs migrations.
func InitDB(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.StoredDocument{}); err != nil {
		return nil, err
	}
	return db, nil
}

// DocumentStore keeps the account document as one JSON row, the way the
// standalone page kept it under a single local-storage key.
type DocumentStore struct {
	db     *gorm.DB
	key    string
	logger *zap.Logger
}

// NewDocumentStore returns a store over an initialized database. An empty key
// uses models.DocumentKey.
func NewDocumentStore(db *gorm.DB, key string, logger *zap.Logger) *DocumentStore {
	if key == "" {
		key = models.DocumentKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentStore{db: db, key: key, logger: logger}
}

// Read loads the document. A missing row or undecodable value yields an empty
// document; other database errors are returned.
func (s *DocumentStore) Read(ctx context.Context) (models.Document, error) {
	var row models.StoredDocument
	err := s.db.WithContext(ctx).Where("key = ?", s.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %q: %w", s.key, err)
	}

	doc, err := models.DecodeDocument([]byte(row.Value))
	if err != nil {
		s.logger.Error("stored document is corrupt, using empty document", zap.String("key", s.key), zap.Error(err))
		return models.NewDocument(), nil
	}
	return doc, nil
}

// Write upserts the document row.
func (s *DocumentStore) Write(ctx context.Context, doc models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	row := models.StoredDocument{Key: s.key, Value: string(data)}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save document %q: %w", s.key, err)
	}
	return nil
}
