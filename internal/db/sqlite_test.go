package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pysugar/account-tabs/internal/db/models"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.StoredDocument{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestDocumentStore_ReadMissingReturnsEmptyDocument(t *testing.T) {
	s := NewDocumentStore(newTestDB(t), "", nil)

	doc, err := s.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for _, g := range models.Groups {
		if list, ok := doc[g]; !ok || len(list) != 0 {
			t.Fatalf("group %s: want empty list, got %v (present=%v)", g, list, ok)
		}
	}
}

func TestDocumentStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore(newTestDB(t), "", nil)

	doc := models.NewDocument()
	doc[models.Tab2] = []models.Account{{ID: 1, Username: "alice", Password: "p1", FullName: "Alice A", AccountStatus: models.StatusIdle}}
	if err := s.Write(ctx, doc); err != nil {
		t.Fatalf("first Write: %v", err)
	}

	doc[models.Tab2][0].Balance = 48000
	if err := s.Write(ctx, doc); err != nil {
		t.Fatalf("second Write (upsert): %v", err)
	}

	got, err := s.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got[models.Tab2]) != 1 || got[models.Tab2][0].Balance != 48000 {
		t.Fatalf("unexpected document: %+v", got)
	}

	var count int64
	s.db.Model(&models.StoredDocument{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single document row, got %d", count)
	}
}

func TestDocumentStore_CorruptValueRecovers(t *testing.T) {
	database := newTestDB(t)
	if err := database.Create(&models.StoredDocument{Key: models.DocumentKey, Value: "{not json"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	doc, err := NewDocumentStore(database, "", nil).Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc) != len(models.Groups) {
		t.Fatalf("expected fresh document, got %v", doc)
	}
}
