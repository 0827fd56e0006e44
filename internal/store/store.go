// Package store persists the account document as one whole unit.
package store

import (
	"context"

	"github.com/pysugar/account-tabs/internal/db/models"
)

// Store reads and writes the complete account document.
//
// Read never fails on a missing or corrupt document; it returns a fresh
// document with four empty groups instead. Write errors always propagate.
type Store interface {
	Read(ctx context.Context) (models.Document, error)
	Write(ctx context.Context, doc models.Document) error
}
