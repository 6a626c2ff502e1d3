// Package postgres stores owner documents in PostgreSQL through GORM.
package postgres

import (
	"context"
	"time"

	"lessonradar/internal/domain/repository"
	"lessonradar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// documentStore implements repository.DocumentStore.
type documentStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDocumentStore is the constructor for documentStore.
func NewDocumentStore(db *gorm.DB) repository.DocumentStore {
	return &documentStore{db: db, now: time.Now}
}

// Migrate creates or updates the owner_documents table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.DocumentModel{}); err != nil {
		return errors.Wrap(err, "failed to migrate owner_documents")
	}

	return nil
}

// Get retrieves one document.
func (store *documentStore) Get(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey) ([]byte, error) {
	var doc model.DocumentModel

	if err := store.db.WithContext(ctx).
		Where("owner_id = ? AND doc_key = ?", ownerID, string(key)).
		Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrDocumentNotFound
		}

		return nil, errors.Wrapf(err, "failed to find document %s", key)
	}

	return doc.Value, nil
}

// Set upserts one document.
func (store *documentStore) Set(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey, value []byte) error {
	now := store.now()
	doc := &model.DocumentModel{
		OwnerID:   ownerID,
		Key:       string(key),
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := store.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "doc_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(doc).Error; err != nil {
		return errors.Wrapf(err, "failed to upsert document %s", key)
	}

	return nil
}
