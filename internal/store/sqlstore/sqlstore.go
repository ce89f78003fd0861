package sqlstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"family-chores-go/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRow holds one whole collection as a JSON array document.
type collectionRow struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Records   string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (collectionRow) TableName() string {
	return "record_collections"
}

// Store keeps collections in a single table of any gorm dialect. Postgres and
// sqlite are wired by the app.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, store.Unavailable(fmt.Errorf("migrate record_collections: %w", err))
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, collection string) ([]json.RawMessage, bool, error) {
	var row collectionRow
	err := s.db.WithContext(ctx).Where("name = ?", collection).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, store.Unavailable(fmt.Errorf("read %s: %w", collection, err))
	}

	records, err := store.DecodeCollection([]byte(row.Records))
	if err != nil {
		return nil, true, store.Unavailable(fmt.Errorf("decode %s: %w", collection, err))
	}
	return records, true, nil
}

func (s *Store) Put(ctx context.Context, collection string, records []json.RawMessage) error {
	payload, err := store.EncodeCollection(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}

	row := collectionRow{
		Name:      collection,
		Records:   string(payload),
		UpdatedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"records", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return store.Unavailable(fmt.Errorf("write %s: %w", collection, err))
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
