package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one stored value (kv_records)
type Record struct {
	Collection string    `gorm:"column:collection;primaryKey;size:64"`
	RecordKey  string    `gorm:"column:record_key;primaryKey;size:191"`
	Value      string    `gorm:"column:value;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// TableName GORM table name
func (Record) TableName() string {
	return "kv_records"
}

// Sequence is a per-collection counter (kv_sequences)
type Sequence struct {
	Collection string `gorm:"column:collection;primaryKey;size:64"`
	Value      int64  `gorm:"column:value;not null;default:0"`
}

// TableName GORM table name
func (Sequence) TableName() string {
	return "kv_sequences"
}

// Migrate creates the record store tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{}, &Sequence{})
}

type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a SQL-backed store. Call Migrate first.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Get(ctx context.Context, collection, key string, dest interface{}) error {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("collection = ? AND record_key = ?", collection, key).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(rec.Value), dest)
}

func (s *gormStore) Set(ctx context.Context, collection, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	rec := Record{Collection: collection, RecordKey: key, Value: string(raw)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (s *gormStore) Iterate(ctx context.Context, collection string, fn IterateFunc) error {
	var records []Record
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Find(&records).Error; err != nil {
		return err
	}

	byKey := make(map[string]string, len(records))
	keys := make([]string, 0, len(records))
	for _, r := range records {
		byKey[r.RecordKey] = r.Value
		keys = append(keys, r.RecordKey)
	}
	sortKeys(keys)

	for _, k := range keys {
		if err := fn(k, []byte(byKey[k])); err != nil {
			return err
		}
	}
	return nil
}

// NextSequence bumps the counter row inside a transaction; the UPDATE holds the row
// lock until commit so concurrent callers never see the same value.
func (s *gormStore) NextSequence(ctx context.Context, collection string) (int64, error) {
	var next int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Sequence{Collection: collection}).Error; err != nil {
			return err
		}
		if err := tx.Model(&Sequence{}).
			Where("collection = ?", collection).
			UpdateColumn("value", gorm.Expr("value + ?", 1)).Error; err != nil {
			return err
		}
		var seq Sequence
		if err := tx.Where("collection = ?", collection).Take(&seq).Error; err != nil {
			return err
		}
		next = seq.Value
		return nil
	})
	return next, err
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
