// Package repo implements the persistence layer for the talk corpus.
//
// Functions are context-aware and take a *gorm.DB so they compose with
// transactions. No business rules live here: records arrive already
// normalized (see domain.RawTalk.Normalize).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-talk-search/internal/domain"
)

// importBatchSize bounds the number of rows per INSERT statement.
const importBatchSize = 200

// ReplaceTalks atomically replaces the whole corpus table with talks, keeping
// their order. It returns the number of rows written.
func ReplaceTalks(ctx context.Context, db *gorm.DB, talks []domain.Talk) (int, error) {
	rows := make([]domain.Talk, len(talks))
	for i, t := range talks {
		t.Seq = 0 // let SQLite assign the sequence in slice order
		rows[i] = t
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Talk{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, importBatchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// ListTalks returns every talk in insertion order.
func ListTalks(ctx context.Context, db *gorm.DB) ([]domain.Talk, error) {
	var out []domain.Talk
	if err := db.WithContext(ctx).Order("seq ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// HasTalksTable reports whether the corpus table exists.
func HasTalksTable(ctx context.Context, db *gorm.DB) bool {
	return db.WithContext(ctx).Migrator().HasTable(&domain.Talk{})
}

// CountTalks returns the number of talks stored.
func CountTalks(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Talk{}).Count(&n).Error
	return n, err
}
