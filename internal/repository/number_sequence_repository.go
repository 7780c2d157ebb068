package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository hands out gap-free sequence numbers per scope and period
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *NumberSequenceRepository) WithTx(tx *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: tx}
}

// GetNextNumber atomically increments and returns the sequence for scope/period.
// The row is locked for update on drivers that support it. A missing row
// starts at 1.
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, scope string, period int) (int, error) {
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		result := q.Where("scope = ? AND period = ?", scope, period).First(&seq)

		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			seq = domain.NumberSequence{
				Scope:        scope,
				Period:       period,
				LastSequence: 1,
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			nextSeq = 1
		case result.Error != nil:
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		default:
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&domain.NumberSequence{}).
				Where("scope = ? AND period = ?", scope, period).
				Updates(map[string]interface{}{
					"last_sequence": nextSeq,
					"updated_at":    time.Now(),
				}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, domain.NewStoreError("next number", err)
	}

	return nextSeq, nil
}
