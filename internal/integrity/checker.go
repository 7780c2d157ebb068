// Package integrity refuses deletes of entities that are still referenced.
package integrity

import (
	"context"
	"errors"
	"fmt"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUnknownKind is returned for an entity kind with no registered model
var ErrUnknownKind = errors.New("unknown entity kind")

// Checker counts referencing rows and performs guarded deletes
type Checker struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewChecker creates a new integrity checker
func NewChecker(db *gorm.DB, logger *zap.Logger) *Checker {
	return &Checker{db: db, logger: logger}
}

// CanDelete reports whether the entity has no referencing rows. Every
// relation with a nonzero count is returned, in registration order.
func (c *Checker) CanDelete(ctx context.Context, kind domain.EntityKind, id int64) (bool, []domain.Blocker, error) {
	if _, ok := newModel(kind); !ok {
		return false, nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	blockers, err := countBlockers(c.db.WithContext(ctx), kind, id)
	if err != nil {
		return false, nil, err
	}
	return len(blockers) == 0, blockers, nil
}

// TryDelete deletes the entity if nothing references it. The existence check,
// blocker count and delete share one transaction; on postgres the target
// row is locked first.
func (c *Checker) TryDelete(ctx context.Context, kind domain.EntityKind, id int64) error {
	model, ok := newModel(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteGuarded(tx, kind, id, model)
	})
	if err != nil {
		var blocked *domain.IntegrityBlocked
		if errors.As(err, &blocked) {
			c.logger.Info("delete blocked",
				zap.String("entity_kind", string(kind)),
				zap.Int64("entity_id", id),
				zap.Int("blockers", len(blocked.Blockers)))
		}
		return err
	}

	c.logger.Info("entity deleted",
		zap.String("entity_kind", string(kind)),
		zap.Int64("entity_id", id))
	return nil
}

// GuardTx locks the entity inside tx and fails with IntegrityBlocked while
// anything references it. The caller deletes the row in the same tx.
func (c *Checker) GuardTx(tx *gorm.DB, kind domain.EntityKind, id int64) error {
	model, ok := newModel(kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return guard(tx, kind, id, model)
}

func guard(tx *gorm.DB, kind domain.EntityKind, id int64, model interface{}) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return domain.NewStoreError("load for delete", err)
	}

	blockers, err := countBlockers(tx, kind, id)
	if err != nil {
		return err
	}
	if len(blockers) > 0 {
		return &domain.IntegrityBlocked{Kind: kind, ID: id, Blockers: blockers}
	}
	return nil
}

func deleteGuarded(tx *gorm.DB, kind domain.EntityKind, id int64, model interface{}) error {
	if err := guard(tx, kind, id, model); err != nil {
		return err
	}
	if err := tx.Delete(model).Error; err != nil {
		return domain.NewStoreError("delete", err)
	}
	return nil
}

func countBlockers(db *gorm.DB, kind domain.EntityKind, id int64) ([]domain.Blocker, error) {
	blockers := []domain.Blocker{}
	for _, r := range relations[kind] {
		var count int64
		if err := db.Model(r.Model()).Where(r.Column+" = ?", id).Count(&count).Error; err != nil {
			return nil, domain.NewStoreError("count "+r.Name, err)
		}
		if count > 0 {
			blockers = append(blockers, domain.Blocker{Relation: r.Name, Count: count})
		}
	}
	return blockers, nil
}
