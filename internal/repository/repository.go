package repository

import (
	"context"
	"errors"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope narrows a query. Filters are expressed as scopes so they compose
// with counting, listing and aggregation alike.
type Scope = func(*gorm.DB) *gorm.DB

// Query describes a list query over one entity
type Query struct {
	Scopes   []Scope
	Order    string
	Preloads []string
}

// Repository provides CRUD access to one entity type keyed by int64 id
type Repository[T any] struct {
	db       *gorm.DB
	preloads []string
}

// New creates a repository for T. The preloads are applied to FindByID.
func New[T any](db *gorm.DB, preloads ...string) *Repository[T] {
	return &Repository[T]{db: db, preloads: preloads}
}

// WithTx returns a copy of the repository bound to tx
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	return &Repository[T]{db: tx, preloads: r.preloads}
}

// DB exposes the underlying handle for entity specific queries
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

// FindByID loads one entity with its default preloads
func (r *Repository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	var entity T
	q := r.db.WithContext(ctx)
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	if err := q.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError("find", err)
	}
	return &entity, nil
}

// Exists reports whether a row with id exists
func (r *Repository[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, domain.NewStoreError("exists", err)
	}
	return count > 0, nil
}

func (r *Repository[T]) build(ctx context.Context, q Query) *gorm.DB {
	db := r.db.WithContext(ctx).Model(new(T)).Scopes(q.Scopes...)
	for _, p := range q.Preloads {
		db = db.Preload(p)
	}
	return db
}

// Find returns every entity matching the query
func (r *Repository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	var items []T
	db := r.build(ctx, q)
	if q.Order != "" {
		db = db.Order(q.Order)
	}
	if err := db.Find(&items).Error; err != nil {
		return nil, domain.NewStoreError("find", err)
	}
	return items, nil
}

// List returns one page of entities matching the query and the total count
func (r *Repository[T]) List(ctx context.Context, q Query, page, pageSize int) ([]T, int64, error) {
	page, pageSize = NormalizePage(page, pageSize)

	var total int64
	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(q.Scopes...).Count(&total).Error; err != nil {
		return nil, 0, domain.NewStoreError("count", err)
	}

	var items []T
	db := r.build(ctx, q)
	if q.Order != "" {
		db = db.Order(q.Order)
	}
	offset := (page - 1) * pageSize
	if err := db.Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, 0, domain.NewStoreError("list", err)
	}
	return items, total, nil
}

// Count counts entities matching the scopes
func (r *Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, domain.NewStoreError("count", err)
	}
	return count, nil
}

// Add inserts a new entity. Loaded associations are not written.
func (r *Repository[T]) Add(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error
	return domain.NewStoreError("add", err)
}

// Update writes every column of an existing entity
func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error
	return domain.NewStoreError("update", err)
}

// Remove hard deletes the entity with id
func (r *Repository[T]) Remove(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return domain.NewStoreError("remove", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
