package service

import (
	"context"
	"errors"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps bundles what every entity service needs
type Deps struct {
	DB      *gorm.DB
	Rules   *lifecycle.Rules
	Checker *integrity.Checker
	Logger  *zap.Logger
}

// crud implements validated create/update and guarded delete for one kind.
// Validation and write share one transaction; nothing is written unless
// every rule passes.
type crud[T any] struct {
	kind    domain.EntityKind
	db      *gorm.DB
	repo    *repository.Repository[T]
	rules   *lifecycle.Rules
	checker *integrity.Checker
	logger  *zap.Logger
	id      func(*T) int64
	// duplicate translates a unique constraint violation; nil keeps the store error
	duplicate func() error
}

func newCrud[T any](deps Deps, kind domain.EntityKind, id func(*T) int64, preloads ...string) *crud[T] {
	return &crud[T]{
		kind:    kind,
		db:      deps.DB,
		repo:    repository.New[T](deps.DB, preloads...),
		rules:   deps.Rules,
		checker: deps.Checker,
		logger:  deps.Logger,
		id:      id,
	}
}

func (c *crud[T]) get(ctx context.Context, id int64) (*T, error) {
	return c.repo.FindByID(ctx, id)
}

func (c *crud[T]) list(ctx context.Context, q repository.Query, page, pageSize int) ([]T, int64, error) {
	return c.repo.List(ctx, q, page, pageSize)
}

func (c *crud[T]) find(ctx context.Context, q repository.Query) ([]T, error) {
	return c.repo.Find(ctx, q)
}

// create validates draft (the entity itself unless the kind needs a wrapper),
// inserts entity and reloads it with its associations.
func (c *crud[T]) create(ctx context.Context, entity *T, draft interface{}, before func(tx *gorm.DB) error) (*T, error) {
	var created *T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = c.createTx(ctx, tx, entity, draft, before)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("entity created",
		zap.String("entity_kind", string(c.kind)),
		zap.Int64("entity_id", c.id(created)))
	return created, nil
}

// createTx is create inside a transaction owned by the caller
func (c *crud[T]) createTx(ctx context.Context, tx *gorm.DB, entity *T, draft interface{}, before func(tx *gorm.DB) error) (*T, error) {
	if draft == nil {
		draft = entity
	}
	if err := c.rules.WithTx(tx).Validate(ctx, c.kind, draft); err != nil {
		return nil, err
	}
	if before != nil {
		if err := before(tx); err != nil {
			return nil, err
		}
	}
	repo := c.repo.WithTx(tx)
	if err := repo.Add(ctx, entity); err != nil {
		return nil, c.translate(err)
	}
	return repo.FindByID(ctx, c.id(entity))
}

// update loads the entity, lets apply modify it and returns the draft to
// validate, then saves and reloads it.
func (c *crud[T]) update(ctx context.Context, id int64, apply func(tx *gorm.DB, existing *T) (interface{}, error)) (*T, error) {
	var updated *T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := c.repo.WithTx(tx)
		existing, err := repository.New[T](tx).FindByID(ctx, id)
		if err != nil {
			return err
		}
		draft, err := apply(tx, existing)
		if err != nil {
			return err
		}
		if draft == nil {
			draft = existing
		}
		if err := c.rules.WithTx(tx).Validate(ctx, c.kind, draft); err != nil {
			return err
		}
		if err := repo.Update(ctx, existing); err != nil {
			return c.translate(err)
		}
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("entity updated",
		zap.String("entity_kind", string(c.kind)),
		zap.Int64("entity_id", id))
	return updated, nil
}

// delete removes the entity unless something still references it. The
// blocker check and the delete share one transaction.
func (c *crud[T]) delete(ctx context.Context, id int64) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := c.checker.GuardTx(tx, c.kind, id); err != nil {
			return err
		}
		return c.repo.WithTx(tx).Remove(ctx, id)
	})
	if err != nil {
		var blocked *domain.IntegrityBlocked
		if errors.As(err, &blocked) {
			c.logger.Info("delete blocked",
				zap.String("entity_kind", string(c.kind)),
				zap.Int64("entity_id", id),
				zap.Int("blockers", len(blocked.Blockers)))
		}
		return err
	}

	c.logger.Info("entity deleted",
		zap.String("entity_kind", string(c.kind)),
		zap.Int64("entity_id", id))
	return nil
}

func (c *crud[T]) translate(err error) error {
	if c.duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return c.duplicate()
	}
	return err
}

// Page is one page of a list with its total count
type Page[D any] struct {
	Items    []D
	Total    int64
	Page     int
	PageSize int
}

// ToPaginatedResponse converts the page for the HTTP layer
func (p Page[D]) ToPaginatedResponse() domain.PaginatedResponse {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int((p.Total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return domain.PaginatedResponse{
		Data:       p.Items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}

func mapPage[T any, D any](items []T, total int64, page, pageSize int, convert func(*T) D) Page[D] {
	page, pageSize = repository.NormalizePage(page, pageSize)
	out := make([]D, 0, len(items))
	for i := range items {
		out = append(out, convert(&items[i]))
	}
	return Page[D]{Items: out, Total: total, Page: page, PageSize: pageSize}
}
