package service

import (
	"context"
	"strings"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/mapper"
	"github.com/foxerka/enterprise-assets/internal/repository"
	"gorm.io/gorm"
)

// WorkActService records work performed by masters
type WorkActService struct {
	crud *crud[domain.WorkAct]
}

func NewWorkActService(deps Deps) *WorkActService {
	return &WorkActService{
		crud: newCrud(deps, domain.KindWorkAct, func(w *domain.WorkAct) int64 { return w.ID }),
	}
}

func applyWorkActRequest(w *domain.WorkAct, req *domain.WorkActRequest) {
	w.AssetID = req.AssetID.Ptr()
	w.MasterID = req.MasterID.Ptr()
	w.Description = strings.TrimSpace(req.Description)
}

func (s *WorkActService) Create(ctx context.Context, req *domain.WorkActRequest) (*domain.WorkActDTO, error) {
	w := &domain.WorkAct{}
	applyWorkActRequest(w, req)
	created, err := s.crud.create(ctx, w, nil, nil)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkActDTO(created)
	return &dto, nil
}

func (s *WorkActService) GetByID(ctx context.Context, id int64) (*domain.WorkActDTO, error) {
	w, err := s.crud.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkActDTO(w)
	return &dto, nil
}

func (s *WorkActService) Update(ctx context.Context, id int64, req *domain.WorkActRequest) (*domain.WorkActDTO, error) {
	updated, err := s.crud.update(ctx, id, func(_ *gorm.DB, w *domain.WorkAct) (interface{}, error) {
		applyWorkActRequest(w, req)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	dto := mapper.ToWorkActDTO(updated)
	return &dto, nil
}

// Delete deletes a work act unless materials or completion acts reference it
func (s *WorkActService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

// List returns work acts, newest first
func (s *WorkActService) List(ctx context.Context, assetID, masterID *int64, page, pageSize int) (Page[domain.WorkActDTO], error) {
	q := repository.Query{Order: "created_at DESC, id DESC"}
	if assetID != nil {
		id := *assetID
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("asset_id = ?", id) })
	}
	if masterID != nil {
		id := *masterID
		q.Scopes = append(q.Scopes, func(db *gorm.DB) *gorm.DB { return db.Where("master_id = ?", id) })
	}
	items, total, err := s.crud.list(ctx, q, page, pageSize)
	if err != nil {
		return Page[domain.WorkActDTO]{}, err
	}
	return mapPage(items, total, page, pageSize, mapper.ToWorkActDTO), nil
}
