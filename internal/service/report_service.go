package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/foxerka/enterprise-assets/internal/report"
	"github.com/foxerka/enterprise-assets/internal/storage"
	"go.uber.org/zap"
)

// ErrArchiveDisabled is returned when no report storage is configured
var ErrArchiveDisabled = errors.New("report archiving is disabled")

// ArchivedReport describes a report uploaded to storage
type ArchivedReport struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	Rows int    `json:"rows"`
}

// ReportService renders XLSX reports and archives them to storage
type ReportService struct {
	equipment *EquipmentService
	archive   storage.Storage
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService creates a report service. archive may be nil.
func NewReportService(equipment *EquipmentService, archive storage.Storage, logger *zap.Logger) *ReportService {
	return &ReportService{equipment: equipment, archive: archive, logger: logger, now: time.Now}
}

// WriteEquipment renders the equipment register to w
func (s *ReportService) WriteEquipment(ctx context.Context, w io.Writer) error {
	items, err := s.equipment.ListAllEquipment(ctx)
	if err != nil {
		return err
	}
	return report.Equipment(w, items, s.now())
}

// WriteMaintenance renders the maintenance schedule to w
func (s *ReportService) WriteMaintenance(ctx context.Context, w io.Writer) error {
	items, err := s.equipment.ListAllEquipment(ctx)
	if err != nil {
		return err
	}
	return report.Maintenance(w, items, s.now())
}

// ArchiveEquipment renders the equipment register and uploads it
func (s *ReportService) ArchiveEquipment(ctx context.Context) (*ArchivedReport, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	items, err := s.equipment.ListAllEquipment(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var buf bytes.Buffer
	if err := report.Equipment(&buf, items, now); err != nil {
		return nil, fmt.Errorf("failed to render equipment report: %w", err)
	}

	key := storage.ReportKey("equipment", now)
	size, err := s.archive.Upload(ctx, key, report.ContentType, &buf)
	if err != nil {
		s.logger.Error("failed to archive report", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to archive equipment report: %w", err)
	}

	s.logger.Info("report archived", zap.String("key", key), zap.Int64("size", size), zap.Int("rows", len(items)))
	return &ArchivedReport{Key: key, Size: size, Rows: len(items)}, nil
}
