package jobs

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/foxerka/enterprise-assets/internal/domain"
	"github.com/foxerka/enterprise-assets/internal/report"
	"github.com/foxerka/enterprise-assets/internal/status"
	"github.com/foxerka/enterprise-assets/internal/storage"
	"go.uber.org/zap"
)

// MaintenanceScanJobName is the scheduler name of the maintenance scan
const MaintenanceScanJobName = "maintenance-scan"

const defaultScanTimeout = 5 * time.Minute

// EquipmentLister loads every equipment unit with its asset, workshop,
// status and master preloaded.
type EquipmentLister interface {
	ListAllEquipment(ctx context.Context) ([]domain.Equipment, error)
}

// ScanResult summarizes one maintenance scan
type ScanResult struct {
	Total      int
	Faulty     int
	Overdue    int
	DueSoon    int
	ArchiveKey string
}

// MaintenanceScanJob derives the maintenance tier of every unit, logs the
// units needing attention and optionally archives the maintenance report.
type MaintenanceScanJob struct {
	equipment EquipmentLister
	archive   storage.Storage
	logger    *zap.Logger
	now       func() time.Time
}

// NewMaintenanceScanJob creates the job. archive may be nil to disable archiving.
func NewMaintenanceScanJob(equipment EquipmentLister, archive storage.Storage, logger *zap.Logger) *MaintenanceScanJob {
	return &MaintenanceScanJob{
		equipment: equipment,
		archive:   archive,
		logger:    logger,
		now:       time.Now,
	}
}

// Scan runs one scan
func (j *MaintenanceScanJob) Scan(ctx context.Context) (*ScanResult, error) {
	items, err := j.equipment.ListAllEquipment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}

	now := j.now()
	res := &ScanResult{Total: len(items)}
	for i := range items {
		e := &items[i]
		switch status.MaintenancePriority(e, now) {
		case status.PriorityFaulty:
			res.Faulty++
		case status.PriorityOverdue:
			res.Overdue++
			j.logger.Warn("maintenance overdue",
				zap.Int64("equipment_id", e.ID),
				zap.String("label", status.Maintenance(e.NextMaintenanceDate, now).Label))
		case status.PriorityDueSoon:
			res.DueSoon++
		}
	}

	if j.archive != nil {
		var buf bytes.Buffer
		if err := report.Maintenance(&buf, items, now); err != nil {
			return res, fmt.Errorf("failed to render maintenance report: %w", err)
		}
		key := storage.ReportKey("maintenance", now)
		if _, err := j.archive.Upload(ctx, key, report.ContentType, &buf); err != nil {
			return res, fmt.Errorf("failed to archive maintenance report: %w", err)
		}
		res.ArchiveKey = key
	}

	j.logger.Info("maintenance scan completed",
		zap.Int("total", res.Total),
		zap.Int("faulty", res.Faulty),
		zap.Int("overdue", res.Overdue),
		zap.Int("due_soon", res.DueSoon),
		zap.String("archive_key", res.ArchiveKey))
	return res, nil
}

// Run adapts Scan to the scheduler
func (j *MaintenanceScanJob) Run(ctx context.Context) error {
	_, err := j.Scan(ctx)
	return err
}

// RegisterMaintenanceScanJob schedules the scan with cronExpr
func RegisterMaintenanceScanJob(scheduler *Scheduler, job *MaintenanceScanJob, cronExpr string) error {
	return scheduler.AddJob(MaintenanceScanJobName, cronExpr, defaultScanTimeout, job.Run)
}
