package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/foxerka/enterprise-assets/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurchaseNumberScope is the sequence scope of purchase numbers
const PurchaseNumberScope = "PUR"

// NumberSequenceService generates human readable document numbers.
//
// Format: {SCOPE}-{YYYYMMDD}-{SEQUENCE}
// Example: PUR-20240601-0007
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(repo *repository.NumberSequenceRepository, logger *zap.Logger) *NumberSequenceService {
	return &NumberSequenceService{repo: repo, logger: logger, now: time.Now}
}

// NextPurchaseNumber returns the next purchase number of the current day.
// tx may be nil; when set the sequence is advanced inside that transaction
// so a failed create does not consume a number.
func (s *NumberSequenceService) NextPurchaseNumber(ctx context.Context, tx *gorm.DB) (string, error) {
	return s.next(ctx, tx, PurchaseNumberScope)
}

func (s *NumberSequenceService) next(ctx context.Context, tx *gorm.DB, scope string) (string, error) {
	day := s.now().UTC()
	period, _ := strconv.Atoi(day.Format("20060102"))

	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	seq, err := repo.GetNextNumber(ctx, scope, period)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("scope", scope),
			zap.Int("period", period),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", scope, err)
	}

	return fmt.Sprintf("%s-%d-%04d", scope, period, seq), nil
}
