package service_test

import (
	"testing"

	"github.com/foxerka/enterprise-assets/internal/integrity"
	"github.com/foxerka/enterprise-assets/internal/lifecycle"
	"github.com/foxerka/enterprise-assets/internal/service"
	"github.com/foxerka/enterprise-assets/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupDeps(t *testing.T) (service.Deps, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return service.Deps{
		DB:      db,
		Rules:   lifecycle.NewRules(db),
		Checker: integrity.NewChecker(db, logger),
		Logger:  logger,
	}, db
}
