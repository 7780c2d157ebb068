package database

import (
	"context"
	"fmt"
	"time"

	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/foxerka/enterprise-assets/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection for the configured driver
func NewDatabase(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	case "postgres", "":
		dialector = postgres.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.AssetType{},
		&domain.Category{},
		&domain.AssetStatus{},
		&domain.Unit{},
		&domain.PurchaseStatus{},
		&domain.Specialty{},
		&domain.Qualification{},
		&domain.Role{},
		&domain.User{},
		&domain.Master{},
		&domain.Workshop{},
		&domain.Supplier{},
		&domain.Asset{},
		&domain.Equipment{},
		&domain.Purchase{},
		&domain.MaintenanceRecord{},
		&domain.WorkAct{},
		&domain.WorkActMaterial{},
		&domain.CompletionAct{},
		&domain.NumberSequence{},
		&domain.LegacyMapping{},
	}
}

// AutoMigrate runs automatic migrations (for development and sqlite only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// HealthCheck pings the database
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// PoolStats is a snapshot of the connection pool
type PoolStats struct {
	OpenConnections int    `json:"openConnections"`
	InUse           int    `json:"inUse"`
	Idle            int    `json:"idle"`
	WaitCount       int64  `json:"waitCount"`
	WaitDuration    string `json:"waitDuration"`
	MaxOpen         int    `json:"maxOpenConnections"`
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(ctx context.Context, db *gorm.DB) (*PoolStats, error) {
	if err := HealthCheck(ctx, db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	s := sqlDB.Stats()
	return &PoolStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
		WaitCount:       s.WaitCount,
		WaitDuration:    s.WaitDuration.String(),
		MaxOpen:         s.MaxOpenConnections,
	}, nil
}

// CheckReachability runs a single health check in the background and
// delivers the result on the returned channel, which is closed afterwards.
// Nothing in the request path waits on it.
func CheckReachability(ctx context.Context, db *gorm.DB, timeout time.Duration) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		result <- HealthCheck(checkCtx, db)
	}()
	return result
}
