package logger

import (
	"fmt"

	"github.com/foxerka/enterprise-assets/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new structured logger.
// JSON output is used for production or when logging.format is "json".
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" || appCfg.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	zapCfg.InitialFields = map[string]interface{}{
		"app":         appCfg.Name,
		"environment": appCfg.Environment,
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}

// WithEntity scopes a logger to a single entity
func WithEntity(logger *zap.Logger, kind string, id int64) *zap.Logger {
	return logger.With(
		zap.String("entity_kind", kind),
		zap.Int64("entity_id", id),
	)
}

// WithUser adds user context to logger
func WithUser(logger *zap.Logger, userID int64, username string) *zap.Logger {
	return logger.With(
		zap.Int64("user_id", userID),
		zap.String("username", username),
	)
}
