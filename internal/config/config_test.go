package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 8*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Contains(t, cfg.Auth.AdminRoles, "admin")
	assert.Equal(t, "local", cfg.Storage.Mode)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeoutDuration())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, "0 0 6 * * *", cfg.Jobs.MaintenanceScanCron)
	assert.False(t, cfg.Jobs.ArchiveReports)
	assert.False(t, cfg.Legacy.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("LEGACY_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Legacy.Enabled)
}

func TestLoadWithSecrets_WithoutVault(t *testing.T) {
	t.Setenv("USE_AZURE_KEY_VAULT", "")
	t.Setenv("JWT_SECRET", "plain")

	cfg, err := LoadWithSecrets(context.Background(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Auth.JWTSecret)
}

func TestLoadWithSecrets_VaultRequiresName(t *testing.T) {
	t.Setenv("USE_AZURE_KEY_VAULT", "true")
	t.Setenv("APP_ENVIRONMENT", "production")
	t.Setenv("AZURE_KEY_VAULT_NAME", "")

	_, err := LoadWithSecrets(context.Background(), zap.NewNop())
	assert.Error(t, err)
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetSecretOrEnv(_ context.Context, secretName, _ string) (string, error) {
	v, ok := f[secretName]
	if !ok {
		return "", errors.New("secret not found")
	}
	return v, nil
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "localhost", User: "assets_user"},
		Legacy:   LegacyConfig{Enabled: true},
	}
	err := applySecrets(context.Background(), cfg, fakeSecrets{
		"ASSETS-DB-HOST":     "db.internal",
		"ASSETS-DB-PASSWORD": "pw",
		"ASSETS-JWT-SECRET":  "signing-key",
		"LEGACY-URL":         "legacy:1433/assets",
	})
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "assets_user", cfg.Database.User)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "signing-key", cfg.Auth.JWTSecret)
	assert.Equal(t, "legacy:1433/assets", cfg.Legacy.URL)
}

func TestApplySecrets_MissingJWTSecret(t *testing.T) {
	err := applySecrets(context.Background(), &Config{}, fakeSecrets{})
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.ConnectionString())
}
