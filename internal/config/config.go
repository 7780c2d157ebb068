package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Legacy    LegacyConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// DatabaseConfig describes the primary store. Driver is "postgres" or "sqlite";
// for sqlite only Path is used.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// LegacyConfig holds the connection to the SQL Server database of the
// desktop application the data is imported from. Read-only.
type LegacyConfig struct {
	Enabled bool
	// URL in format host:port/database
	URL          string
	User         string
	Password     string
	MaxOpenConns int
	QueryTimeout int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  int // minutes
	// AdminRoles are role names allowed to manage users and roles.
	// Empty disables the check.
	AdminRoles []string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins is a list of allowed origins; "*" allows all (development only)
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit per client IP for anonymous requests
	RequestsPerMinute int
	// RequestsPerMinuteAuth is the limit per user for authenticated requests
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// JobsConfig controls the background scheduler
type JobsConfig struct {
	Enabled bool
	// MaintenanceScanCron uses the 6-field format (with seconds)
	MaintenanceScanCron string
	// ArchiveReports uploads the maintenance report produced by each scan to storage
	ArchiveReports bool
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// QueryTimeoutDuration returns the legacy query timeout as duration
func (l *LegacyConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(l.QueryTimeout) * time.Second
}

// TokenTTLDuration returns the access token lifetime
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// Secrets from Key Vault are resolved by LoadWithSecrets.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	if v.GetBool("LEGACY_ENABLED") {
		cfg.Legacy.Enabled = true
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from Azure Key Vault.
//
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is
// staging or production. Otherwise environment variables are used as loaded.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if err := applySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// secretLookup is satisfied by *secrets.Provider
type secretLookup interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

func applySecrets(ctx context.Context, cfg *Config, provider secretLookup) error {
	if host, err := provider.GetSecretOrEnv(ctx, "ASSETS-DB-HOST", "DATABASE_HOST"); err == nil && host != "" {
		cfg.Database.Host = host
	}
	if user, err := provider.GetSecretOrEnv(ctx, "ASSETS-DB-USER", "DATABASE_USER"); err == nil && user != "" {
		cfg.Database.User = user
	}
	if password, err := provider.GetSecretOrEnv(ctx, "ASSETS-DB-PASSWORD", "DATABASE_PASSWORD"); err == nil && password != "" {
		cfg.Database.Password = password
	}

	secret, err := provider.GetSecretOrEnv(ctx, "ASSETS-JWT-SECRET", "JWT_SECRET")
	if err != nil {
		return fmt.Errorf("failed to resolve jwt secret: %w", err)
	}
	cfg.Auth.JWTSecret = secret

	if connStr, err := provider.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}

	if cfg.Legacy.Enabled {
		if url, err := provider.GetSecretOrEnv(ctx, "LEGACY-URL", "LEGACY_URL"); err == nil && url != "" {
			cfg.Legacy.URL = url
		}
		if user, err := provider.GetSecretOrEnv(ctx, "LEGACY-USERNAME", "LEGACY_USER"); err == nil && user != "" {
			cfg.Legacy.User = user
		}
		if password, err := provider.GetSecretOrEnv(ctx, "LEGACY-PASSWORD", "LEGACY_PASSWORD"); err == nil && password != "" {
			cfg.Legacy.Password = password
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Enterprise Assets API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "assets")
	v.SetDefault("database.user", "assets_user")
	v.SetDefault("database.password", "assets_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.path", "./assets.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)

	v.SetDefault("legacy.enabled", false)
	v.SetDefault("legacy.maxOpenConns", 4)
	v.SetDefault("legacy.queryTimeout", 60)

	v.SetDefault("auth.issuer", "enterprise-assets")
	v.SetDefault("auth.tokenTTL", 480)
	v.SetDefault("auth.adminRoles", []string{"admin", "administrator", "администратор"})

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "reports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID", "Content-Disposition"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 240)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.maintenanceScanCron", "0 0 6 * * *")
	v.SetDefault("jobs.archiveReports", false)
}
