package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	SourceEnvironment SecretSource = "environment"
	SourceVault       SecretSource = "vault"
	// SourceAuto picks vault outside development
	SourceAuto SecretSource = "auto"
)

// ErrSecretNotFound is returned when a secret has no value in the active source
var ErrSecretNotFound = errors.New("secret not found")

// store is the read side of a secret vault
type store interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Provider resolves secrets from the environment or Azure Key Vault
type Provider struct {
	source SecretSource
	vault  store
	logger *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string // "development", "staging", "production"
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ResolveSource turns "auto" into a concrete source for the environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "test", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// NewProvider creates a new secrets provider
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)

	p := &Provider{source: source, logger: logger}

	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vc, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		p.vault = vc
	}

	logger.Info("secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)
	return p, nil
}

// GetSecret retrieves a secret by name. For the environment source the name
// is the variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("%w: environment variable %s", ErrSecretNotFound, name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv prefers an explicitly set environment variable over the
// configured source.
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if v := os.Getenv(envName); v != "" {
		p.logger.Debug("using environment variable override", zap.String("env_name", envName))
		return v, nil
	}
	return p.GetSecret(ctx, secretName)
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}
