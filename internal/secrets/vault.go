package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// VaultClient reads secrets from Azure Key Vault with an optional TTL cache
type VaultClient struct {
	client       *azsecrets.Client
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient creates a Key Vault client authenticated with
// DefaultAzureCredential (environment, managed identity or Azure CLI).
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	logger.Info("Azure Key Vault client initialized",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)

	return &VaultClient{
		client:       client,
		logger:       logger,
		cacheEnabled: cfg.CacheEnabled,
		cacheTTL:     ttl,
		cache:        make(map[string]cachedSecret),
	}, nil
}

// GetSecret retrieves the latest version of a secret
func (v *VaultClient) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := v.cached(name); ok {
		return value, nil
	}

	resp, err := v.client.GetSecret(ctx, name, "", nil)
	if err != nil {
		v.logger.Error("failed to get secret from Key Vault",
			zap.String("secret_name", name),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%w: %s has no value", ErrSecretNotFound, name)
	}

	if v.cacheEnabled {
		v.mu.Lock()
		v.cache[name] = cachedSecret{value: *resp.Value, expiresAt: time.Now().Add(v.cacheTTL)}
		v.mu.Unlock()
	}
	return *resp.Value, nil
}

func (v *VaultClient) cached(name string) (string, bool) {
	if !v.cacheEnabled {
		return "", false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	c, ok := v.cache[name]
	if !ok {
		return "", false
	}
	if time.Now().After(c.expiresAt) {
		delete(v.cache, name)
		return "", false
	}
	return c.value, true
}
