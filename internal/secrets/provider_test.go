package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore map[string]string

func (f fakeStore) GetSecret(_ context.Context, name string) (string, error) {
	if v, ok := f[name]; ok {
		return v, nil
	}
	return "", errors.New("missing")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestProvider_EnvironmentSource(t *testing.T) {
	t.Setenv("ASSETS_TEST_SECRET", "s3cret")

	p, err := NewProvider(&ProviderConfig{Source: SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)

	v, err := p.GetSecret(context.Background(), "ASSETS_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, err = p.GetSecret(context.Background(), "ASSETS_TEST_MISSING")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestProvider_EnvOverridesVault(t *testing.T) {
	p := &Provider{source: SourceVault, vault: fakeStore{"db-password": "from-vault"}, logger: zap.NewNop()}
	ctx := context.Background()

	v, err := p.GetSecretOrEnv(ctx, "db-password", "ASSETS_TEST_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-vault", v)

	t.Setenv("ASSETS_TEST_DB_PASSWORD", "from-env")
	v, err = p.GetSecretOrEnv(ctx, "db-password", "ASSETS_TEST_DB_PASSWORD")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)
}
