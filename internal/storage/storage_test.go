package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := "reports/maintenance/2024/06/report.xlsx"
	n, err := s.Upload(ctx, key, "application/octet-stream", strings.NewReader("payload"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "payload", string(body))

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../outside.txt", "a/../../b"} {
		_, err := s.Upload(context.Background(), key, "text/plain", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestReportKey(t *testing.T) {
	at := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	key := ReportKey("maintenance", at)

	assert.True(t, strings.HasPrefix(key, "reports/maintenance/2024/06/maintenance-20240601-060000-"), key)
	assert.True(t, strings.HasSuffix(key, ".xlsx"))
	assert.NotEqual(t, key, ReportKey("maintenance", at))
}
