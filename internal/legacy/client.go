// Package legacy reads the SQL Server database of the desktop application
// the asset register used to live in. Access is read-only.
package legacy

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/config"
	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"
)

const (
	defaultMaxRetries     = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0

	defaultPingTimeout = 5 * time.Second
)

// Row is one result row keyed by column name
type Row map[string]interface{}

// Client provides read-only access to the legacy database
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus is the result of a legacy connection check
type HealthStatus struct {
	Status  string        `json:"status"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
	Open    int           `json:"open_connections"`
	InUse   int           `json:"in_use"`
}

// NewClient connects to the legacy database, retrying transient failures
// with exponential backoff.
func NewClient(ctx context.Context, cfg *config.LegacyConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("legacy import is disabled")
	}
	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		return nil, fmt.Errorf("legacy connection requires url, user and password")
	}

	connStr := buildConnectionString(cfg)

	var err error
	backoff := defaultInitialBackoff
	for attempt := 1; attempt <= defaultMaxRetries; attempt++ {
		var db *sql.DB
		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)

			pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				logger.Info("legacy database connection established", zap.Int("attempts_taken", attempt))
				return &Client{db: db, logger: logger, queryTimeout: cfg.QueryTimeoutDuration()}, nil
			}
			_ = db.Close()
		}

		logger.Warn("legacy database connection failed",
			zap.Error(err),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", defaultMaxRetries),
		)
		if attempt < defaultMaxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(time.Duration(float64(backoff)*defaultBackoffFactor), defaultMaxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to legacy database after %d attempts: %w", defaultMaxRetries, err)
}

// buildConnectionString turns host:port/database into a sqlserver:// URL
func buildConnectionString(cfg *config.LegacyConfig) string {
	hostPort, database, _ := strings.Cut(cfg.URL, "/")
	host, port, found := strings.Cut(hostPort, ":")
	if !found {
		port = "1433"
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	query.Add("ApplicationIntent", "ReadOnly")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host + ":" + port,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Close closes the connection pool
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close legacy connection: %w", err)
	}
	return nil
}

// HealthCheck pings the legacy database
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultPingTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	stats := c.db.Stats()
	status := &HealthStatus{
		Status:  "healthy",
		Latency: time.Since(start),
		Open:    stats.OpenConnections,
		InUse:   stats.InUse,
	}
	if err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	return status
}

// Query runs a read-only query and returns every row
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) ([]Row, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("legacy client not initialized")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get column names: %w", err)
	}

	var results []Row
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[strings.ToLower(col)] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	c.logger.Debug("legacy query completed",
		zap.Int("rows_returned", len(results)),
		zap.Duration("duration", time.Since(start)),
	)
	return results, nil
}
