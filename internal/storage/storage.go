// Package storage keeps generated report files on the local filesystem or in
// Azure Blob Storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/foxerka/enterprise-assets/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
)

// Storage stores objects under slash separated keys
type Storage interface {
	Upload(ctx context.Context, key string, contentType string, data io.Reader) (int64, error)
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewStorage creates a storage backend based on configuration.
// "local" writes below LocalBasePath, "cloud" or "azure" uses a blob container.
func NewStorage(cfg *config.StorageConfig, logger *zap.Logger) (Storage, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalStorage(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobStorage(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// ReportKey builds the archive key for a report generated at the given time,
// e.g. reports/maintenance/2024/06/maintenance-20240601-060000-1a2b3c4d.xlsx
func ReportKey(report string, generatedAt time.Time) string {
	t := generatedAt.UTC()
	name := fmt.Sprintf("%s-%s-%s.xlsx", report, t.Format("20060102-150405"), uuid.New().String()[:8])
	return path.Join("reports", report, t.Format("2006"), t.Format("01"), name)
}

// cleanKey rejects absolute keys and keys escaping the storage root
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) fullPath(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

// Upload writes data to key, replacing any existing file
func (s *LocalStorage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (int64, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	return size, nil
}

// Download opens the file stored under key
func (s *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete removes the file; a missing file is not an error
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.fullPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
