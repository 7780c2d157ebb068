package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

// AzureBlobStorage implements Storage on an Azure Blob container
type AzureBlobStorage struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewAzureBlobStorage connects and makes sure the container exists
func NewAzureBlobStorage(connectionString, containerName string, logger *zap.Logger) (*AzureBlobStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	_, err = client.CreateContainer(context.Background(), containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	logger.Info("Azure Blob Storage initialized", zap.String("container", containerName))

	return &AzureBlobStorage{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// Upload streams data into the blob named key
func (s *AzureBlobStorage) Upload(ctx context.Context, key string, contentType string, data io.Reader) (int64, error) {
	blobName, err := cleanKey(key)
	if err != nil {
		return 0, err
	}

	reader := &countingReader{r: data}
	_, err = s.client.UploadStream(ctx, s.containerName, blobName, reader, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to upload blob: %w", err)
	}

	s.logger.Info("blob uploaded",
		zap.String("blob_name", blobName),
		zap.String("container", s.containerName),
		zap.Int64("size", reader.count),
	)
	return reader.count, nil
}

type countingReader struct {
	r     io.Reader
	count int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.count += int64(n)
	return n, err
}

// Download returns the blob body; the caller closes it
func (s *AzureBlobStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.containerName, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	return resp.Body, nil
}

// Delete removes the blob; a missing blob is not an error
func (s *AzureBlobStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteBlob(ctx, s.containerName, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	s.logger.Info("blob deleted", zap.String("blob_name", key), zap.String("container", s.containerName))
	return nil
}
