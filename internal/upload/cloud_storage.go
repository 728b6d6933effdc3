package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageClient stores objects in a Google Cloud Storage bucket.
type CloudStorageClient struct {
	BucketName string
	// PublicURL is the base of returned URLs, defaults to https://storage.googleapis.com/<bucket>.
	PublicURL string
	Client    *storage.Client
}

// NewCloudStorageClient creates a client using application default credentials.
func NewCloudStorageClient(ctx context.Context, bucketName, publicURL string) (*CloudStorageClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud storage client: %v", err)
	}
	if publicURL == "" {
		publicURL = "https://storage.googleapis.com/" + bucketName
	}
	return &CloudStorageClient{
		BucketName: bucketName,
		PublicURL:  strings.TrimRight(publicURL, "/"),
		Client:     client,
	}, nil
}

// UploadFile implements StorageClient.
func (c *CloudStorageClient) UploadFile(ctx context.Context, objectName, contentType string, data io.Reader) (string, error) {
	wc := c.Client.Bucket(c.BucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, data); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("failed to write data to object: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close object writer: %v", err)
	}
	return c.PublicURL + "/" + objectName, nil
}

// DownloadFile implements StorageClient.
func (c *CloudStorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	rc, err := c.Client.Bucket(c.BucketName).Object(objectName).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, 0, ErrObjectNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open object: %v", err)
	}
	return rc, rc.Attrs.Size, nil
}

// DeleteFile implements StorageClient.
func (c *CloudStorageClient) DeleteFile(ctx context.Context, objectName string) error {
	err := c.Client.Bucket(c.BucketName).Object(objectName).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

// ListFiles implements StorageClient.
func (c *CloudStorageClient) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	it := c.Client.Bucket(c.BucketName).Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %v", err)
		}
		names = append(names, attrs.Name)
	}
	return names, nil
}

// ObjectName implements StorageClient.
func (c *CloudStorageClient) ObjectName(url string) (string, bool) {
	base := c.PublicURL + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

// Close releases the underlying client.
func (c *CloudStorageClient) Close() error {
	return c.Client.Close()
}
