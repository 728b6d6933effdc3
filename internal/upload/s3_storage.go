package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3StorageClient stores objects in an AWS S3 bucket.
type S3StorageClient struct {
	api       s3iface.S3API
	bucket    string
	publicURL string
}

// NewS3StorageClient creates a client from the default AWS credential chain.
func NewS3StorageClient(bucket, region, publicURL string) (*S3StorageClient, error) {
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("S3 bucket and region are required")
	}
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %v", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return NewS3StorageClientWithAPI(s3.New(sess), bucket, publicURL), nil
}

// NewS3StorageClientWithAPI wraps an existing S3 API implementation.
func NewS3StorageClientWithAPI(api s3iface.S3API, bucket, publicURL string) *S3StorageClient {
	return &S3StorageClient{api: api, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// UploadFile implements StorageClient.
func (s *S3StorageClient) UploadFile(ctx context.Context, objectName, contentType string, data io.Reader) (string, error) {
	body, ok := data.(io.ReadSeeker)
	if !ok {
		raw, err := io.ReadAll(data)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %v", err)
	}
	return s.publicURL + "/" + objectName, nil
}

func isS3NotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
	}
	return false
}

// DownloadFile implements StorageClient.
func (s *S3StorageClient) DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error) {
	out, err := s.api.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
	})
	if isS3NotFound(err) {
		return nil, 0, ErrObjectNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to download from S3: %v", err)
	}
	return out.Body, aws.Int64Value(out.ContentLength), nil
}

// DeleteFile implements StorageClient.
func (s *S3StorageClient) DeleteFile(ctx context.Context, objectName string) error {
	_, err := s.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

// ListFiles implements StorageClient.
func (s *S3StorageClient) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.api.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			names = append(names, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list S3 objects: %v", err)
	}
	return names, nil
}

// ObjectName implements StorageClient.
func (s *S3StorageClient) ObjectName(url string) (string, bool) {
	base := s.publicURL + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}
