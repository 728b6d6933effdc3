package upload

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
)

// Storage drivers.
const (
	DriverDisk = "disk"
	DriverGCS  = "gcs"
	DriverS3   = "s3"
)

// NewStorage builds the storage backend selected by cfg.
func NewStorage(ctx context.Context, cfg config.StorageConfig) (StorageClient, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverDisk:
		dir := cfg.Dir
		if dir == "" {
			dir = DiskURLPrefix
		}
		return NewDiskStorage(dir), nil
	case DriverGCS:
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("storage bucket is required for the %s driver", DriverGCS)
		}
		return NewCloudStorageClient(ctx, cfg.Bucket, cfg.PublicURL)
	case DriverS3:
		return NewS3StorageClient(cfg.Bucket, cfg.Region, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ResolveURL makes a relative resume URL absolute against base. Absolute
// URLs and an empty base are returned unchanged.
func ResolveURL(base, u string) string {
	if u == "" || base == "" || strings.Contains(u, "://") {
		return u
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(u, "/")
}
