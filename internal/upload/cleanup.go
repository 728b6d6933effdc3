package upload

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/ahscorp/hiring-hive-platform/internal/logging"
)

// ReferencedURLs returns the resume URLs still referenced by stored submissions.
type ReferencedURLs func(ctx context.Context) (map[string]struct{}, error)

// uploadedAt reads the unix timestamp ResumeObjectName puts before the random
// suffix. Names written without a suffix carry the timestamp last.
func uploadedAt(objectName string) (time.Time, bool) {
	base := path.Base(objectName)
	base = strings.TrimSuffix(base, path.Ext(base))
	parts := strings.Split(base, "_")
	if len(parts) < 2 {
		return time.Time{}, false
	}
	stamp := parts[len(parts)-1]
	if len(stamp) == objectSuffixLen && len(parts) > 2 {
		if sec, err := strconv.ParseInt(parts[len(parts)-2], 10, 64); err == nil {
			return time.Unix(sec, 0), true
		}
	}
	sec, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(sec, 0), true
}

// CleanOrphans deletes resumes no submission refers to. Objects younger than
// grace, or whose upload time cannot be read, are kept because their
// submission may still be in flight. It returns the deleted object names.
func CleanOrphans(ctx context.Context, storage StorageClient, referenced ReferencedURLs, grace time.Duration, now time.Time) ([]string, error) {
	logger := logging.For("upload")

	urls, err := referenced(ctx)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(urls))
	for u := range urls {
		if name, ok := storage.ObjectName(u); ok {
			keep[name] = struct{}{}
		}
	}

	names, err := storage.ListFiles(ctx, ResumePrefix+"/")
	if err != nil {
		return nil, err
	}
	var deleted []string
	for _, name := range names {
		if _, ok := keep[name]; ok {
			continue
		}
		at, ok := uploadedAt(name)
		if !ok || now.Sub(at) < grace {
			continue
		}
		if err := storage.DeleteFile(ctx, name); err != nil {
			logger.WithError(err).WithField("object", name).Warn("Failed to delete orphaned resume")
			continue
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

type readOnly struct{ StorageClient }

func (readOnly) DeleteFile(context.Context, string) error { return nil }

// ReadOnly wraps storage so DeleteFile does nothing. CleanOrphans run over it
// reports what it would delete.
func ReadOnly(storage StorageClient) StorageClient {
	return readOnly{storage}
}
