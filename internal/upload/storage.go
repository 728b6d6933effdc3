// Package upload stores resumes. It provides the storage backends, the
// upload endpoint and the uploaders used by the submission workflow.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResumePrefix is the object prefix every resume is stored under.
const ResumePrefix = "resumes"

// DefaultTarget is the directory used when a resume has no job reference.
const DefaultTarget = "default"

// ErrObjectNotFound is returned when a stored object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// StorageClient is an object store for resume files.
type StorageClient interface {
	// UploadFile stores data under objectName and returns the URL it can be fetched from.
	UploadFile(ctx context.Context, objectName, contentType string, data io.Reader) (string, error)
	DownloadFile(ctx context.Context, objectName string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, objectName string) error
	// ListFiles returns the names of the objects under prefix.
	ListFiles(ctx context.Context, prefix string) ([]string, error)
	// ObjectName maps a URL returned by UploadFile back to its object name.
	ObjectName(url string) (string, bool)
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// SanitizeSegment replaces every character outside [a-zA-Z0-9_-] with "_".
func SanitizeSegment(s string) string {
	return unsafeChars.ReplaceAllString(s, "_")
}

// objectSuffixLen is the length of the random tail that keeps two uploads
// from the same name in the same second apart.
const objectSuffixLen = 8

func randomSuffix() string {
	return uuid.NewString()[:objectSuffixLen]
}

var objectSuffix = randomSuffix

// ResumeObjectName builds "resumes/<target>/<full name>_<unix>_<suffix>.<ext>".
func ResumeObjectName(target, fullName, fileName string, now time.Time) string {
	return resumeObjectName(target, fullName, fileName, now, objectSuffix())
}

func resumeObjectName(target, fullName, fileName string, now time.Time, suffix string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		target = DefaultTarget
	}
	name := fmt.Sprintf("%s_%d_%s", SanitizeSegment(strings.TrimSpace(fullName)), now.Unix(), suffix)
	if ext := strings.TrimPrefix(filepath.Ext(fileName), "."); ext != "" {
		name += "." + SanitizeSegment(strings.ToLower(ext))
	}
	return path.Join(ResumePrefix, SanitizeSegment(target), name)
}

// DiskURLPrefix is the relative URL prefix of objects kept on disk.
const DiskURLPrefix = "uploads"

// DiskStorage keeps objects below a local directory. URLs are relative paths
// under URLPrefix, served by the HTTP server from Dir.
type DiskStorage struct {
	Dir       string
	URLPrefix string
}

// NewDiskStorage returns a disk backend rooted at dir.
func NewDiskStorage(dir string) *DiskStorage {
	return &DiskStorage{Dir: dir, URLPrefix: DiskURLPrefix}
}

func (d *DiskStorage) path(objectName string) (string, error) {
	clean := path.Clean("/" + objectName)
	if clean == "/" {
		return "", fmt.Errorf("invalid object name %q", objectName)
	}
	return filepath.Join(d.Dir, filepath.FromSlash(clean)), nil
}

// UploadFile implements StorageClient.
func (d *DiskStorage) UploadFile(ctx context.Context, objectName, _ string, data io.Reader) (string, error) {
	p, err := d.path(objectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, readerWithContext(ctx, data)); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return path.Join(d.URLPrefix, path.Clean("/" + objectName)[1:]), nil
}

// DownloadFile implements StorageClient.
func (d *DiskStorage) DownloadFile(_ context.Context, objectName string) (io.ReadCloser, int64, error) {
	p, err := d.path(objectName)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, ErrObjectNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}

// DeleteFile implements StorageClient.
func (d *DiskStorage) DeleteFile(_ context.Context, objectName string) error {
	p, err := d.path(objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

// ListFiles implements StorageClient.
func (d *DiskStorage) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	root, err := d.path(prefix)
	if err != nil {
		return nil, err
	}
	var names []string
	err = filepath.WalkDir(root, func(p string, entry os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.Dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	return names, err
}

// ObjectName implements StorageClient.
func (d *DiskStorage) ObjectName(url string) (string, bool) {
	prefix := strings.Trim(d.URLPrefix, "/") + "/"
	i := strings.Index(url, prefix)
	if i < 0 {
		return "", false
	}
	return url[i+len(prefix):], true
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
