package upload

import (
	"context"
	"time"

	"github.com/ahscorp/hiring-hive-platform/internal/submission"
)

// Direct stores resumes in-process without going through the upload endpoint.
type Direct struct {
	storage StorageClient
	baseURL string
	now     func() time.Time
}

// NewDirect returns an uploader writing straight to storage.
func NewDirect(storage StorageClient, baseURL string) *Direct {
	return &Direct{storage: storage, baseURL: baseURL, now: time.Now}
}

// Upload implements submission.Uploader.
func (d *Direct) Upload(ctx context.Context, file submission.ResumeFile, targetID, fullName string) (string, error) {
	objectName := ResumeObjectName(targetID, fullName, file.Name, d.now())
	url, err := d.storage.UploadFile(ctx, objectName, file.ContentType, file.Reader())
	if err != nil {
		return "", &submission.UploadError{Reason: msgMoveFailed, Err: err}
	}
	return ResolveURL(d.baseURL, url), nil
}
