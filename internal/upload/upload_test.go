package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	objectSuffix = func() string { return "0a1b2c3d" }
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type mockStorageClient struct {
	mu        sync.Mutex
	uploaded  map[string][]byte
	types     map[string]string
	deleted   []string
	uploadErr error
}

func newMockStorageClient() *mockStorageClient {
	return &mockStorageClient{
		uploaded: make(map[string][]byte),
		types:    make(map[string]string),
	}
}

func (m *mockStorageClient) UploadFile(_ context.Context, objectName, contentType string, data io.Reader) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploaded[objectName] = b
	m.types[objectName] = contentType
	return "https://files.example.com/" + objectName, nil
}

func (m *mockStorageClient) DownloadFile(_ context.Context, objectName string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.uploaded[objectName]
	if !ok {
		return nil, 0, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

func (m *mockStorageClient) DeleteFile(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.uploaded[objectName]; !ok {
		return ErrObjectNotFound
	}
	delete(m.uploaded, objectName)
	m.deleted = append(m.deleted, objectName)
	return nil
}

func (m *mockStorageClient) ListFiles(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for k := range m.uploaded {
		if strings.HasPrefix(k, prefix) {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *mockStorageClient) ObjectName(url string) (string, bool) {
	const base = "https://files.example.com/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	return strings.TrimPrefix(url, base), true
}

func TestResumeObjectName(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		fullName string
		file     string
		want     string
	}{
		{"plain", "J1001", "Jane Doe", "cv.pdf", "resumes/J1001/Jane_Doe_1709287200_0a1b2c3d.pdf"},
		{"default target", "", "Jane", "cv.DOCX", "resumes/default/Jane_1709287200_0a1b2c3d.docx"},
		{"unsafe target", "../etc", "a/b", "x.doc", "resumes/___etc/a_b_1709287200_0a1b2c3d.doc"},
		{"no extension", "J1", "Bob", "resume", "resumes/J1/Bob_1709287200_0a1b2c3d"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResumeObjectName(tc.target, tc.fullName, tc.file, fixedNow))
		})
	}
}

func TestResumeObjectName_sameSecond(t *testing.T) {
	a := resumeObjectName("J1001", "Jane Doe", "cv.pdf", fixedNow, randomSuffix())
	b := resumeObjectName("J1001", "Jane Doe", "cv.pdf", fixedNow, randomSuffix())

	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^resumes/J1001/Jane_Doe_1709287200_[0-9a-f]{8}\.pdf$`, a)
	for _, name := range []string{a, b} {
		at, ok := uploadedAt(name)
		require.True(t, ok)
		assert.True(t, fixedNow.Equal(at))
	}
}

func TestUploadedAt(t *testing.T) {
	tests := []struct {
		name   string
		object string
		want   int64
		ok     bool
	}{
		{"with suffix", "resumes/J1/Jane_1709287200_0a1b2c3d.pdf", 1709287200, true},
		{"numeric suffix", "resumes/J1/Jane_1709287200_12345678.pdf", 1709287200, true},
		{"without suffix", "resumes/J1/Jane_Doe_1709287200.pdf", 1709287200, true},
		{"no timestamp", "resumes/J1/unparseable.pdf", 0, false},
		{"bad timestamp", "resumes/J1/Jane_soon_0a1b2c3d.pdf", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			at, ok := uploadedAt(tc.object)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, at.Unix())
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://jobs.example.com/uploads/resumes/a.pdf", ResolveURL("https://jobs.example.com/", "uploads/resumes/a.pdf"))
	assert.Equal(t, "uploads/resumes/a.pdf", ResolveURL("", "uploads/resumes/a.pdf"))
	assert.Equal(t, "https://cdn.example.com/a.pdf", ResolveURL("https://jobs.example.com", "https://cdn.example.com/a.pdf"))
	assert.Equal(t, "", ResolveURL("https://jobs.example.com", ""))
}

func TestDiskStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(dir)
	ctx := context.Background()

	url, err := s.UploadFile(ctx, "resumes/J1/jane_1.pdf", submission.MimePDF, strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/resumes/J1/jane_1.pdf", url)

	_, err = os.Stat(filepath.Join(dir, "resumes", "J1", "jane_1.pdf"))
	require.NoError(t, err)

	name, ok := s.ObjectName("https://jobs.example.com/" + url)
	require.True(t, ok)
	assert.Equal(t, "resumes/J1/jane_1.pdf", name)

	rc, size, err := s.DownloadFile(ctx, name)
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "pdf", string(b))
	assert.EqualValues(t, 3, size)

	names, err := s.ListFiles(ctx, ResumePrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{"resumes/J1/jane_1.pdf"}, names)

	require.NoError(t, s.DeleteFile(ctx, name))
	assert.ErrorIs(t, s.DeleteFile(ctx, name), ErrObjectNotFound)
	_, _, err = s.DownloadFile(ctx, name)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestDiskStorage_StaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	s := NewDiskStorage(filepath.Join(dir, "root"))

	_, err := s.UploadFile(context.Background(), "../../escape.pdf", submission.MimePDF, strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.pdf"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = os.Stat(filepath.Join(dir, "root", "escape.pdf"))
	assert.NoError(t, err)
}

func TestDiskStorage_ListMissingPrefix(t *testing.T) {
	s := NewDiskStorage(t.TempDir())
	names, err := s.ListFiles(context.Background(), ResumePrefix)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func newUploadRouter(s StorageClient) *gin.Engine {
	uc := NewController(s, submission.MaxResumeBytes)
	uc.now = func() time.Time { return fixedNow }
	r := gin.New()
	r.POST("/upload", uc.UploadResume)
	return r
}

func TestUploadResume_Success(t *testing.T) {
	s := newMockStorageClient()
	r := newUploadRouter(s)

	rec, resp := testutil.MakeMultipartRequest(
		map[string]string{"jobId": "J1001", "fullName": "Jane Doe"},
		&testutil.FilePart{Field: "resume", Name: "cv.pdf", ContentType: submission.MimePDF, Data: []byte("%PDF")},
		"", r, "/upload",
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "https://files.example.com/resumes/J1001/Jane_Doe_1709287200_0a1b2c3d.pdf", resp["resume_url"])
	assert.Equal(t, []byte("%PDF"), s.uploaded["resumes/J1001/Jane_Doe_1709287200_0a1b2c3d.pdf"])
	assert.Equal(t, submission.MimePDF, s.types["resumes/J1001/Jane_Doe_1709287200_0a1b2c3d.pdf"])
}

func TestUploadResume_InfersTypeFromExtension(t *testing.T) {
	s := newMockStorageClient()
	r := newUploadRouter(s)

	rec, _ := testutil.MakeMultipartRequest(
		map[string]string{"fullName": "Jane"},
		&testutil.FilePart{Field: "resume", Name: "cv.docx", ContentType: "application/octet-stream", Data: []byte("doc")},
		"", r, "/upload",
	)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, submission.MimeDOCX, s.types["resumes/default/Jane_1709287200_0a1b2c3d.docx"])
}

func TestUploadResume_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		file   *testutil.FilePart
		status int
		msg    string
	}{
		{"no file", nil, http.StatusBadRequest, msgNoFile},
		{
			"wrong type",
			&testutil.FilePart{Field: "resume", Name: "cv.png", ContentType: "image/png", Data: []byte("png")},
			http.StatusUnsupportedMediaType, submission.ErrUnsupportedFileType.Error(),
		},
		{
			"too large",
			&testutil.FilePart{Field: "resume", Name: "cv.pdf", ContentType: submission.MimePDF, Data: make([]byte, submission.MaxResumeBytes+1)},
			http.StatusRequestEntityTooLarge, submission.ErrFileTooLarge.Error(),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newMockStorageClient()
			rec, resp := testutil.MakeMultipartRequest(map[string]string{"fullName": "Jane"}, tc.file, "", newUploadRouter(s), "/upload")
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, resp["error"])
			assert.Empty(t, s.uploaded)
		})
	}
}

func TestUploadResume_StorageFailure(t *testing.T) {
	s := newMockStorageClient()
	s.uploadErr = errors.New("disk full")

	rec, resp := testutil.MakeMultipartRequest(
		map[string]string{"fullName": "Jane"},
		&testutil.FilePart{Field: "resume", Name: "cv.pdf", ContentType: submission.MimePDF, Data: []byte("%PDF")},
		"", newUploadRouter(s), "/upload",
	)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, msgMoveFailed, resp["error"])
}

func resume() submission.ResumeFile {
	return submission.ResumeFile{Name: "cv.pdf", ContentType: submission.MimePDF, Data: []byte("%PDF")}
}

func TestClient_AgainstHandler(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(newUploadRouter(NewDiskStorage(dir)))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL+"/upload", "https://jobs.example.com")
	url, err := c.Upload(context.Background(), resume(), "J1001", "Jane Doe")

	require.NoError(t, err)
	assert.Equal(t, "https://jobs.example.com/uploads/resumes/J1001/Jane_Doe_1709287200_0a1b2c3d.pdf", url)
	_, err = os.Stat(filepath.Join(dir, "resumes", "J1001", "Jane_Doe_1709287200_0a1b2c3d.pdf"))
	assert.NoError(t, err)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		reason string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"Failed to move uploaded file"}`, ReasonServerError},
		{"not json", http.StatusOK, `<html>oops</html>`, ReasonInvalidResponse},
		{"error field", http.StatusOK, `{"error":"No file uploaded or upload error"}`, "No file uploaded or upload error"},
		{"no url", http.StatusOK, `{"success":true}`, ReasonUnexpectedResult},
		{"not success", http.StatusOK, `{"success":false,"resume_url":"x"}`, ReasonUnexpectedResult},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.Client(), srv.URL, "").Upload(context.Background(), resume(), "J1", "Jane")
			var ue *submission.UploadError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tc.reason, ue.Reason)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(nil, srv.URL, "").Upload(context.Background(), resume(), "J1", "Jane")
	var ue *submission.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, ReasonNetwork, ue.Reason)
}

func TestDirect_Upload(t *testing.T) {
	s := newMockStorageClient()
	d := NewDirect(s, "https://jobs.example.com")
	d.now = func() time.Time { return fixedNow }

	url, err := d.Upload(context.Background(), resume(), "", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/resumes/default/Jane_1709287200_0a1b2c3d.pdf", url)

	s.uploadErr = errors.New("boom")
	_, err = d.Upload(context.Background(), resume(), "J1", "Jane")
	var ue *submission.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, msgMoveFailed, ue.Reason)
}

func TestCleanOrphans(t *testing.T) {
	s := newMockStorageClient()
	old := fixedNow.Add(-48 * time.Hour).Unix()
	for _, name := range []string{
		ResumeObjectName("J1", "kept", "a.pdf", time.Unix(old, 0)),
		ResumeObjectName("J1", "orphan", "a.pdf", time.Unix(old, 0)),
		ResumeObjectName("J1", "recent", "a.pdf", fixedNow.Add(-time.Minute)),
		"resumes/J1/unparseable.pdf",
	} {
		s.uploaded[name] = []byte("x")
	}
	keptURL := "https://files.example.com/" + ResumeObjectName("J1", "kept", "a.pdf", time.Unix(old, 0))

	deleted, err := CleanOrphans(context.Background(), s, func(context.Context) (map[string]struct{}, error) {
		return map[string]struct{}{keptURL: {}, "https://elsewhere.example.com/x.pdf": {}}, nil
	}, 24*time.Hour, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, []string{ResumeObjectName("J1", "orphan", "a.pdf", time.Unix(old, 0))}, deleted)
	assert.Len(t, s.uploaded, 3)
}

func TestCleanOrphans_ReferenceError(t *testing.T) {
	s := newMockStorageClient()
	s.uploaded["resumes/J1/a_1.pdf"] = []byte("x")

	_, err := CleanOrphans(context.Background(), s, func(context.Context) (map[string]struct{}, error) {
		return nil, errors.New("db down")
	}, 0, fixedNow)

	require.Error(t, err)
	assert.Len(t, s.uploaded, 1)
}

func TestCleanOrphans_ReadOnly(t *testing.T) {
	s := newMockStorageClient()
	name := ResumeObjectName("J1", "orphan", "a.pdf", fixedNow.Add(-48*time.Hour))
	s.uploaded[name] = []byte("x")

	deleted, err := CleanOrphans(context.Background(), ReadOnly(s), func(context.Context) (map[string]struct{}, error) {
		return nil, nil
	}, time.Hour, fixedNow)

	require.NoError(t, err)
	assert.Equal(t, []string{name}, deleted)
	assert.Len(t, s.uploaded, 1)
}
