package server

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/ahscorp/hiring-hive-platform/internal/config"
	"github.com/ahscorp/hiring-hive-platform/internal/database"
	"github.com/ahscorp/hiring-hive-platform/internal/submission"
	"github.com/ahscorp/hiring-hive-platform/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			AllowOrigins:  []string{"http://localhost:3000"},
			PublicBaseURL: "http://localhost:8080",
			LoginURL:      "/admin/login",
			RateLimit:     100,
		},
		Auth:       config.AuthConfig{SecretKey: "server-test-secret", TokenTTL: time.Hour},
		Listing:    config.ListingConfig{PageSize: config.DefaultPageSize},
		Submission: config.SubmissionConfig{GenericJobRef: config.DefaultGenericJobRef, MaxResumeBytes: config.DefaultMaxResumeBytes},
		Upload:     config.UploadConfig{Timeout: 5 * time.Second},
		Storage:    config.StorageConfig{Driver: "disk", Dir: t.TempDir()},
		Webhook:    config.WebhookConfig{Timeout: time.Second},
	}
}

func newServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := New(ctx, testConfig(t), testDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, s.RegisterRoutes()
}

func TestHealth(t *testing.T) {
	_, h := newServer(t)

	rec, resp := testutil.MakeJSONRequest(nil, "", h.(*gin.Engine), "/health", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "loaded", resp["listing"])
	assert.Equal(t, "up", resp["database"].(map[string]interface{})["status"])
}

func TestSafeHeadersApplied(t *testing.T) {
	_, h := newServer(t)

	rec, _ := testutil.MakeJSONRequest(nil, "", h.(*gin.Engine), "/api/v1/jobs", http.MethodGet)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestAdminRoutesRequireLogin(t *testing.T) {
	_, h := newServer(t)

	rec, resp := testutil.MakeJSONRequest(nil, "", h.(*gin.Engine), "/api/v1/admin/jobs", http.MethodGet)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "/admin/login", resp["login_url"])
}

// An admin publishes a job, the public board picks it up, an applicant
// applies and the admin sees the application.
func TestPublishApplyReview(t *testing.T) {
	_, h := newServer(t)
	r := h.(*gin.Engine)

	rec, resp := testutil.MakeJSONRequest(gin.H{"email": database.TestAdminUser.Email, "password": database.TestSeedPassword}, "", r, "/api/v1/auth/login", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := resp["access_token"].(string)

	rec, _ = testutil.MakeJSONRequest(gin.H{
		"title":       "Site Reliability Engineer",
		"job_ref":     "SRV-2001",
		"location":    "Mumbai, Maharashtra",
		"experience":  "senior",
		"industry":    "Technology",
		"description": "Keep the platform up and boring.",
		"key_skills":  "Kubernetes\nTerraform",
		"published":   true,
	}, token, r, "/api/v1/admin/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Eventually(t, func() bool {
		rec, _ := testutil.MakeJSONRequest(nil, "", r, "/api/v1/jobs/SRV-2001", http.MethodGet)
		return rec.Code == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	rec, resp = testutil.MakeMultipartRequest(map[string]string{
		"jobId":              "SRV-2001",
		"jobTitle":           "Site Reliability Engineer",
		"fullName":           "Kiran Mehta",
		"email":              "kiran@example.com",
		"phone":              "9000000001",
		"yearsOfExperience":  "7",
		"currentCompany":     "Initech",
		"currentDesignation": "SRE",
		"currentCTC":         "2000000",
		"currentTakeHome":    "120000",
		"expectedCTC":        "2600000",
		"noticePeriod":       "30",
		"location":           "Mumbai",
		"department":         "Information Technology",
	}, &testutil.FilePart{Field: "resume", Name: "kiran.pdf", ContentType: submission.MimePDF, Data: []byte("%PDF-1.7")}, "", r, "/api/v1/applications")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resumeURL := resp["resume_url"].(string)
	assert.Contains(t, resumeURL, "http://localhost:8080/uploads/resumes/SRV-2001/Kiran_Mehta_")

	rec, _ = testutil.MakeJSONRequest(nil, "", r, resumeURL[len("http://localhost:8080"):], http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "%PDF-1.7", rec.Body.String())

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/v1/admin/jobs", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kiran@example.com")

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/v1/auth/logout", http.MethodPost)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/api/v1/admin/jobs", http.MethodGet)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
