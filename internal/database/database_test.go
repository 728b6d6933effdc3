package database

import (
	"context"
	"log"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	td, db, err := GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	testDB = db

	m.Run()

	if td != nil && td(context.Background()) != nil {
		log.Fatalf("could not teardown postgres container")
	}
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
	assert.Equal(t, "It's healthy", stats["message"])
}

func TestGetDsn(t *testing.T) {
	_, err := (&DBConfig{}).getDsn()
	assert.ErrorIs(t, err, ErrIncompleteConfig)

	_, err = (&DBConfig{useConstr: true}).getDsn()
	assert.ErrorIs(t, err, ErrIncompleteConfig)

	dsn, err := (&DBConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d"}).getDsn()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", dsn)
}

func TestPublishedJobsExcludesDrafts(t *testing.T) {
	jobs, err := testDB.PublishedJobs(context.Background())
	require.NoError(t, err)

	for _, j := range jobs {
		assert.Equal(t, model.StatusPublished, j.Status)
		assert.NotEqual(t, TestJobDraft.ID, j.ID)
	}
}

func TestListJobsOrderedByPostedAtDesc(t *testing.T) {
	jobs, err := testDB.ListJobs(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(jobs), 3)

	for i := 1; i < len(jobs); i++ {
		assert.False(t, jobs[i].PostedAt.After(jobs[i-1].PostedAt))
	}
}

func TestResolveJobRef(t *testing.T) {
	id, err := testDB.ResolveJobRef(context.Background(), "J1001")
	require.NoError(t, err)
	assert.Equal(t, TestJobPublished1.ID, id)

	_, err = testDB.ResolveJobRef(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobByRefKeepsStructuredFields(t *testing.T) {
	job, err := testDB.JobByRef(context.Background(), "J1001")
	require.NoError(t, err)

	assert.Equal(t, "Mumbai", job.Location.City)
	assert.Equal(t, "mid", job.Experience.ID)
	require.NotNil(t, job.Experience.MaxYears)
	assert.Equal(t, 5, *job.Experience.MaxYears)
	assert.True(t, job.Salary.Present())
	assert.Equal(t, []string{"Go", "PostgreSQL"}, []string(job.KeySkills))

	other, err := testDB.JobByRef(context.Background(), "J1002")
	require.NoError(t, err)
	assert.False(t, other.Salary.Present())
}

func TestUpsertJobUpdatesEditableColumns(t *testing.T) {
	ctx := context.Background()
	job := model.Job{EditableJobInfo: model.EditableJobInfo{
		JobRef: "UPS-1", Title: "Tester", Status: model.StatusDraft,
		Location: model.JobLocation{City: "Pune", State: "Maharashtra"},
	}}
	require.NoError(t, testDB.UpsertJob(ctx, &job))
	posted := job.PostedAt

	job.Title = "Senior Tester"
	job.Status = model.StatusPublished
	require.NoError(t, testDB.UpsertJob(ctx, &job))

	got, err := testDB.JobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Senior Tester", got.Title)
	assert.Equal(t, model.StatusPublished, got.Status)
	assert.WithinDuration(t, posted, got.PostedAt, time.Second)

	dup := model.Job{EditableJobInfo: model.EditableJobInfo{JobRef: "UPS-1", Title: "Clash", Status: model.StatusDraft}}
	err = testDB.UpsertJob(ctx, &dup)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSetJobStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	job := model.Job{EditableJobInfo: model.EditableJobInfo{JobRef: "DEL-1", Title: "Temp", Status: model.StatusDraft}}
	require.NoError(t, testDB.UpsertJob(ctx, &job))

	require.NoError(t, testDB.SetJobStatus(ctx, job.ID, model.StatusPublished))
	got, err := testDB.JobByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, got.Status)

	assert.ErrorIs(t, testDB.SetJobStatus(ctx, uuid.New(), model.StatusDraft), ErrNotFound)

	require.NoError(t, testDB.DeleteJob(ctx, job.ID))
	assert.ErrorIs(t, testDB.DeleteJob(ctx, job.ID), ErrNotFound)
}

func TestDeleteJobKeepsApplications(t *testing.T) {
	ctx := context.Background()
	job := model.Job{EditableJobInfo: model.EditableJobInfo{JobRef: "DEL-2", Title: "Temp", Status: model.StatusPublished}}
	require.NoError(t, testDB.UpsertJob(ctx, &job))

	app := model.Application{JobID: &job.ID, Applicant: testApplicant("Del Two", "d2@example.com")}
	require.NoError(t, testDB.InsertApplication(ctx, &app))
	require.NoError(t, testDB.DeleteJob(ctx, job.ID))

	var stored model.Application
	require.NoError(t, testDB.First(&stored, "id = ?", app.ID).Error)
	assert.Nil(t, stored.JobID)
}

func TestInsertApplicationUnknownJob(t *testing.T) {
	missing := uuid.New()
	app := model.Application{JobID: &missing, Applicant: testApplicant("Ghost", "ghost@example.com")}

	err := testDB.InsertApplication(context.Background(), &app)
	assert.ErrorIs(t, err, ErrForeignKey)
}

func TestApplicationsByJobIDs(t *testing.T) {
	ctx := context.Background()
	apps, err := testDB.ApplicationsByJobIDs(ctx, []uuid.UUID{TestJobPublished1.ID})
	require.NoError(t, err)
	require.NotEmpty(t, apps)
	for _, a := range apps {
		assert.Equal(t, TestJobPublished1.ID, *a.JobID)
	}

	none, err := testDB.ApplicationsByJobIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSetProcessedFlags(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testDB.SetApplicationProcessed(ctx, TestApplication1.ID, true))
	var app model.Application
	require.NoError(t, testDB.First(&app, "id = ?", TestApplication1.ID).Error)
	assert.True(t, app.Processed)
	require.NoError(t, testDB.SetApplicationProcessed(ctx, TestApplication1.ID, false))

	require.NoError(t, testDB.SetProfileProcessed(ctx, TestProfile1.ID, true))
	profiles, err := testDB.GeneralProfiles(ctx)
	require.NoError(t, err)
	found := false
	for _, p := range profiles {
		if p.ID == TestProfile1.ID {
			found = true
			assert.True(t, p.Processed)
		}
	}
	assert.True(t, found)

	assert.ErrorIs(t, testDB.SetApplicationProcessed(ctx, uuid.New(), true), ErrNotFound)
	assert.ErrorIs(t, testDB.SetProfileProcessed(ctx, uuid.New(), true), ErrNotFound)
}

func TestEnsureLookupsIgnoreDuplicates(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testDB.EnsureLocation(ctx, "Mumbai", "Maharashtra"))
	require.NoError(t, testDB.EnsureLocation(ctx, "Chennai", "Tamil Nadu"))
	require.NoError(t, testDB.EnsureLocation(ctx, "Chennai", "Tamil Nadu"))
	require.NoError(t, testDB.EnsureIndustry(ctx, "Technology"))
	require.NoError(t, testDB.EnsureIndustry(ctx, "Healthcare"))

	locs, err := testDB.Locations(ctx)
	require.NoError(t, err)
	count := 0
	for _, l := range locs {
		if l.City == "Chennai" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	inds, err := testDB.Industries(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(inds))
	for _, i := range inds {
		names = append(names, i.Name)
	}
	assert.Contains(t, names, "Healthcare")
}

func TestWebhookURLSetting(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, testDB.SetWebhookURL(ctx, "https://hooks.example.com/a", &TestAdminUser.ID))
	url, err := testDB.WebhookURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/a", url)

	require.NoError(t, testDB.SetWebhookURL(ctx, "", nil))
	url, err = testDB.WebhookURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", url)
}

func TestUserByEmail(t *testing.T) {
	user, err := testDB.UserByEmail(context.Background(), "ADMIN@example.com")
	require.NoError(t, err)
	assert.Equal(t, TestAdminUser.ID, user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)

	_, err = testDB.UserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()

	admin, err := testDB.CreateAdmin(ctx, " Second.Admin@Example.com ", "another-pass")
	require.NoError(t, err)
	assert.Equal(t, "second.admin@example.com", admin.Email)
	assert.Equal(t, model.RoleAdmin, admin.Role)
	assert.NotEqual(t, "another-pass", admin.Password)

	found, err := testDB.UserByEmail(ctx, "second.admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)

	_, err = testDB.CreateAdmin(ctx, "second.admin@example.com", "x")
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestResumeURLs(t *testing.T) {
	urls, err := testDB.ResumeURLs(context.Background())
	require.NoError(t, err)
	assert.Contains(t, urls, TestApplication1.ResumeURL)
	assert.Contains(t, urls, TestProfile1.ResumeURL)
}
