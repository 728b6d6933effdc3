package legacy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// structured objects as written by the admin form
const objectRow = `{
	"id": "4a7d8c1e-52b3-4f9a-9d0e-1c2b3a4d5e6f",
	"jobId": "J1001",
	"position": "Senior Software Engineer",
	"location": {"id": "blr", "city": "Bangalore", "state": "Karnataka"},
	"experience": {"id": "senior", "range": "5-10 years", "minYears": 5, "maxYears": 10},
	"industry": {"id": "tech", "name": "Technology"},
	"salaryRange": {"id": "lead", "range": "15-25 LPA", "min": 1500000, "max": 2500000},
	"keyskills": ["React", " Node.js ", ""],
	"responsibilities": ["Design", "Ship"],
	"description": "Build things.",
	"status": "Published",
	"dateposted": "2024-03-01T10:00:00Z",
	"user_id": "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0"
}`

// text columns holding either JSON or freeform strings
const textRow = `{
	"id": "9b8a7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d",
	"jobId": null,
	"position": "Accountant",
	"location": "{\"id\":\"mum\"}",
	"experience": "3-5 years",
	"industry": "finance",
	"keyskills": "Tally\nGST, Excel",
	"description": "Close the books.",
	"gender": "Female",
	"ctc": " 6 LPA ",
	"status": "draft",
	"dateposted": "2023-11-20"
}`

func decodeOne(t *testing.T, s string) Row {
	t.Helper()
	rows, err := Decode(strings.NewReader(s))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	return rows[0]
}

func TestConvertStructuredRow(t *testing.T) {
	job, err := Convert(decodeOne(t, objectRow), catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, "4a7d8c1e-52b3-4f9a-9d0e-1c2b3a4d5e6f", job.ID.String())
	assert.Equal(t, "J1001", job.JobRef)
	assert.Equal(t, "Senior Software Engineer", job.Title)
	assert.Equal(t, model.JobLocation{City: "Bangalore", State: "Karnataka"}, job.Location)
	assert.Equal(t, "senior", job.Experience.ID)
	assert.Equal(t, "Technology", job.Industry.Name)
	assert.Equal(t, "lead", job.Salary.ID)
	assert.Equal(t, []string{"React", "Node.js"}, []string(job.KeySkills))
	assert.Equal(t, []string{"Design", "Ship"}, []string(job.Responsibilities))
	assert.Equal(t, model.StatusPublished, job.Status)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), job.PostedAt.UTC())
	require.NotNil(t, job.CreatedBy)
	assert.Equal(t, "0f1e2d3c-4b5a-6978-8796-a5b4c3d2e1f0", job.CreatedBy.String())
}

func TestConvertTextRow(t *testing.T) {
	job, err := Convert(decodeOne(t, textRow), catalog.Default())
	require.NoError(t, err)

	assert.Equal(t, "LEGACY-9B8A7C6D", job.JobRef)
	assert.Equal(t, model.JobLocation{City: "Mumbai", State: "Maharashtra"}, job.Location)
	assert.Equal(t, "mid", job.Experience.ID)
	assert.Equal(t, "Finance", job.Industry.Name)
	assert.False(t, job.Salary.Present())
	assert.Equal(t, []string{"Tally", "GST", "Excel"}, []string(job.KeySkills))
	assert.Equal(t, model.GenderFemale, job.Gender)
	require.NotNil(t, job.CTC)
	assert.Equal(t, "6 LPA", *job.CTC)
	assert.Equal(t, model.StatusDraft, job.Status)
	assert.Nil(t, job.CreatedBy)
}

func TestConvertLocationShapes(t *testing.T) {
	c := converter{cat: catalog.Default()}
	cases := map[string]model.JobLocation{
		`"Pune, Maharashtra"`:             {City: "Pune", State: "Maharashtra"},
		`"hyderabad"`:                     {City: "Hyderabad", State: "Telangana"},
		`"del"`:                           {City: "Delhi", State: "Delhi"},
		`{"city": "Chennai"}`:             {City: "Chennai", State: "Tamil Nadu"},
		`{"city": "Goa", "state": "Goa"}`: {City: "Goa", State: "Goa"},
	}
	for raw, want := range cases {
		got, err := c.location([]byte(raw))
		if assert.NoError(t, err, raw) {
			assert.Equal(t, want, got, raw)
		}
	}

	_, err := c.location([]byte(`"Atlantis"`))
	assert.Error(t, err)
	_, err = c.location([]byte(`null`))
	assert.ErrorIs(t, err, errMissing)
}

func TestConvertKeepsUnlistedExperienceBand(t *testing.T) {
	c := converter{cat: catalog.Default()}

	got, err := c.experience([]byte(`{"id": "principal", "range": "15+ years", "minYears": 15}`))
	require.NoError(t, err)
	assert.Equal(t, "principal", got.ID)
	assert.Equal(t, 15, got.MinYears)
	assert.Nil(t, got.MaxYears)

	_, err = c.experience([]byte(`"ancient"`))
	assert.Error(t, err)
}

func TestConvertRejections(t *testing.T) {
	cases := []struct {
		name  string
		patch func(r *Row)
		field string
	}{
		{"missing title", func(r *Row) { r.Position = "" }, "position"},
		{"missing description", func(r *Row) { r.Description = " " }, "description"},
		{"missing skills", func(r *Row) { r.KeySkills = []byte(`[]`) }, "keyskills"},
		{"unknown salary", func(r *Row) { r.Salary = []byte(`"a lot"`) }, "salaryRange"},
		{"bad gender", func(r *Row) { g := "both"; r.Gender = &g }, "gender"},
		{"bad date", func(r *Row) { d := "yesterday"; r.DatePosted = &d }, "dateposted"},
		{"bad user", func(r *Row) { u := "admin"; r.UserID = &u }, "user_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := decodeOne(t, objectRow)
			tc.patch(&row)

			_, err := Convert(row, catalog.Default())

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, tc.field, rowErr.Field)
		})
	}
}

func TestDecodeStream(t *testing.T) {
	rows, err := Decode(strings.NewReader(objectRow + "\n" + textRow))
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = Decode(strings.NewReader("  "))
	require.NoError(t, err)
	assert.Empty(t, rows)

	_, err = Decode(strings.NewReader(`[{"id": 1`))
	assert.Error(t, err)
}

type fakeStore struct {
	jobs       map[string]model.Job
	locations  []string
	industries []string
	failRef    string
}

func (f *fakeStore) EnsureLocation(_ context.Context, city, state string) error {
	f.locations = append(f.locations, city+", "+state)
	return nil
}

func (f *fakeStore) EnsureIndustry(_ context.Context, name string) error {
	f.industries = append(f.industries, name)
	return nil
}

func (f *fakeStore) UpsertJob(_ context.Context, job *model.Job) error {
	if job.JobRef == f.failRef {
		return errors.New("duplicate record")
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs[job.JobRef] = *job
	return nil
}

func TestImport(t *testing.T) {
	rows, err := Decode(strings.NewReader("[" + objectRow + "," + textRow + "," + objectRow + `, {"id": "J2002", "position": "Broken"}]`))
	require.NoError(t, err)
	store := &fakeStore{jobs: map[string]model.Job{}}

	report, err := Import(context.Background(), rows, catalog.Default(), store)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 2)
	assert.Contains(t, store.jobs, "J1001")
	assert.Contains(t, store.jobs, "LEGACY-9B8A7C6D")
	assert.ElementsMatch(t, []string{"Bangalore, Karnataka", "Mumbai, Maharashtra"}, store.locations)
	assert.ElementsMatch(t, []string{"Technology", "Finance"}, store.industries)

	require.Len(t, report.Failed, 2)
	assert.Equal(t, 3, report.Failed[0].Index)
	assert.Equal(t, "jobId", report.Failed[0].Field)
	assert.Equal(t, 4, report.Failed[1].Index)
	assert.Equal(t, "J2002", report.Failed[1].ID)
}

func TestImportStoreFailureSkipsRow(t *testing.T) {
	rows, err := Decode(strings.NewReader("[" + objectRow + "," + textRow + "]"))
	require.NoError(t, err)
	store := &fakeStore{jobs: map[string]model.Job{}, failRef: "J1001"}

	report, err := Import(context.Background(), rows, catalog.Default(), store)
	require.NoError(t, err)

	assert.Len(t, report.Imported, 1)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, report.Failed[0].Index)
	assert.Empty(t, report.Failed[0].Field)
}

func TestImportDryRun(t *testing.T) {
	rows, err := Decode(strings.NewReader("[" + objectRow + "]"))
	require.NoError(t, err)

	report, err := Import(context.Background(), rows, catalog.Default(), nil)
	require.NoError(t, err)
	assert.Len(t, report.Imported, 1)
}

func TestImportStopsOnCancel(t *testing.T) {
	rows, err := Decode(strings.NewReader("[" + objectRow + "]"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Import(ctx, rows, catalog.Default(), &fakeStore{jobs: map[string]model.Job{}})
	assert.ErrorIs(t, err, context.Canceled)
}
