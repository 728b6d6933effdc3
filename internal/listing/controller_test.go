package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahscorp/hiring-hive-platform/internal/filter"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type fakeSource struct {
	mu      sync.Mutex
	jobs    []model.Job
	err     error
	block   chan struct{}
	calls   int
	inds    []model.Industry
	locs    []model.Location
	lookErr error
}

func (f *fakeSource) PublishedJobs(ctx context.Context) ([]model.Job, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs, f.err
}

func (f *fakeSource) Industries(context.Context) ([]model.Industry, error) {
	return f.inds, f.lookErr
}

func (f *fakeSource) Locations(context.Context) ([]model.Location, error) {
	return f.locs, f.lookErr
}

func makeJobs(n int, industry string) []model.Job {
	jobs := make([]model.Job, 0, n)
	for i := 0; i < n; i++ {
		jobs = append(jobs, model.Job{
			ID: uuid.New(),
			EditableJobInfo: model.EditableJobInfo{
				JobRef:   fmt.Sprintf("J%03d", i),
				Title:    fmt.Sprintf("Job %d", i),
				Industry: model.JobIndustry{Name: industry},
				Status:   model.StatusPublished,
			},
		})
	}
	return jobs
}

func TestInitialStateIsIdle(t *testing.T) {
	c := New(&fakeSource{}, &fakeSource{})
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.View().Jobs)
}

func TestLoadShowsFirstPage(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(14, "Technology")}
	c := New(src, src)

	require.NoError(t, c.Load(context.Background()))

	v := c.View()
	assert.Equal(t, Loaded, v.State)
	assert.Equal(t, 14, v.Total)
	assert.Len(t, v.Jobs, DefaultPageSize)
	assert.True(t, v.HasMore)
	assert.Equal(t, "J000", v.Jobs[0].JobRef)
}

func TestLoadingViewHasNoJobs(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(3, "Technology")}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	src.block = make(chan struct{})
	done := make(chan error)
	go func() { done <- c.Reload(context.Background()) }()

	require.Eventually(t, func() bool { return c.State() == Loading }, timeout, tick)
	assert.Empty(t, c.View().Jobs)

	close(src.block)
	require.NoError(t, <-done)
	assert.Equal(t, Loaded, c.State())
	assert.Len(t, c.View().Jobs, 3)
}

func TestLoadErrorEmptiesListAndNotifies(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(3, "Technology")}
	var notified error
	c := New(src, src, WithErrorHook(func(err error) { notified = err }))
	require.NoError(t, c.Load(context.Background()))

	src.err = errors.New("connection refused")
	err := c.Reload(context.Background())
	require.Error(t, err)

	v := c.View()
	assert.Equal(t, LoadError, v.State)
	assert.Empty(t, v.Jobs)
	assert.Equal(t, "connection refused", v.Error)
	assert.Equal(t, src.err, notified)
	assert.Equal(t, 2, src.calls, "no automatic retry")

	src.err = nil
	require.NoError(t, c.Reload(context.Background()))
	assert.Equal(t, Loaded, c.State())
}

func TestDraftsNeverVisible(t *testing.T) {
	jobs := makeJobs(4, "Technology")
	jobs[1].Status = model.StatusDraft
	src := &fakeSource{jobs: jobs}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	for _, v := range []View{c.View(), c.Snapshot(filter.Criteria{}, 100)} {
		assert.Equal(t, 3, v.Total)
		for _, j := range v.Jobs {
			assert.Equal(t, model.StatusPublished, j.Status)
		}
	}
	_, ok := c.JobByRef(jobs[1].JobRef)
	assert.False(t, ok)
}

func TestCriteriaChangeResetsPageSize(t *testing.T) {
	jobs := append(makeJobs(10, "Technology"), makeJobs(10, "Finance")...)
	src := &fakeSource{jobs: jobs}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	v := c.LoadMore()
	assert.Equal(t, 12, v.Limit)
	assert.Len(t, v.Jobs, 12)

	v = c.SetCriteria(filter.Criteria{Query: "job 1"})
	assert.Equal(t, DefaultPageSize, v.Limit)

	c.LoadMore()
	v = c.Clear()
	assert.Equal(t, DefaultPageSize, v.Limit)
	assert.Len(t, v.Jobs, DefaultPageSize)
	assert.Equal(t, 20, v.Total)
}

func TestLoadMoreStopsAtEnd(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(8, "Technology")}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	v := c.LoadMore()
	assert.Len(t, v.Jobs, 8)
	assert.False(t, v.HasMore)

	v = c.LoadMore()
	assert.Equal(t, 12, v.Limit)
}

func TestLookupsActivateCriteria(t *testing.T) {
	tech := model.Industry{ID: uuid.New(), Name: "Technology"}
	jobs := append(makeJobs(2, "Technology"), makeJobs(3, "Finance")...)
	src := &fakeSource{jobs: jobs, inds: []model.Industry{tech}}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	v := c.SetCriteria(filter.Criteria{IndustryID: tech.ID.String()})
	assert.Equal(t, 5, v.Total, "industry criterion inactive before lookups load")

	require.NoError(t, c.LoadLookups(context.Background()))
	assert.Equal(t, 2, c.View().Total)
}

func TestLoadLookupsError(t *testing.T) {
	src := &fakeSource{lookErr: errors.New("down")}
	c := New(src, src)
	assert.Error(t, c.LoadLookups(context.Background()))
	assert.Nil(t, c.Lookups().Industries)
}

func TestSnapshotIsStateless(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(20, "Technology")}
	c := New(src, src, WithPageSize(5))
	require.NoError(t, c.Load(context.Background()))

	v := c.Snapshot(filter.Criteria{Query: "job 1"}, 7)
	assert.Equal(t, 10, v.Limit)
	assert.Equal(t, 11, v.Total)
	assert.Len(t, v.Jobs, 10)
	assert.True(t, v.HasMore)

	own := c.View()
	assert.True(t, own.Criteria.IsZero())
	assert.Equal(t, 5, own.Limit)
}

func TestSnapshotShownBounds(t *testing.T) {
	src := &fakeSource{jobs: makeJobs(14, "Technology")}
	c := New(src, src)
	require.NoError(t, c.Load(context.Background()))

	cases := []struct {
		shown   int
		limit   int
		jobs    int
		hasMore bool
	}{
		{shown: -1, limit: 6, jobs: 6, hasMore: true},
		{shown: 0, limit: 6, jobs: 6, hasMore: true},
		{shown: 7, limit: 12, jobs: 12, hasMore: true},
		{shown: 14, limit: 18, jobs: 14, hasMore: false},
		{shown: math.MaxInt, limit: 18, jobs: 14, hasMore: false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.shown), func(t *testing.T) {
			v := c.Snapshot(filter.Criteria{}, tc.shown)

			assert.Equal(t, tc.limit, v.Limit)
			assert.Zero(t, v.Limit%DefaultPageSize)
			assert.Len(t, v.Jobs, tc.jobs)
			assert.Equal(t, tc.jobs, v.Shown)
			assert.LessOrEqual(t, v.Shown, v.Total)
			assert.Equal(t, tc.hasMore, v.HasMore)
		})
	}
}

func TestSupersededLoadIsDropped(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{jobs: makeJobs(2, "Technology"), block: gate}
	c := New(src, src)

	first := make(chan error, 1)
	go func() { first <- c.Load(context.Background()) }()
	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.calls == 1
	}, timeout, tick)

	src.mu.Lock()
	src.block = nil
	src.jobs = makeJobs(4, "Technology")
	src.mu.Unlock()
	require.NoError(t, c.Load(context.Background()))

	close(gate)
	assert.ErrorIs(t, <-first, ErrLoading)
	assert.Equal(t, Loaded, c.State())
	assert.Equal(t, 4, c.View().Total)
}
