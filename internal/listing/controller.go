// Package listing owns the public job board: the published job list fetched
// from the store, the active filter criteria and the paginated view derived
// from both.
package listing

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/ahscorp/hiring-hive-platform/internal/filter"
	"github.com/ahscorp/hiring-hive-platform/internal/logging"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// DefaultPageSize is the number of jobs shown initially and added by LoadMore.
const DefaultPageSize = 6

// State of the job list.
type State int

// Job list states.
const (
	Idle State = iota
	Loading
	Loaded
	LoadError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "load_error"
	}
	return "unknown"
}

// MarshalText lets the state render as a string in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrLoading is returned by Load when a newer load superseded it.
var ErrLoading = errors.New("job list load superseded")

// JobSource queries published jobs.
type JobSource interface {
	PublishedJobs(ctx context.Context) ([]model.Job, error)
}

// LookupSource queries the industry and location lookup rows.
type LookupSource interface {
	Industries(ctx context.Context) ([]model.Industry, error)
	Locations(ctx context.Context) ([]model.Location, error)
}

// View is a snapshot of what the board displays.
type View struct {
	State    State           `json:"state"`
	Jobs     []model.Job     `json:"jobs"`
	Total    int             `json:"total"`
	Shown    int             `json:"shown"`
	Limit    int             `json:"limit"`
	HasMore  bool            `json:"has_more"`
	Criteria filter.Criteria `json:"criteria"`
	Error    string          `json:"error,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize overrides the pagination increment.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithErrorHook sets the function notified when loading fails.
func WithErrorHook(fn func(error)) Option {
	return func(c *Controller) { c.onError = fn }
}

// Controller is safe for concurrent use.
type Controller struct {
	jobs     JobSource
	lookups  LookupSource
	pageSize int
	onError  func(error)
	log      *log.Entry

	mu       sync.RWMutex
	state    State
	gen      uint64
	all      []model.Job
	lk       filter.Lookups
	criteria filter.Criteria
	filtered []model.Job
	shown    int
	err      error
}

// New returns an idle controller.
func New(jobs JobSource, lookups LookupSource, opts ...Option) *Controller {
	c := &Controller{
		jobs:     jobs,
		lookups:  lookups,
		pageSize: DefaultPageSize,
		log:      logging.For("listing"),
	}
	for _, o := range opts {
		o(c)
	}
	c.shown = c.pageSize
	if c.onError == nil {
		c.onError = func(err error) {
			c.log.WithError(err).Error("Failed to load jobs")
		}
	}
	return c
}

// Load fetches the published jobs. While the query runs the state is Loading
// and the view carries no jobs. A failure empties the list and moves to
// LoadError; nothing is retried.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = Loading
	c.err = nil
	c.mu.Unlock()

	jobs, err := c.jobs.PublishedJobs(ctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return ErrLoading
	}
	if err != nil {
		c.state = LoadError
		c.err = err
		c.all = nil
		c.filtered = nil
		c.mu.Unlock()
		c.onError(err)
		return err
	}

	published := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.IsPublished() {
			published = append(published, j)
		}
	}
	c.all = published
	c.state = Loaded
	c.recompute()
	c.mu.Unlock()

	c.log.WithField("jobs", len(published)).Debug("Job list loaded")
	return nil
}

// Reload is a manual re-fetch, the only way out of LoadError.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// LoadLookups fetches industries and locations. Until both arrive the
// industry and location criteria are inactive.
func (c *Controller) LoadLookups(ctx context.Context) error {
	inds, err := c.lookups.Industries(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Failed to load industries")
		return err
	}
	locs, err := c.lookups.Locations(ctx)
	if err != nil {
		c.log.WithError(err).Warn("Failed to load locations")
		return err
	}
	if inds == nil {
		inds = []model.Industry{}
	}
	if locs == nil {
		locs = []model.Location{}
	}

	c.mu.Lock()
	c.lk = filter.Lookups{Industries: inds, Locations: locs}
	c.recompute()
	c.mu.Unlock()
	return nil
}

// Lookups returns the loaded lookup rows.
func (c *Controller) Lookups() filter.Lookups {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lk
}

// SetCriteria replaces the criteria, recomputes the view and resets the page size.
func (c *Controller) SetCriteria(cr filter.Criteria) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = cr
	c.shown = c.pageSize
	c.recompute()
	return c.viewLocked()
}

// Clear drops every criterion.
func (c *Controller) Clear() View {
	return c.SetCriteria(filter.Criteria{})
}

// LoadMore shows one more page of the filtered list.
func (c *Controller) LoadMore() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shown < len(c.filtered) {
		c.shown += c.pageSize
	}
	return c.viewLocked()
}

// State returns the current load state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// View returns what the board currently displays.
func (c *Controller) View() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewLocked()
}

// Snapshot filters the loaded list with cr and shows the given number of jobs
// rounded up to whole pages, without touching the controller's own criteria.
func (c *Controller) Snapshot(cr filter.Criteria, shown int) View {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v := View{State: c.state, Criteria: cr, Jobs: []model.Job{}}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	if c.state != Loaded {
		return v
	}
	filtered := filter.Apply(c.all, cr, c.lk)
	return page(v, filtered, c.roundUp(shown))
}

// JobByRef returns a loaded published job by reference.
func (c *Controller) JobByRef(ref string) (model.Job, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, j := range c.all {
		if j.JobRef == ref {
			return j, true
		}
	}
	return model.Job{}, false
}

// roundUp never returns more than the page holding the last loaded job.
func (c *Controller) roundUp(n int) int {
	if n > len(c.all) {
		n = len(c.all)
	}
	if n <= c.pageSize {
		return c.pageSize
	}
	return ((n + c.pageSize - 1) / c.pageSize) * c.pageSize
}

// recompute must be called with mu held.
func (c *Controller) recompute() {
	if c.state != Loaded {
		c.filtered = nil
		return
	}
	c.filtered = filter.Apply(c.all, c.criteria, c.lk)
}

func (c *Controller) viewLocked() View {
	v := View{State: c.state, Criteria: c.criteria, Jobs: []model.Job{}}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	if c.state != Loaded {
		return v
	}
	return page(v, c.filtered, c.shown)
}

func page(v View, filtered []model.Job, shown int) View {
	n := shown
	if n > len(filtered) {
		n = len(filtered)
	}
	if n < 0 {
		n = 0
	}
	v.Jobs = append(v.Jobs, filtered[:n]...)
	v.Total = len(filtered)
	v.Shown = n
	v.Limit = shown
	v.HasMore = shown < len(filtered)
	return v
}
