// Package jobpost provides the public HTTP handlers of the job board.
package jobpost

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/filter"
	"github.com/ahscorp/hiring-hive-platform/internal/listing"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// JobPostController handles the public job board endpoints
type JobPostController struct {
	Listing *listing.Controller
	Catalog *catalog.Holder
}

// NewJobPostController creates a new instance of JobPostController
func NewJobPostController(l *listing.Controller, cat *catalog.Holder) *JobPostController {
	return &JobPostController{
		Listing: l,
		Catalog: cat,
	}
}

type postsQuery struct {
	filter.Criteria
	Shown int `form:"shown"`
}

// LookupsResponse lists the values the board's filter dropdowns offer.
type LookupsResponse struct {
	Industries []model.Industry        `json:"industries"`
	Locations  []model.Location        `json:"locations"`
	Experience []model.ExperienceRange `json:"experience"`
	Salary     []model.SalaryRange     `json:"salary"`
}

// GetPosts returns the published jobs matching the query, one or more pages at a time.
// @Summary Get published jobs matching the filters
// @Description Every query is optional. Unknown industry or location ids leave that filter inactive.
// @Description A job without a gender preference matches every gender filter.
// @Tags Jobs
// @Produce json
// @Param industry query string false "Industry lookup id"
// @Param location query string false "Location lookup id"
// @Param experience query string false "Experience catalog id"
// @Param salary query string false "Salary catalog id, jobs without a salary band never match"
// @Param gender query string false "any, male or female"
// @Param q query string false "Case insensitive search over title, key skills and description"
// @Param shown query int false "Number of jobs already shown, rounded up to whole pages"
// @Success 200 {object} listing.View "Jobs of the current page range"
// @Failure 400 {object} utilities.ErrorResponse "Invalid query"
// @Failure 503 {object} listing.View "Job list failed to load"
// @Router /jobs [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	var q postsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid query: " + err.Error()})
		return
	}
	q.Query = strings.TrimSpace(q.Query)

	view := jc.Listing.Snapshot(q.Criteria, q.Shown)
	if view.State == listing.LoadError {
		c.JSON(http.StatusServiceUnavailable, view)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetPostByRef returns one published job.
// @Summary Get a published job by its reference
// @Tags Jobs
// @Produce json
// @Param ref path string true "Job reference" example(J1001)
// @Success 200 {object} model.Job
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Router /jobs/{ref} [get]
func (jc *JobPostController) GetPostByRef(c *gin.Context) {
	job, ok := jc.Listing.JobByRef(c.Param("ref"))
	if !ok {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetLookups returns the filter values.
// @Summary Get filter lookups
// @Description Industries and locations come from the database, experience and salary ranges from the catalog
// @Tags Jobs
// @Produce json
// @Success 200 {object} LookupsResponse
// @Router /lookups [get]
func (jc *JobPostController) GetLookups(c *gin.Context) {
	lk := jc.Listing.Lookups()
	resp := LookupsResponse{
		Industries: lk.Industries,
		Locations:  lk.Locations,
	}
	if resp.Industries == nil {
		resp.Industries = []model.Industry{}
	}
	if resp.Locations == nil {
		resp.Locations = []model.Location{}
	}
	if cat := jc.Catalog.Get(); cat != nil {
		resp.Experience = cat.Experience
		resp.Salary = cat.Salary
	}
	c.JSON(http.StatusOK, resp)
}
