// Package filter reduces a job list to the subset matching a set of criteria.
//
// Filtering never mutates its input and keeps the relative order of the jobs
// it returns.
package filter

import (
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// Criteria is the set of optional filters applied to the public job list.
// Empty fields are inactive.
type Criteria struct {
	IndustryID   string `form:"industry" json:"industry,omitempty"`
	LocationID   string `form:"location" json:"location,omitempty"`
	ExperienceID string `form:"experience" json:"experience,omitempty"`
	SalaryID     string `form:"salary" json:"salary,omitempty"`
	Gender       string `form:"gender" json:"gender,omitempty"`
	Query        string `form:"q" json:"q,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Lookups carries the industry and location rows the id-based criteria refer
// to. A nil slice means the set has not been loaded yet.
type Lookups struct {
	Industries []model.Industry
	Locations  []model.Location
}

func (l Lookups) industry(id string) (model.Industry, bool) {
	for _, ind := range l.Industries {
		if ind.ID.String() == id {
			return ind, true
		}
	}
	return model.Industry{}, false
}

func (l Lookups) location(id string) (model.Location, bool) {
	for _, loc := range l.Locations {
		if loc.ID.String() == id {
			return loc, true
		}
	}
	return model.Location{}, false
}

type predicate func(*model.Job) bool

// compile turns criteria into the list of active predicates.
func compile(c Criteria, lk Lookups) []predicate {
	var preds []predicate

	if c.IndustryID != "" {
		if ind, ok := lk.industry(c.IndustryID); ok {
			preds = append(preds, func(j *model.Job) bool {
				return strings.EqualFold(strings.TrimSpace(j.Industry.Name), strings.TrimSpace(ind.Name))
			})
		}
	}
	if c.LocationID != "" {
		if loc, ok := lk.location(c.LocationID); ok {
			preds = append(preds, func(j *model.Job) bool {
				return loc.Matches(j.Location)
			})
		}
	}
	if c.ExperienceID != "" {
		preds = append(preds, func(j *model.Job) bool {
			return j.Experience.ID == c.ExperienceID
		})
	}
	if c.SalaryID != "" {
		preds = append(preds, func(j *model.Job) bool {
			return j.Salary.Present() && j.Salary.ID == c.SalaryID
		})
	}
	if g := model.NormalizeGender(c.Gender); g != "" && g != model.GenderAny {
		preds = append(preds, func(j *model.Job) bool {
			jg := model.NormalizeGender(j.Gender)
			return jg == "" || jg == model.GenderAny || jg == g
		})
	}
	if q := strings.ToLower(strings.TrimSpace(c.Query)); q != "" {
		preds = append(preds, func(j *model.Job) bool {
			return matchesText(j, q)
		})
	}
	return preds
}

func matchesText(j *model.Job, q string) bool {
	if strings.Contains(strings.ToLower(j.Title), q) {
		return true
	}
	for _, s := range j.KeySkills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(j.Description), q)
}

// Apply returns the jobs matching every active criterion, in input order.
// The result is a new slice, jobs is left untouched.
func Apply(jobs []model.Job, c Criteria, lk Lookups) []model.Job {
	preds := compile(c, lk)
	out := make([]model.Job, 0, len(jobs))

next:
	for i := range jobs {
		for _, p := range preds {
			if !p(&jobs[i]) {
				continue next
			}
		}
		out = append(out, jobs[i])
	}
	return out
}
