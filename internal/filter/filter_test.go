package filter

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

var (
	tech    = model.Industry{ID: uuid.New(), Name: "Technology"}
	finance = model.Industry{ID: uuid.New(), Name: "Finance"}
	mumbai  = model.Location{ID: uuid.New(), City: "Mumbai", State: "Maharashtra"}
	pune    = model.Location{ID: uuid.New(), City: "Pune", State: "Maharashtra"}

	lookups = Lookups{
		Industries: []model.Industry{tech, finance},
		Locations:  []model.Location{mumbai, pune},
	}
)

func job(ref, title, industry, city, state, exp, salary, gender string, skills ...string) model.Job {
	return model.Job{
		ID: uuid.New(),
		EditableJobInfo: model.EditableJobInfo{
			JobRef:      ref,
			Title:       title,
			Industry:    model.JobIndustry{Name: industry},
			Location:    model.JobLocation{City: city, State: state},
			Experience:  model.JobExperience{ID: exp},
			Salary:      model.JobSalary{ID: salary},
			Gender:      gender,
			KeySkills:   pq.StringArray(skills),
			Description: title + " role",
			Status:      model.StatusPublished,
		},
	}
}

func sampleJobs() []model.Job {
	return []model.Job{
		job("J1", "Backend Engineer", "technology", "mumbai", "MAHARASHTRA", "mid", "mid", "", "Go", "SQL"),
		job("J2", "Accountant", "Finance", "Pune", "Maharashtra", "junior", "", "female", "Tally"),
		job("J3", "Frontend Engineer", "Technology", "Pune", "Maharashtra", "mid", "entry", "any", "React"),
		job("J4", "Plant Supervisor", "Manufacturing", "Mumbai", "Maharashtra", "senior", "senior", "male"),
	}
}

func refs(jobs []model.Job) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.JobRef)
	}
	return out
}

func TestApplyNoCriteriaReturnsAll(t *testing.T) {
	jobs := sampleJobs()
	assert.Equal(t, refs(jobs), refs(Apply(jobs, Criteria{}, lookups)))
}

func TestApplySingleCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"industry case-insensitive", Criteria{IndustryID: tech.ID.String()}, []string{"J1", "J3"}},
		{"location city and state", Criteria{LocationID: mumbai.ID.String()}, []string{"J1", "J4"}},
		{"experience exact", Criteria{ExperienceID: "mid"}, []string{"J1", "J3"}},
		{"salary requires band", Criteria{SalaryID: "mid"}, []string{"J1"}},
		{"gender inclusive default", Criteria{Gender: "Female"}, []string{"J1", "J2", "J3"}},
		{"gender male", Criteria{Gender: "male"}, []string{"J1", "J3", "J4"}},
		{"gender any is inactive", Criteria{Gender: "any"}, []string{"J1", "J2", "J3", "J4"}},
		{"query title", Criteria{Query: "engineer"}, []string{"J1", "J3"}},
		{"query skill", Criteria{Query: "  TALLY "}, []string{"J2"}},
		{"query description", Criteria{Query: "supervisor role"}, []string{"J4"}},
		{"whitespace query no-op", Criteria{Query: "   "}, []string{"J1", "J2", "J3", "J4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, refs(Apply(sampleJobs(), tt.criteria, lookups)))
		})
	}
}

func TestApplyCombinesWithAnd(t *testing.T) {
	got := Apply(sampleJobs(), Criteria{
		IndustryID:   tech.ID.String(),
		LocationID:   pune.ID.String(),
		ExperienceID: "mid",
	}, lookups)
	assert.Equal(t, []string{"J3"}, refs(got))
}

func TestApplyUnloadedLookupsAreInactive(t *testing.T) {
	c := Criteria{IndustryID: finance.ID.String(), LocationID: pune.ID.String()}

	assert.Len(t, Apply(sampleJobs(), c, Lookups{}), 4)
	assert.Equal(t, []string{"J2"}, refs(Apply(sampleJobs(), c, lookups)))

	unknown := Criteria{IndustryID: uuid.NewString()}
	assert.Len(t, Apply(sampleJobs(), unknown, lookups), 4)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	jobs := sampleJobs()
	before := refs(jobs)

	got := Apply(jobs, Criteria{Query: "engineer"}, lookups)
	require.Len(t, got, 2)
	got[0].Title = "changed"

	assert.Equal(t, before, refs(jobs))
	assert.Equal(t, "Backend Engineer", jobs[0].Title)
}

// Output is always an order-preserving subsequence of the input.
func TestApplySubsetAndStable(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	industries := []string{"", tech.ID.String(), finance.ID.String()}
	locations := []string{"", mumbai.ID.String(), pune.ID.String()}
	exps := []string{"", "mid", "junior", "senior"}
	salaries := []string{"", "mid", "entry", "senior"}
	genders := []string{"", "male", "female", "any"}
	queries := []string{"", "engineer", "go", "x"}

	jobs := sampleJobs()
	for i := 0; i < 200; i++ {
		r.Shuffle(len(jobs), func(a, b int) { jobs[a], jobs[b] = jobs[b], jobs[a] })
		c := Criteria{
			IndustryID:   industries[r.Intn(len(industries))],
			LocationID:   locations[r.Intn(len(locations))],
			ExperienceID: exps[r.Intn(len(exps))],
			SalaryID:     salaries[r.Intn(len(salaries))],
			Gender:       genders[r.Intn(len(genders))],
			Query:        queries[r.Intn(len(queries))],
		}
		got := Apply(jobs, c, lookups)

		pos := -1
		for _, g := range got {
			idx := -1
			for k := range jobs {
				if jobs[k].ID == g.ID {
					idx = k
					break
				}
			}
			require.NotEqual(t, -1, idx, "result contains a job missing from input")
			require.Greater(t, idx, pos, "result reordered jobs")
			pos = idx
		}
	}
}
