package admin

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

// JobInput is the job edit form.
type JobInput struct {
	Title  string `json:"title" validate:"min=2"`
	JobRef string `json:"job_ref" validate:"min=2"`
	// Location is the "City, State" label of the location.
	Location     string `json:"location" validate:"min=2"`
	ExperienceID string `json:"experience" validate:"min=2"`
	Industry     string `json:"industry" validate:"min=2"`
	SalaryID     string `json:"salary"`
	Department   string `json:"department"`
	CTC          string `json:"ctc"`
	Gender       string `json:"gender" validate:"omitempty,oneof=any male female"`
	Description  string `json:"description" validate:"min=10"`
	// KeySkills is one skill per line.
	KeySkills string `json:"key_skills" validate:"min=10"`
	// Responsibilities is one responsibility per line.
	Responsibilities string `json:"responsibilities"`
	Published        bool   `json:"published"`
}

var fieldMessages = map[string]string{
	"title":       "Job title must be at least 2 characters.",
	"job_ref":     "Job ID must be at least 2 characters.",
	"location":    "Please select a location.",
	"experience":  "Please select an experience range.",
	"industry":    "Please select an industry.",
	"salary":      "Please select a valid salary range.",
	"gender":      "Gender must be any, male or female.",
	"description": "Description must be at least 10 characters.",
	"key_skills":  "Key skills must be at least 10 characters.",
	"webhook_url": "Webhook URL must be a valid http(s) URL.",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return v
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// validationFrom converts validator errors to a ValidationError.
func validationFrom(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

func (in *JobInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.JobRef = strings.TrimSpace(in.JobRef)
	in.Location = strings.TrimSpace(in.Location)
	in.ExperienceID = strings.TrimSpace(in.ExperienceID)
	in.Industry = strings.TrimSpace(in.Industry)
	in.SalaryID = strings.TrimSpace(in.SalaryID)
	in.Department = strings.TrimSpace(in.Department)
	in.CTC = strings.TrimSpace(in.CTC)
	in.Gender = model.NormalizeGender(in.Gender)
	in.Description = strings.TrimSpace(in.Description)
}

// parseLocation splits "City, State" at the last comma.
func parseLocation(label string) (model.JobLocation, bool) {
	i := strings.LastIndex(label, ",")
	if i < 0 {
		return model.JobLocation{}, false
	}
	loc := model.JobLocation{
		City:  strings.TrimSpace(label[:i]),
		State: strings.TrimSpace(label[i+1:]),
	}
	return loc, loc.City != "" && loc.State != ""
}

// splitLines returns the non-blank trimmed lines of s.
func splitLines(s string) pq.StringArray {
	var out pq.StringArray
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// toJobInfo validates the input against the catalog and builds the editable
// part of a job.
func (in JobInput) toJobInfo(v *validator.Validate, cat *catalog.Catalog) (model.EditableJobInfo, error) {
	in.trim()
	if err := v.Struct(in); err != nil {
		return model.EditableJobInfo{}, validationFrom(err)
	}

	fields := map[string]string{}
	loc, ok := parseLocation(in.Location)
	if !ok {
		fields["location"] = fieldMessages["location"]
	}
	exp, ok := cat.ExperienceByID(in.ExperienceID)
	if !ok {
		fields["experience"] = fieldMessages["experience"]
	}
	var salary model.JobSalary
	if in.SalaryID != "" {
		sr, ok := cat.SalaryByID(in.SalaryID)
		if !ok {
			fields["salary"] = fieldMessages["salary"]
		}
		salary = sr.ToJob()
	}
	skills := splitLines(in.KeySkills)
	if len(skills) == 0 {
		fields["key_skills"] = fieldMessages["key_skills"]
	}
	if len(fields) > 0 {
		return model.EditableJobInfo{}, &ValidationError{Fields: fields}
	}

	info := model.EditableJobInfo{
		JobRef:           in.JobRef,
		Title:            in.Title,
		Location:         loc,
		Experience:       exp.ToJob(),
		Industry:         model.JobIndustry{Name: in.Industry},
		Department:       in.Department,
		KeySkills:        skills,
		Description:      in.Description,
		Responsibilities: splitLines(in.Responsibilities),
		Salary:           salary,
		Gender:           in.Gender,
		Status:           model.StatusDraft,
	}
	if in.CTC != "" {
		ctc := in.CTC
		info.CTC = &ctc
	}
	if in.Published {
		info.Status = model.StatusPublished
	}
	return info, nil
}

type webhookInput struct {
	URL string `json:"webhook_url" validate:"omitempty,url,startswith=http"`
}
