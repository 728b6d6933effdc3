package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ahscorp/hiring-hive-platform/internal/catalog"
	"github.com/ahscorp/hiring-hive-platform/internal/model"
)

var errMissing = errors.New("value is missing")

// location and industry ids used by rows that stored lookup objects
var locationIDs = map[string]model.JobLocation{
	"mum": {City: "Mumbai", State: "Maharashtra"},
	"blr": {City: "Bangalore", State: "Karnataka"},
	"del": {City: "Delhi", State: "Delhi"},
	"hyd": {City: "Hyderabad", State: "Telangana"},
	"che": {City: "Chennai", State: "Tamil Nadu"},
	"pun": {City: "Pune", State: "Maharashtra"},
}

var industryIDs = map[string]string{
	"tech":          "Technology",
	"finance":       "Finance",
	"healthcare":    "Healthcare",
	"education":     "Education",
	"manufacturing": "Manufacturing",
	"retail":        "Retail",
}

var postedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02T15:04:05.999999",
	"2006-01-02",
}

// legacyRefPrefix marks references made up for rows that never had one.
const legacyRefPrefix = "LEGACY-"

// value is a decoded legacy column: JSON object or array in raw, or plain text.
type value struct {
	raw  json.RawMessage
	text string
}

func (v value) empty() bool  { return len(v.raw) == 0 && v.text == "" }
func (v value) isText() bool { return len(v.raw) == 0 && v.text != "" }

// decodeValue unwraps JSON that was stored as a string.
func decodeValue(raw json.RawMessage) (value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return value{}, nil
	}
	if raw[0] != '"' {
		return value{raw: raw}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return value{}, err
	}
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '{' || s[0] == '[') {
		return value{raw: json.RawMessage(s)}, nil
	}
	return value{text: s}, nil
}

type converter struct {
	cat *catalog.Catalog
}

type locationObject struct {
	ID    string `json:"id"`
	City  string `json:"city"`
	State string `json:"state"`
}

func (c converter) location(raw json.RawMessage) (model.JobLocation, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return model.JobLocation{}, err
	}
	if v.empty() {
		return model.JobLocation{}, errMissing
	}
	if v.isText() {
		return c.locationFromText(v.text)
	}

	var o locationObject
	if err := json.Unmarshal(v.raw, &o); err != nil {
		return model.JobLocation{}, err
	}
	if city := strings.TrimSpace(o.City); city != "" {
		if state := strings.TrimSpace(o.State); state != "" {
			return model.JobLocation{City: city, State: state}, nil
		}
		return c.locationFromText(city)
	}
	if loc, ok := locationIDs[strings.ToLower(strings.TrimSpace(o.ID))]; ok {
		return loc, nil
	}
	return model.JobLocation{}, fmt.Errorf("unknown location %q", o.ID)
}

// locationFromText accepts "City, State", a known location id or a city
// listed in the catalog.
func (c converter) locationFromText(s string) (model.JobLocation, error) {
	if i := strings.LastIndex(s, ","); i >= 0 {
		loc := model.JobLocation{City: strings.TrimSpace(s[:i]), State: strings.TrimSpace(s[i+1:])}
		if loc.City != "" && loc.State != "" {
			return loc, nil
		}
	}
	if loc, ok := locationIDs[strings.ToLower(s)]; ok {
		return loc, nil
	}
	for _, l := range c.cat.Locations {
		if strings.EqualFold(l.City, s) {
			return model.JobLocation{City: l.City, State: l.State}, nil
		}
	}
	return model.JobLocation{}, fmt.Errorf("unknown location %q", s)
}

type experienceObject struct {
	ID       string `json:"id"`
	Range    string `json:"range"`
	MinYears *int   `json:"minYears"`
	MaxYears *int   `json:"maxYears"`
}

func (c converter) experience(raw json.RawMessage) (model.JobExperience, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return model.JobExperience{}, err
	}
	if v.empty() {
		return model.JobExperience{}, errMissing
	}
	if v.isText() {
		return c.experienceByKey(v.text)
	}

	var o experienceObject
	if err := json.Unmarshal(v.raw, &o); err != nil {
		return model.JobExperience{}, err
	}
	for _, key := range []string{o.ID, o.Range} {
		if e, err := c.experienceByKey(key); err == nil {
			return e, nil
		}
	}
	// a band the catalog no longer lists is kept as stored
	if o.ID != "" && o.MinYears != nil {
		return model.JobExperience{ID: o.ID, Label: o.Range, MinYears: *o.MinYears, MaxYears: o.MaxYears}, nil
	}
	return model.JobExperience{}, fmt.Errorf("unknown experience %q", o.ID+o.Range)
}

// experienceByKey matches a catalog entry by id or label.
func (c converter) experienceByKey(key string) (model.JobExperience, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.JobExperience{}, errMissing
	}
	for _, e := range c.cat.Experience {
		if strings.EqualFold(e.ID, key) || strings.EqualFold(e.Label, key) {
			return e.ToJob(), nil
		}
	}
	return model.JobExperience{}, fmt.Errorf("unknown experience %q", key)
}

type salaryObject struct {
	ID    string `json:"id"`
	Range string `json:"range"`
	Min   *int64 `json:"min"`
	Max   *int64 `json:"max"`
}

// salary is optional, an empty value yields a job without a band.
func (c converter) salary(raw json.RawMessage) (model.JobSalary, error) {
	v, err := decodeValue(raw)
	if err != nil || v.empty() {
		return model.JobSalary{}, err
	}
	if v.isText() {
		return c.salaryByKey(v.text)
	}

	var o salaryObject
	if err := json.Unmarshal(v.raw, &o); err != nil {
		return model.JobSalary{}, err
	}
	for _, key := range []string{o.ID, o.Range} {
		if s, err := c.salaryByKey(key); err == nil {
			return s, nil
		}
	}
	if o.ID != "" && o.Min != nil {
		return model.JobSalary{ID: o.ID, Label: o.Range, Min: *o.Min, Max: o.Max}, nil
	}
	return model.JobSalary{}, fmt.Errorf("unknown salary range %q", o.ID+o.Range)
}

func (c converter) salaryByKey(key string) (model.JobSalary, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.JobSalary{}, errMissing
	}
	for _, s := range c.cat.Salary {
		if strings.EqualFold(s.ID, key) || strings.EqualFold(s.Label, key) {
			return s.ToJob(), nil
		}
	}
	return model.JobSalary{}, fmt.Errorf("unknown salary range %q", key)
}

type industryObject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func industry(raw json.RawMessage) (model.JobIndustry, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return model.JobIndustry{}, err
	}
	var o industryObject
	if v.isText() {
		o.ID = v.text
	} else if !v.empty() {
		if err := json.Unmarshal(v.raw, &o); err != nil {
			return model.JobIndustry{}, err
		}
	}

	name := strings.TrimSpace(o.Name)
	if name == "" {
		name = strings.TrimSpace(o.ID)
		if mapped, ok := industryIDs[strings.ToLower(name)]; ok {
			name = mapped
		}
	}
	if name == "" {
		return model.JobIndustry{}, errMissing
	}
	return model.JobIndustry{Name: name}, nil
}

// list decodes a JSON array of strings or text split at any rune of seps.
func list(raw json.RawMessage, seps string) (pq.StringArray, error) {
	v, err := decodeValue(raw)
	if err != nil || v.empty() {
		return nil, err
	}
	var items []string
	if v.isText() {
		items = strings.FieldsFunc(v.text, func(r rune) bool { return strings.ContainsRune(seps, r) })
	} else if err := json.Unmarshal(v.raw, &items); err != nil {
		return nil, err
	}

	var out pq.StringArray
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}

func postedAt(s *string) (time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return time.Time{}, nil
	}
	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", *s)
}

func jobRef(row Row, id uuid.UUID) string {
	if row.JobRef != nil && strings.TrimSpace(*row.JobRef) != "" {
		return strings.TrimSpace(*row.JobRef)
	}
	if id == uuid.Nil {
		return strings.TrimSpace(row.ID)
	}
	return legacyRefPrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Convert builds a job from row. Experience and salary bands are resolved
// against cat. A row id that is not a uuid becomes the job reference when the
// row has none.
func Convert(row Row, cat *catalog.Catalog) (model.Job, error) {
	job, err := convert(row, converter{cat: cat})
	if err != nil {
		return model.Job{}, err
	}
	return job, nil
}

func convert(row Row, c converter) (model.Job, *RowError) {
	fail := func(field string, err error) *RowError {
		return &RowError{ID: row.ID, Field: field, Err: err}
	}

	var job model.Job
	if id, err := uuid.Parse(strings.TrimSpace(row.ID)); err == nil {
		job.ID = id
	}
	if job.JobRef = jobRef(row, job.ID); job.JobRef == "" {
		return job, fail("jobId", errMissing)
	}

	job.Title = strings.TrimSpace(row.Position)
	if job.Title == "" {
		job.Title = strings.TrimSpace(row.Title)
	}
	if job.Title == "" {
		return job, fail("position", errMissing)
	}
	if job.Description = strings.TrimSpace(row.Description); job.Description == "" {
		return job, fail("description", errMissing)
	}

	var err error
	if job.Location, err = c.location(row.Location); err != nil {
		return job, fail("location", err)
	}
	if job.Experience, err = c.experience(row.Experience); err != nil {
		return job, fail("experience", err)
	}
	if job.Industry, err = industry(row.Industry); err != nil {
		return job, fail("industry", err)
	}
	if job.Salary, err = c.salary(row.Salary); err != nil {
		return job, fail("salaryRange", err)
	}

	skills := row.KeySkills
	if len(bytes.TrimSpace(skills)) == 0 {
		skills = row.KeySkillsCamel
	}
	if job.KeySkills, err = list(skills, "\n,"); err != nil {
		return job, fail("keyskills", err)
	}
	if len(job.KeySkills) == 0 {
		return job, fail("keyskills", errMissing)
	}
	if job.Responsibilities, err = list(row.Responsibilities, "\n"); err != nil {
		return job, fail("responsibilities", err)
	}

	job.Department = strings.TrimSpace(row.Department)
	if row.CTC != nil && strings.TrimSpace(*row.CTC) != "" {
		ctc := strings.TrimSpace(*row.CTC)
		job.CTC = &ctc
	}
	if row.Gender != nil {
		job.Gender = model.NormalizeGender(*row.Gender)
		switch job.Gender {
		case "", model.GenderAny, model.GenderMale, model.GenderFemale:
		default:
			return job, fail("gender", fmt.Errorf("unknown gender %q", *row.Gender))
		}
	}

	job.Status = model.StatusDraft
	if strings.EqualFold(strings.TrimSpace(row.Status), model.StatusPublished) {
		job.Status = model.StatusPublished
	}
	if job.PostedAt, err = postedAt(row.DatePosted); err != nil {
		return job, fail("dateposted", err)
	}
	if row.UserID != nil && strings.TrimSpace(*row.UserID) != "" {
		by, err := uuid.Parse(strings.TrimSpace(*row.UserID))
		if err != nil {
			return job, fail("user_id", err)
		}
		job.CreatedBy = &by
	}
	return job, nil
}
