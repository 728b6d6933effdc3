package submission

import (
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/notify"
)

// Payload flattens a draft into the human readable notification snapshot.
func (w *Workflow) Payload(d *Draft, resumeURL string) notify.Payload {
	f := d.Form
	now := w.cfg.Now().In(w.cfg.Location)

	other := ""
	if strings.TrimSpace(f.Department) == model.DepartmentOther {
		other = f.OtherDepartment
	}
	jobID := d.Target.JobRef
	formName := FormNameApplication
	if w.IsGeneric(d.Target) {
		formName = FormNameProfile
	}

	var p notify.Payload
	p.Add(notify.KeyFullName, f.FullName)
	p.Add(notify.KeyEmail, f.Email)
	p.Add(notify.KeyPhone, f.Phone)
	p.Add("Years Of Experience", f.YearsOfExperience)
	p.Add("Current Company Name", f.CurrentCompany)
	p.Add("Current Designation", f.CurrentDesignation)
	p.Add("Current CTC (per annum)", f.CurrentCTC)
	p.Add("Current Take Home Salary (per month)", f.CurrentTakeHome)
	p.Add("Expected CTC (per annum)", f.ExpectedCTC)
	p.Add("What is your notice period ?(in days)", f.NoticePeriod)
	p.Add("What is your current location ?", f.Location)
	p.Add("In which department are you searching for job ?", f.Department)
	p.Add(notify.KeyOtherDept, other)
	p.Add(notify.KeyResume, resumeURL)
	p.Add(notify.KeyJobID, jobID)
	p.Add(notify.KeyJobTitle, d.Target.JobTitle)
	p.Add(notify.KeyDate, now.Format("January 2, 2006"))
	p.Add(notify.KeyTime, strings.ToLower(now.Format("3:04 PM")))
	p.Add(notify.KeyPageURL, w.cfg.PageURL)
	p.Add(notify.KeyFormName, formName)
	return p
}
