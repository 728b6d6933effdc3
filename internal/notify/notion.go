package notify

import (
	"context"
	"strings"

	gnt "github.com/dstotijn/go-notion"
)

// Payload keys the Notion sink maps to typed properties.
const (
	KeyFullName  = "Full Name"
	KeyEmail     = "Email"
	KeyPhone     = "Contact Number"
	KeyResume    = "Upload Resume"
	KeyJobID     = "job_id"
	KeyJobTitle  = "job_title"
	KeyFormName  = "form_name"
	KeyDate      = "Date"
	KeyTime      = "Time"
	KeyPageURL   = "Page URL"
	KeyOtherDept = "Other"
)

// Notion mirrors submissions as rows of a Notion database.
type Notion struct {
	api        *gnt.Client
	databaseID string
}

// NewNotion returns a Notion sink writing to databaseID.
func NewNotion(token, databaseID string, opts ...gnt.ClientOption) *Notion {
	return &Notion{
		api:        gnt.NewClient(token, opts...),
		databaseID: databaseID,
	}
}

// Name implements Sink.
func (n *Notion) Name() string { return "notion" }

// Send implements Sink.
func (n *Notion) Send(ctx context.Context, p Payload) error {
	props := notionProperties(p)
	_, err := n.api.CreatePage(ctx, gnt.CreatePageParams{
		ParentType:             gnt.ParentTypeDatabase,
		ParentID:               n.databaseID,
		DatabasePageProperties: &props,
	})
	return err
}

// helper: build a valid Notion rich_text slice from a plain string.
func richText(s string) []gnt.RichText {
	if s == "" {
		return nil
	}
	return []gnt.RichText{{Text: &gnt.Text{Content: s}}}
}

func notionProperties(p Payload) gnt.DatabasePageProperties {
	props := gnt.DatabasePageProperties{
		"Name": gnt.DatabasePageProperty{Title: richText(p.Get(KeyFullName))},
	}
	if v := p.Get(KeyEmail); v != "" {
		props["Email"] = gnt.DatabasePageProperty{Email: &v}
	}
	if v := p.Get(KeyPhone); v != "" {
		props["Phone"] = gnt.DatabasePageProperty{PhoneNumber: &v}
	}
	if v := p.Get(KeyResume); v != "" {
		props["Resume"] = gnt.DatabasePageProperty{URL: &v}
	}
	if v := p.Get(KeyFormName); v != "" {
		props["Form"] = gnt.DatabasePageProperty{Select: &gnt.SelectOptions{Name: v}}
	}
	if v := strings.TrimSpace(p.Get(KeyJobID) + " " + p.Get(KeyJobTitle)); v != "" {
		props["Job"] = gnt.DatabasePageProperty{RichText: richText(v)}
	}

	// everything else goes into one text block
	var details []string
	for _, f := range p {
		switch f.Key {
		case KeyFullName, KeyEmail, KeyPhone, KeyResume, KeyFormName, KeyJobID, KeyJobTitle:
			continue
		}
		if f.Value != "" {
			details = append(details, f.Key+": "+f.Value)
		}
	}
	if len(details) > 0 {
		props["Details"] = gnt.DatabasePageProperty{RichText: richText(strings.Join(details, "\n"))}
	}
	return props
}
