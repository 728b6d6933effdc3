// Package legacy converts job rows exported from the previous hosted store
// into the job model. Rows of that store keep location, experience and
// industry either as JSON objects or as plain strings, sometimes JSON encoded
// inside a text column. Convert accepts all of these and nothing else reads
// them.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Row is one exported job row.
type Row struct {
	ID               string          `json:"id"`
	JobRef           *string         `json:"jobId"`
	Position         string          `json:"position"`
	Title            string          `json:"title"`
	Location         json.RawMessage `json:"location"`
	Experience       json.RawMessage `json:"experience"`
	Industry         json.RawMessage `json:"industry"`
	Salary           json.RawMessage `json:"salaryRange"`
	Department       string          `json:"department"`
	KeySkills        json.RawMessage `json:"keyskills"`
	KeySkillsCamel   json.RawMessage `json:"keySkills"`
	Responsibilities json.RawMessage `json:"responsibilities"`
	Description      string          `json:"description"`
	CTC              *string         `json:"ctc"`
	Gender           *string         `json:"gender"`
	Status           string          `json:"status"`
	DatePosted       *string         `json:"dateposted"`
	UserID           *string         `json:"user_id"`
}

// Decode reads a JSON array of rows or a stream of row objects.
func Decode(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var rows []Row
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		return rows, nil
	}

	var rows []Row
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var row Row
		err := dec.Decode(&row)
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, row)
	}
}

// RowError reports a row that could not be converted or stored.
type RowError struct {
	Index int
	ID    string
	Field string
	Err   error
}

func (e *RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %s: %v", e.Index, e.ID, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
