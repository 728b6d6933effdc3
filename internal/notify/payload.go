// Package notify delivers best-effort submission notifications to external sinks.
package notify

import (
	"net/url"
	"strings"
)

// Field is one human readable key/value pair of a notification.
type Field struct {
	Key   string
	Value string
}

// Payload is an ordered, flat key/value snapshot of a submission.
type Payload []Field

// Add appends a field.
func (p *Payload) Add(key, value string) {
	*p = append(*p, Field{Key: key, Value: value})
}

// Get returns the value of the first field named key.
func (p Payload) Get(key string) string {
	for _, f := range p {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Values converts the payload to url.Values.
func (p Payload) Values() url.Values {
	v := make(url.Values, len(p))
	for _, f := range p {
		v.Add(f.Key, f.Value)
	}
	return v
}

// Encode renders the payload as application/x-www-form-urlencoded, keeping field order.
func (p Payload) Encode() string {
	var b strings.Builder
	for i, f := range p {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}
