package utilities

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// ContextSetup prepares the gin context before the handler runs.
type ContextSetup func(c *gin.Context)

// WithContextValue stores value under key, the way middleware would.
func WithContextValue(key string, value any) ContextSetup {
	return func(c *gin.Context) {
		if value != nil {
			c.Set(key, value)
		}
	}
}

// SimulateAPICall runs handlerFunc against a JSON request built from body and
// returns the recorder and the decoded JSON object. A nil body sends no
// payload. A response that is not a JSON object is returned with an error.
func SimulateAPICall(
	handlerFunc func(*gin.Context),
	route string,
	method string,
	body interface{},
	setup ...ContextSetup,
) (*httptest.ResponseRecorder, map[string]interface{}, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		payload = b
	}
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(method, route, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	for _, fn := range setup {
		fn(c)
	}
	handlerFunc(c)

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		return rec, nil, err
	}
	return rec, resp, nil
}
