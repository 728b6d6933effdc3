package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	gnt "github.com/dstotijn/go-notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() Payload {
	var p Payload
	p.Add(KeyFullName, "Asha Rao")
	p.Add(KeyEmail, "asha@example.com")
	p.Add(KeyPhone, "+91 98765 43210")
	p.Add("What is your notice period ?(in days)", "30")
	p.Add(KeyResume, "https://files.example.com/resumes/J1001/Asha_Rao_1.pdf")
	p.Add(KeyJobID, "J1001")
	p.Add(KeyJobTitle, "Backend Engineer")
	p.Add(KeyFormName, "Job Application Form")
	return p
}

func TestPayloadEncodeKeepsOrder(t *testing.T) {
	p := samplePayload()
	enc := p.Encode()

	assert.True(t, strings.HasPrefix(enc, "Full+Name=Asha+Rao&Email=asha%40example.com&"))
	assert.Contains(t, enc, "What+is+your+notice+period+%3F%28in+days%29=30")

	assert.Equal(t, "J1001", p.Values().Get(KeyJobID))
	assert.Equal(t, "", p.Get("missing"))
}

func TestWebhookPostsForm(t *testing.T) {
	var got http.Header
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(srv.Client(), StaticURL(srv.URL))
	require.NoError(t, w.Send(context.Background(), samplePayload()))

	assert.Equal(t, "application/x-www-form-urlencoded", got.Get("Content-Type"))
	assert.Equal(t, []string{"Asha Rao"}, form[KeyFullName])
	assert.Equal(t, []string{"Job Application Form"}, form[KeyFormName])
}

func TestWebhookNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(nil, StaticURL(srv.URL)).Send(context.Background(), samplePayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestWebhookDisabledWithoutURL(t *testing.T) {
	err := NewWebhook(nil, StaticURL("")).Send(context.Background(), samplePayload())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestFirstURL(t *testing.T) {
	failing := func(context.Context) (string, error) { return "", errors.New("db down") }

	u, err := FirstURL(failing, StaticURL(""), StaticURL("https://b"))(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://b", u)

	_, err = FirstURL(failing, StaticURL(""))(context.Background())
	assert.Error(t, err)
}

type recordingSink struct {
	name  string
	err   error
	delay time.Duration
	mu    sync.Mutex
	got   []Payload
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Send(ctx context.Context, p Payload) error {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, p)
	return s.err
}

func TestFanoutDeliversToAllSinksAndSwallowsErrors(t *testing.T) {
	ok := &recordingSink{name: "ok"}
	bad := &recordingSink{name: "bad", err: errors.New("boom")}
	off := &recordingSink{name: "off", err: ErrDisabled}

	f := NewFanout(time.Second, ok, bad, off)
	f.Notify(context.Background(), samplePayload())
	f.Wait()

	assert.Len(t, ok.got, 1)
	assert.Len(t, bad.got, 1)
	assert.Len(t, off.got, 1)
}

func TestFanoutDoesNotBlockAndSurvivesCancel(t *testing.T) {
	slow := &recordingSink{name: "slow", delay: 50 * time.Millisecond}
	f := NewFanout(time.Second, slow)

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	f.Notify(ctx, samplePayload())
	assert.Less(t, time.Since(start), 40*time.Millisecond)
	cancel()

	f.Wait()
	assert.Len(t, slow.got, 1)
}

func TestFanoutTimeout(t *testing.T) {
	slow := &recordingSink{name: "slow", delay: time.Second}
	f := NewFanout(10*time.Millisecond, slow)

	f.Notify(context.Background(), samplePayload())
	f.Wait()
	assert.Empty(t, slow.got)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestNotionCreatesDatabasePage(t *testing.T) {
	var calls atomic.Int32
	var body map[string]any
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		assert.Equal(t, "/v1/pages", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       io.NopCloser(strings.NewReader(`{"object":"page","id":"p1","parent":{"type":"database_id","database_id":"db1"},"properties":{}}`)),
		}, nil
	})}

	n := NewNotion("secret", "db1", gnt.WithHTTPClient(client))
	require.NoError(t, n.Send(context.Background(), samplePayload()))
	assert.Equal(t, int32(1), calls.Load())

	props := body["properties"].(map[string]any)
	assert.Contains(t, props, "Name")
	assert.Contains(t, props, "Email")
	assert.Contains(t, props, "Resume")
	assert.Contains(t, props, "Details")
}

func TestNotionProperties(t *testing.T) {
	props := notionProperties(samplePayload())

	require.Contains(t, props, "Form")
	assert.Equal(t, "Job Application Form", props["Form"].Select.Name)
	assert.Equal(t, "J1001 Backend Engineer", props["Job"].RichText[0].Text.Content)
	assert.Equal(t, "What is your notice period ?(in days): 30", props["Details"].RichText[0].Text.Content)
}
