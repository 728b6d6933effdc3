package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/ahscorp/hiring-hive-platform/internal/submission"
)

// Failure reasons reported by the remote uploader.
const (
	ReasonServerError      = "Server responded with an error"
	ReasonInvalidResponse  = "Invalid server response format"
	ReasonUnexpectedResult = "Unexpected server response"
	ReasonNetwork          = "Network or server error occurred"
)

// Client uploads resumes to a remote upload endpoint.
type Client struct {
	http     *http.Client
	endpoint string
	baseURL  string
}

// NewClient creates a client posting to endpoint. Relative URLs in responses
// are resolved against baseURL.
func NewClient(httpClient *http.Client, endpoint, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient, endpoint: endpoint, baseURL: baseURL}
}

type uploadReply struct {
	Success   bool   `json:"success"`
	ResumeURL string `json:"resume_url"`
	Error     string `json:"error"`
}

func multipartBody(file submission.ResumeFile, targetID, fullName string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename=%q`, file.Name))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("jobId", targetID); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("fullName", fullName); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body, w.FormDataContentType(), nil
}

// Upload implements submission.Uploader.
func (c *Client) Upload(ctx context.Context, file submission.ResumeFile, targetID, fullName string) (string, error) {
	body, ct, err := multipartBody(file, targetID, fullName)
	if err != nil {
		return "", &submission.UploadError{Reason: ReasonNetwork, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", &submission.UploadError{Reason: ReasonNetwork, Err: err}
	}
	req.Header.Set("Content-Type", ct)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &submission.UploadError{Reason: ReasonNetwork, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &submission.UploadError{Reason: ReasonNetwork, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &submission.UploadError{
			Reason: ReasonServerError,
			Err:    fmt.Errorf("upload endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		}
	}

	var reply uploadReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return "", &submission.UploadError{Reason: ReasonInvalidResponse, Err: err}
	}
	if reply.Error != "" {
		return "", &submission.UploadError{Reason: reply.Error}
	}
	if !reply.Success || reply.ResumeURL == "" {
		return "", &submission.UploadError{Reason: ReasonUnexpectedResult}
	}
	return ResolveURL(c.baseURL, reply.ResumeURL), nil
}
