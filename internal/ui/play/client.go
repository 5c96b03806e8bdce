package play

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizhub/internal/content"
	"quizhub/internal/session"
)

// APIError is the decoded error envelope of a failed request.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// AnswerResult mirrors the grading response of the answer endpoint.
type AnswerResult struct {
	Graded        bool         `json:"graded"`
	Correct       bool         `json:"correct"`
	AlreadyGraded bool         `json:"already_graded"`
	View          session.View `json:"view"`
}

// Review mirrors the review endpoint payload.
type Review struct {
	SessionID string            `json:"session_id"`
	Phase     string            `json:"phase"`
	QuizID    string            `json:"quiz_id"`
	QuizTitle string            `json:"quiz_title"`
	Score     int               `json:"score"`
	Total     int               `json:"total"`
	Ratio     float64           `json:"ratio"`
	Attempts  []session.Attempt `json:"attempts"`
}

// Client talks to the quiz server over its REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ListQuizzes fetches the selection catalog.
func (c *Client) ListQuizzes(ctx context.Context) ([]content.Entry, error) {
	var out struct {
		Quizzes []content.Entry `json:"quizzes"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/quizzes", nil, &out); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}

// CreateSession opens a session on the selection screen.
func (c *Client) CreateSession(ctx context.Context, studentName string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodPost, "/v1/sessions", map[string]string{"student_name": studentName}, &v)
	return v, err
}

// Session fetches the current state snapshot.
func (c *Client) Session(ctx context.Context, id string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodGet, "/v1/sessions/"+id, nil, &v)
	return v, err
}

// Select starts a run of the chosen quiz.
func (c *Client) Select(ctx context.Context, id, quizID string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+id+"/select", map[string]string{"quiz_id": quizID}, &v)
	return v, err
}

// Answer submits a response for grading.
func (c *Client) Answer(ctx context.Context, id, value string, values []string) (AnswerResult, error) {
	body := map[string]any{}
	if value != "" {
		body["value"] = value
	}
	if len(values) > 0 {
		body["values"] = values
	}
	var res AnswerResult
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+id+"/answer", body, &res)
	return res, err
}

// Advance moves past a graded question.
func (c *Client) Advance(ctx context.Context, id string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+id+"/advance", nil, &v)
	return v, err
}

// Restart replays the finished quiz from the first question.
func (c *Client) Restart(ctx context.Context, id string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+id+"/restart", nil, &v)
	return v, err
}

// Return leaves a finished run for the selection screen.
func (c *Client) Return(ctx context.Context, id string) (session.View, error) {
	var v session.View
	err := c.do(ctx, http.MethodPost, "/v1/sessions/"+id+"/return", nil, &v)
	return v, err
}

// Delete abandons the session server-side.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/sessions/"+id, nil, nil)
}

// ReviewRun fetches the attempt log of the current run.
func (c *Client) ReviewRun(ctx context.Context, id string) (Review, error) {
	var rev Review
	err := c.do(ctx, http.MethodGet, "/v1/sessions/"+id+"/review", nil, &rev)
	return rev, err
}

// Certificate downloads the certificate PNG and reports the filename
// the server suggested.
func (c *Client) Certificate(ctx context.Context, id, name string) ([]byte, string, error) {
	path := "/v1/sessions/" + id + "/certificate"
	if name != "" {
		path += "?name=" + url.QueryEscape(name)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", decodeAPIError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	filename := "certificate.png"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return data, filename, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error
		apiErr.Message = envelope.Message
	}
	return apiErr
}
