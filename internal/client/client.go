package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
	"github.com/DjordjeVuckovic/essay-grader/internal/domain"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout = 60 * time.Second

	// FileField is the multipart field the backend reads the essay from.
	FileField = "file"

	maxErrorBody = 4 << 10
)

type Option func(*Client)

// Client talks to the grading REST API. The session cookie lives only in the
// in-memory jar of the underlying http.Client.
type Client struct {
	base url.URL
	http *http.Client
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, apperr.NewValidation(fmt.Sprintf("base url %q must be absolute", baseURL))
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &Client{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// WithHttpClient replaces the transport client. A nil Jar is filled with the
// client's own jar so the session cookie keeps working.
func WithHttpClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient.Jar == nil {
			httpClient.Jar = c.http.Jar
		}
		c.http = httpClient
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

// Evaluate uploads an essay as multipart form data to /api/evaluate.
func (c *Client) Evaluate(ctx context.Context, fileName string, content io.Reader) (*domain.SubmissionResult, error) {
	if fileName == "" {
		return nil, apperr.NewValidation("missing file name")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(FileField, filepath.Base(fileName))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, &body, "api", "evaluate")
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res domain.SubmissionResult
	if err := c.send(req, "evaluate", &res); err != nil {
		return nil, err
	}

	slog.Debug("Submitted essay", "file", fileName, "cache_hit", res.CacheHit, "job_id", res.JobID)
	return &res, nil
}

func (c *Client) JobStatus(ctx context.Context, jobID string) (*domain.JobStatus, error) {
	if jobID == "" {
		return nil, apperr.NewValidation("missing job id")
	}

	var st domain.JobStatus
	if err := c.do(ctx, "job status", http.MethodGet, nil, &st, "api", "job-status", url.PathEscape(jobID)); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) JobsStats(ctx context.Context) (*domain.JobStats, error) {
	var stats domain.JobStats
	if err := c.do(ctx, "jobs stats", http.MethodGet, nil, &stats, "api", "jobs-stats"); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader, elem ...string) (*http.Request, error) {
	reqURL := c.base.JoinPath(elem...)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends reqData as JSON (when non-nil) and decodes the reply into respData.
// op names the call in errors.
func (c *Client) do(ctx context.Context, op, method string, reqData, respData any, elem ...string) error {
	var body io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, body, elem...)
	if err != nil {
		return err
	}
	if reqData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, op, respData)
}

func (c *Client) send(req *http.Request, op string, respData any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if respData == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperr.TransportError{Op: op, Err: err}
	}
	if err := json.Unmarshal(respBody, respData); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

// checkStatus turns a non-2xx response into an HTTPStatusError, using the
// backend's {"error": ...} message when there is one.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &apperr.HTTPStatusError{Code: resp.StatusCode}

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		se.Message = eb.Error
	} else if len(raw) > 0 && !json.Valid(raw) {
		se.Message = string(bytes.TrimSpace(raw))
	}

	if errors.Is(se, apperr.ErrUnauthorized) {
		slog.Warn("Session rejected by backend", "url", resp.Request.URL.String())
	}
	return se
}
