package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the service.
type APIError struct {
	Status   int
	Message  string
	Problems []string
}

func (e *APIError) Error() string {
	if len(e.Problems) > 0 {
		return fmt.Sprintf("status=%d: %s (%s)", e.Status, e.Message, strings.Join(e.Problems, "; "))
	}
	return fmt.Sprintf("status=%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError carrying status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the feedback forms REST service.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for baseURL. A nil httpClient gets a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(token)
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FormLink is the shareable public URL of a form.
func (c *Client) FormLink(id string) string {
	return c.baseURL + "/form/" + url.PathEscape(id)
}

// Login exchanges credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &result); err != nil {
		return LoginResult{}, err
	}
	c.SetToken(result.Token)
	return result, nil
}

// Me returns the user behind the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &user)
	return user, err
}

// Logout revokes the current token and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) Forms(ctx context.Context) ([]Form, error) {
	forms := make([]Form, 0)
	err := c.do(ctx, http.MethodGet, "/forms", nil, nil, &forms)
	return forms, err
}

// Form fetches a single form through the public endpoint.
func (c *Client) Form(ctx context.Context, id string) (Form, error) {
	var form Form
	err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(id), nil, nil, &form)
	return form, err
}

func (c *Client) CreateForm(ctx context.Context, input FormInput) (Form, error) {
	var form Form
	err := c.do(ctx, http.MethodPost, "/forms", nil, input, &form)
	return form, err
}

func (c *Client) UpdateForm(ctx context.Context, id string, update FormUpdate) (Form, error) {
	var form Form
	err := c.do(ctx, http.MethodPatch, "/forms/"+url.PathEscape(id), nil, update, &form)
	return form, err
}

// DeleteForm removes a form together with its feedbacks.
func (c *Client) DeleteForm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/forms/"+url.PathEscape(id), nil, nil, nil)
}

// FormCounts returns the number of feedbacks per form id.
func (c *Client) FormCounts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	err := c.do(ctx, http.MethodGet, "/forms/counts", nil, nil, &counts)
	return counts, err
}

func (c *Client) Feedbacks(ctx context.Context, query FeedbackQuery) ([]Feedback, error) {
	feedbacks := make([]Feedback, 0)
	err := c.do(ctx, http.MethodGet, "/feedbacks", query.Values(), nil, &feedbacks)
	return feedbacks, err
}

func (c *Client) Analytics(ctx context.Context, formID string) (Analytics, error) {
	var analytics Analytics
	err := c.do(ctx, http.MethodGet, "/analytics", AnalyticsValues(formID), nil, &analytics)
	return analytics, err
}

// SubmitFeedback posts a respondent submission. No token is required.
func (c *Client) SubmitFeedback(ctx context.Context, submission Submission) (Feedback, error) {
	var feedback Feedback
	err := c.do(ctx, http.MethodPost, "/feedbacks", nil, submission, &feedback)
	return feedback, err
}

// ExportCSV downloads the server-rendered CSV for query.
func (c *Client) ExportCSV(ctx context.Context, query FeedbackQuery) ([]byte, string, error) {
	res, err := c.send(ctx, http.MethodGet, "/feedbacks/export", query.Values(), nil)
	if err != nil {
		return nil, "", err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read export: %w", err)
	}
	filename := ""
	if _, params, err := mime.ParseMediaType(res.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return data, filename, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	res, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and converts error statuses into *APIError.
// The caller closes the body of a successful response.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if res.StatusCode >= 400 {
		defer res.Body.Close()
		return nil, decodeAPIError(res)
	}
	return res, nil
}

func decodeAPIError(res *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	var payload struct {
		Error    string   `json:"error"`
		Problems []string `json:"problems"`
	}
	apiErr := &APIError{Status: res.StatusCode}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Problems = payload.Problems
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(res.StatusCode)
	}
	return apiErr
}
