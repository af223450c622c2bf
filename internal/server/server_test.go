package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sngm3741/feedback-forms/api/internal/config"
)

type testAPI struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	cfg := config.Config{
		Addr:       ":0",
		Storage:    config.StorageMemory,
		Timezone:   "UTC",
		Logger:     zap.NewNop().Sugar(),
		JWTConfigs: []config.JWTConfig{{Issuer: "feedback-forms", Secret: []byte("test-secret")}},
		TokenTTL:   time.Hour,
		DefaultAdmin: config.AdminConfig{
			Email:    "admin@feedback.com",
			Password: "password",
			Name:     "Admin",
		},
		AllowedOrigins: []string{"*"},
	}
	s, err := New(cfg, Dependencies{})
	require.NoError(t, err)
	require.NoError(t, s.EnsureDefaultAdmin(context.Background()))

	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &testAPI{t: t, srv: srv}
}

func (a *testAPI) do(method, path string, body any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, a.srv.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (a *testAPI) login() {
	resp := a.do(http.MethodPost, "/auth/login", map[string]string{"email": "admin@feedback.com", "password": "password"})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](a.t, resp)
	a.token = body["token"].(string)
}

func (a *testAPI) createForm(title string) map[string]any {
	resp := a.do(http.MethodPost, "/forms", map[string]any{"title": title, "description": "Tell us"})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]any](a.t, resp)
}

func TestLoginFailures(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodPost, "/auth/login", map[string]string{"email": "admin@feedback.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "Invalid credentials. Check email and password.", body["error"])

	resp = api.do(http.MethodGet, "/forms", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp := api.do(http.MethodGet, "/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[map[string]string](t, resp)
	assert.Equal(t, "admin@feedback.com", me["email"])

	resp = api.do(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFormAndFeedbackFlow(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	form := api.createForm("Product survey")
	formID := form["id"].(string)
	fields := form["fields"].([]any)
	require.Len(t, fields, 4)
	me := api.do(http.MethodGet, "/auth/me", nil)
	assert.Equal(t, decode[map[string]string](t, me)["id"], form["createdBy"])

	// respondents need no token
	anonymous := &testAPI{t: t, srv: api.srv}
	resp := anonymous.do(http.MethodGet, "/forms/"+formID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = anonymous.do(http.MethodPost, "/feedbacks", map[string]any{
		"formId": formID,
		"name":   "spoofed",
		"rating": 1,
		"responses": map[string]any{
			"field-1": "Ann",
			"field-2": "ann@x.io",
			"field-3": `He said "hi, there"`,
			"field-4": 5,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[map[string]any](t, resp)
	assert.Equal(t, "Ann", created["name"])
	assert.EqualValues(t, 5, created["rating"])

	resp = anonymous.do(http.MethodPost, "/feedbacks", map[string]any{
		"formId":    formID,
		"responses": map[string]any{"field-1": "Bob"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = anonymous.do(http.MethodPost, "/feedbacks", map[string]any{"formId": "missing", "responses": map[string]any{}})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(http.MethodGet, "/feedbacks?search=ANN&rating=5&formId="+formID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 1)

	resp = api.do(http.MethodGet, "/feedbacks?rating=9", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = api.do(http.MethodGet, "/analytics?formId=all", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	analytics := decode[map[string]float64](t, resp)
	assert.Equal(t, 1.0, analytics["totalFeedbacks"])
	assert.Equal(t, 5.0, analytics["averageRating"])
	assert.Equal(t, 1.0, analytics["positiveCount"])

	resp = api.do(http.MethodGet, "/forms/counts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{formID: 1}, decode[map[string]int](t, resp))

	resp = api.do(http.MethodGet, "/feedbacks/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "feedbacks-")
	csv, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(csv), `"He said ""hi; there"""`)

	resp = api.do(http.MethodDelete, "/forms/"+formID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = api.do(http.MethodGet, "/feedbacks", nil)
	assert.Empty(t, decode[[]map[string]any](t, resp))
	resp = api.do(http.MethodDelete, "/forms/"+formID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInactiveFormRejectsSubmissions(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	formID := api.createForm("Closed")["id"].(string)

	resp := api.do(http.MethodPatch, "/forms/"+formID, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, decode[map[string]any](t, resp)["isActive"])

	resp = api.do(http.MethodPost, "/feedbacks", map[string]any{"formId": formID, "responses": map[string]any{}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	page, err := http.Get(api.srv.URL + "/form/" + formID)
	require.NoError(t, err)
	defer page.Body.Close()
	html, err := io.ReadAll(page.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, string(html), "This form is no longer accepting responses")
	assert.NotContains(t, string(html), `type="submit"`)

	post, err := http.PostForm(api.srv.URL+"/form/"+formID, url.Values{"field-1": {"Ann"}})
	require.NoError(t, err)
	defer post.Body.Close()
	assert.Equal(t, http.StatusConflict, post.StatusCode)

	resp = api.do(http.MethodGet, "/feedbacks", nil)
	assert.Empty(t, decode[[]map[string]any](t, resp))
}

func TestPublicFormPageSubmission(t *testing.T) {
	api := newTestAPI(t)
	api.login()
	formID := api.createForm("Open")["id"].(string)

	missing, err := http.Get(api.srv.URL + "/form/doesnotexist")
	require.NoError(t, err)
	defer missing.Body.Close()
	body, _ := io.ReadAll(missing.Body)
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	assert.Contains(t, string(body), "Form not found or failed to load.")

	invalid, err := http.PostForm(api.srv.URL+"/form/"+formID, url.Values{"field-1": {"Ann"}})
	require.NoError(t, err)
	defer invalid.Body.Close()
	body, _ = io.ReadAll(invalid.Body)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
	assert.Contains(t, string(body), `value="Ann"`)

	ok, err := http.PostForm(api.srv.URL+"/form/"+formID, url.Values{
		"field-1": {"Ann"},
		"field-2": {"ann@x.io"},
		"field-3": {"Nice"},
		"field-4": {"4"},
	})
	require.NoError(t, err)
	defer ok.Body.Close()
	body, _ = io.ReadAll(ok.Body)
	assert.Equal(t, http.StatusOK, ok.StatusCode)
	assert.True(t, strings.Contains(string(body), "Submit Another Response"))

	resp := api.do(http.MethodGet, "/feedbacks?formId="+formID, nil)
	items := decode[[]map[string]any](t, resp)
	require.Len(t, items, 1)
	assert.EqualValues(t, 4, items[0]["rating"])
}

func TestHealthzMemory(t *testing.T) {
	api := newTestAPI(t)
	resp := api.do(http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "memory", decode[map[string]string](t, resp)["storage"])
}
