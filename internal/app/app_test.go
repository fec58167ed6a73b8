package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"go-interview-client/internal/config"
	"go-interview-client/internal/handler"
	"go-interview-client/internal/model"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	cfg := &config.Server{
		ServerPort:        "0",
		RequestTimeout:    5 * time.Second,
		UploadRoot:        t.TempDir(),
		MaxUploadSize:     1 << 20,
		JWTSecret:         "test-secret",
		JWTAccessTTL:      time.Minute,
		JWTRefreshTTL:     time.Hour,
		RateLimitRPM:      1000,
		AuthRateLimitRPM:  1000,
		SessionMinutesCap: 120,
	}
	require.NoError(t, cfg.Validate())

	application, err := New(cfg, WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(application.Close)
	return application
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(newTestApp(t).Handler())
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw bytes.Buffer
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, raw.Bytes()
}

func signUp(t *testing.T, server *httptest.Server, email string) model.TokenPair {
	t.Helper()

	resp, _ := do(t, server, http.MethodPost, "/auth/register", "", model.RegisterRequest{Email: email, Password: "pw", Name: "Test"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := do(t, server, http.MethodPost, "/auth/login", "", model.LoginRequest{Email: email, Password: "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair model.TokenPair
	require.NoError(t, json.Unmarshal(raw, &pair))
	require.NoError(t, pair.Validate())
	return pair
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, raw := do(t, server, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Not authenticated"}`, string(raw))

	pair := signUp(t, server, "ada@example.com")

	resp, raw = do(t, server, http.MethodPost, "/auth/register", "", model.RegisterRequest{Email: "ada@example.com", Password: "pw"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Email already registered"}`, string(raw))

	resp, raw = do(t, server, http.MethodGet, "/auth/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me model.User
	require.NoError(t, json.Unmarshal(raw, &me))
	require.Equal(t, "ada@example.com", me.Email)

	resp, raw = do(t, server, http.MethodPost, "/auth/refresh", "", model.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotated model.TokenPair
	require.NoError(t, json.Unmarshal(raw, &rotated))
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	resp, _ = do(t, server, http.MethodPost, "/auth/refresh", "", model.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, server, http.MethodPost, "/auth/logout", "", model.RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, server, http.MethodPost, "/auth/refresh", "", model.RefreshRequest{RefreshToken: rotated.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCookieSession(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	signUp(t, server, "cookie@example.com")

	resp, _ := do(t, server, http.MethodPost, "/auth/login", "", model.LoginRequest{Email: "cookie@example.com", Password: "pw"})
	cookies := resp.Cookies()
	require.Len(t, cookies, 2)

	send := func(method, path string) *http.Response {
		req, err := http.NewRequest(method, server.URL+path, nil)
		require.NoError(t, err)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		resp, err := server.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		return resp
	}

	require.Equal(t, http.StatusOK, send(http.MethodGet, "/auth/me").StatusCode)

	// An empty refresh body falls back to the refresh cookie.
	refreshed := send(http.MethodPost, "/auth/refresh")
	require.Equal(t, http.StatusOK, refreshed.StatusCode)
	require.Len(t, refreshed.Cookies(), 2)
}

func TestInterviewEndpoints(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	pair := signUp(t, server, "flow@example.com")
	token := pair.AccessToken

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "cv.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Go engineer, five years."))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, server.URL+"/resume/upload", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	uploadResp, err := server.Client().Do(req)
	require.NoError(t, err)
	var resume model.Resume
	require.NoError(t, json.NewDecoder(uploadResp.Body).Decode(&resume))
	_ = uploadResp.Body.Close()
	require.Equal(t, http.StatusOK, uploadResp.StatusCode)
	require.NoError(t, resume.Validate())

	resp, raw := do(t, server, http.MethodPost, "/job/", token, model.JobDescriptionRequest{JDText: "Build APIs in Go."})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job model.JobDescription
	require.NoError(t, json.Unmarshal(raw, &job))

	resp, raw = do(t, server, http.MethodPost, "/interview/start", token, model.StartInterviewRequest{
		ResumeID: resume.ID, JobDescriptionID: job.ID, TimerMinutes: 15,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var interview model.Interview
	require.NoError(t, json.Unmarshal(raw, &interview))
	require.True(t, interview.IsActive)
	first, ok := interview.LastQuestion()
	require.True(t, ok)

	resp, _ = do(t, server, http.MethodPost, "/interview/"+itoa(interview.ID)+"/answer", token, model.AnswerRequest{
		QuestionID: first.ID, UserText: "I build backend services.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = do(t, server, http.MethodPost, "/interview/"+itoa(interview.ID)+"/next", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var next model.NextQuestion
	require.NoError(t, json.Unmarshal(raw, &next))
	require.Equal(t, 2, next.Ordinal)

	resp, raw = do(t, server, http.MethodPost, "/code/run_code", token, model.CodeRunRequest{Code: "print(1)", LanguageCode: "python"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var run model.CodeRunResult
	require.NoError(t, json.Unmarshal(raw, &run))
	require.True(t, run.Success)

	resp, raw = do(t, server, http.MethodPost, "/interview/"+itoa(interview.ID)+"/end", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result model.EndResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Equal(t, interview.ID, result.InterviewID)

	resp, raw = do(t, server, http.MethodGet, "/interview/"+itoa(interview.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &interview))
	require.False(t, interview.IsActive)

	resp, raw = do(t, server, http.MethodGet, "/history/user/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history model.History
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 1)

	resp, _ = do(t, server, http.MethodGet, "/history/user/2", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = do(t, server, http.MethodGet, "/interview/abc", token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, string(raw), "detail")

	resp, raw = do(t, server, http.MethodGet, "/interview/999", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"detail":"Interview not found"}`, string(raw))
}

func TestFeedbackIsPublic(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, raw := do(t, server, http.MethodPost, "/feedbacks/", "", model.FeedbackRequest{Email: "a@b.c", FeedbackText: "Nice"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feedback model.Feedback
	require.NoError(t, json.Unmarshal(raw, &feedback))
	require.Equal(t, "general", feedback.FeedbackType)

	resp, _ = do(t, server, http.MethodPost, "/feedbacks/", "", model.FeedbackRequest{Email: "a@b.c"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestOpenAPIDocumentsEveryRoute(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(handler.OpenAPIDocument(), &doc))

	routes, ok := newTestApp(t).Handler().(chi.Routes)
	require.True(t, ok)

	walked := 0
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		walked++
		operations, documented := doc.Paths[route]
		if assert.True(t, documented, "route %s is not documented", route) {
			assert.Contains(t, operations, strings.ToLower(method), "%s %s", method, route)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Greater(t, walked, 20)

	server := newTestServer(t)
	resp, raw := do(t, server, http.MethodGet, "/openapi.yaml", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, handler.OpenAPIDocument(), raw)
}
