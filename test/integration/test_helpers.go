//go:build integration

package integration

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-interview-client/internal/app"
	"go-interview-client/internal/client"
	"go-interview-client/internal/config"
	"go-interview-client/internal/credentials"
	"go-interview-client/internal/model"
)

// clock is shared by the backend and the session so tests can jump past
// token and interview expiry.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Now().UTC().Truncate(time.Second)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type backend struct {
	server *httptest.Server
	clock  *clock
}

func newBackend(t *testing.T, tune func(*config.Server)) *backend {
	t.Helper()

	cfg := &config.Server{
		ServerPort:        "0",
		RequestTimeout:    5 * time.Second,
		UploadRoot:        t.TempDir(),
		MaxUploadSize:     1 << 20,
		JWTSecret:         "integration-secret",
		JWTAccessTTL:      time.Minute,
		JWTRefreshTTL:     time.Hour,
		RateLimitRPM:      1000,
		AuthRateLimitRPM:  1000,
		SessionMinutesCap: 120,
	}
	if tune != nil {
		tune(cfg)
	}
	require.NoError(t, cfg.Validate())

	clk := newClock()
	application, err := app.New(cfg, app.WithClock(clk.Now), app.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(application.Close)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)

	return &backend{server: server, clock: clk}
}

type clientOptions struct {
	mode     credentials.Mode
	store    credentials.Store
	registry prometheus.Registerer
}

func (b *backend) newClient(t *testing.T, opts clientOptions) *client.Client {
	t.Helper()

	var metrics *client.Metrics
	if opts.registry != nil {
		metrics = client.NewMetrics(opts.registry)
	}

	c, err := client.New(client.Options{
		BaseURL:    b.server.URL,
		HTTPClient: b.server.Client(),
		Mode:       opts.mode,
		Store:      opts.store,
		Metrics:    metrics,
	})
	require.NoError(t, err)
	return c
}

// signIn registers email and logs the client in.
func signIn(t *testing.T, c *client.Client, email string) *model.User {
	t.Helper()

	ctx := context.Background()
	_, err := c.Register(ctx, model.RegisterRequest{Email: email, Password: "secret", Name: "Test"})
	require.NoError(t, err)

	_, err = c.Login(ctx, email, "secret")
	require.NoError(t, err)

	user, err := c.Me(ctx)
	require.NoError(t, err)
	return user
}

// startInterview uploads a résumé and a job description and starts an
// interview for user.
func startInterview(t *testing.T, c *client.Client, user *model.User, minutes int) *model.Interview {
	t.Helper()

	ctx := context.Background()
	resume, err := c.UploadResume(ctx, "resume.txt", "text/plain", []byte("Go developer\nBuilt payment services.\n"))
	require.NoError(t, err)

	jd, err := c.CreateJobDescription(ctx, model.JobDescriptionRequest{Title: "Backend", JDText: "Go, Postgres, Kafka", UserID: &user.ID})
	require.NoError(t, err)

	interview, err := c.StartInterview(ctx, model.StartInterviewRequest{
		ResumeID:         resume.ID,
		JobDescriptionID: jd.ID,
		UserID:           &user.ID,
		TimerMinutes:     minutes,
	})
	require.NoError(t, err)
	return interview
}
