package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-interview-client/internal/config"
	"go-interview-client/internal/handler"
	"go-interview-client/internal/middleware"
	"go-interview-client/internal/repository"
	"go-interview-client/internal/router"
	"go-interview-client/internal/service"
	"go-interview-client/internal/storage"
)

const tokenSweepInterval = 10 * time.Minute

// App is the stand-in interview backend.
type App struct {
	server       *http.Server
	handler      http.Handler
	cleanupFuncs []func()
}

type Option func(*options)

type options struct {
	now      func() time.Time
	hashCost int
}

// WithClock drives token expiry and interview timers from now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHashCost lowers the bcrypt cost, for tests.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

func New(cfg *config.Server, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	files, err := storage.New(cfg.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	bank, err := service.LoadQuestionBank(cfg.QuestionBankFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	userRepo := repository.NewUserRepository()
	tokenRepo := repository.NewTokenRepository(o.now)
	interviewRepo := repository.NewInterviewRepository()
	contentRepo := repository.NewContentRepository()

	authOpts := []service.AuthOption{service.WithClock(o.now)}
	if o.hashCost > 0 {
		authOpts = append(authOpts, service.WithHashCost(o.hashCost))
	}
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, authOpts...)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	contentService := service.NewContentService(contentRepo, files, cfg.MaxUploadSize, o.now)
	interviewService := service.NewInterviewService(interviewRepo, contentRepo, bank, service.NewCodeRunner(), cfg.SessionMinutesCap, o.now)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.SecureCookies),
		Content:   handler.NewContentHandler(contentService, cfg.MaxUploadSize),
		Interview: handler.NewInterviewHandler(interviewService),
		History:   handler.NewHistoryHandler(service.NewHistoryService(interviewRepo)),
		Feedback:  handler.NewFeedbackHandler(service.NewFeedbackService(contentRepo)),
		Docs:      handler.NewDocsHandler(),
	})

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go sweepRefreshTokens(sweepCtx, tokenRepo, tokenSweepInterval)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		handler:      appRouter,
		cleanupFuncs: []func(){sweepCancel},
	}, nil
}

// Handler exposes the routes without a listener, for httptest.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Close() {
	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.Close()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func sweepRefreshTokens(ctx context.Context, tokens *repository.TokenRepository, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := tokens.CleanExpired(ctx); removed > 0 {
				slog.Debug("expired refresh tokens removed", "count", removed)
			}
		}
	}
}
