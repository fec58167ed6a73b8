package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-interview-client/internal/config"
	"go-interview-client/internal/handler"
	"go-interview-client/internal/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Content   *handler.ContentHandler
	Interview *handler.InterviewHandler
	History   *handler.HistoryHandler
	Feedback  *handler.FeedbackHandler
	Docs      *handler.DocsHandler
}

// New builds the stand-in interview backend. Paths match the real service,
// so there is no version prefix.
func New(cfg *config.Server, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Interview practice API is running"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if h.Docs != nil {
		r.Get("/openapi.yaml", h.Docs.OpenAPI)
		r.Get("/docs", h.Docs.SwaggerUI)
	}

	r.Route("/auth", func(auth chi.Router) {
		auth.Post("/register", h.Auth.Register)
		auth.Post("/login", h.Auth.Login)
		auth.Post("/google", h.Auth.Google)
		auth.Post("/refresh", h.Auth.Refresh)
		auth.Post("/logout", h.Auth.Logout)
		auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
	})

	r.Post("/feedbacks/", h.Feedback.Create)

	r.Group(func(protected chi.Router) {
		protected.Use(authMiddleware.RequireAuth)

		protected.Post("/resume/upload", h.Content.UploadResume)
		protected.Get("/resume/{id}", h.Content.GetResume)
		protected.Post("/job/", h.Content.CreateJob)
		protected.Get("/job/{id}", h.Content.GetJob)

		protected.Post("/interview/start", h.Interview.Start)
		protected.Get("/interview/{id}", h.Interview.Get)
		protected.Post("/interview/{id}/next", h.Interview.Next)
		protected.Post("/interview/{id}/answer", h.Interview.Answer)
		protected.Post("/interview/{id}/end", h.Interview.End)
		protected.Post("/code/run_code", h.Interview.RunCode)

		protected.Get("/history/user/{userID}", h.History.User)
		protected.Get("/history/user/{userID}/last", h.History.Last)
		protected.Get("/history/{id}", h.History.Detail)
	})

	return r
}
