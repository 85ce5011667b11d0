package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/time/rate"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string

	// AuthRateLimit caps auth requests per second per client; zero disables it.
	AuthRateLimit rate.Limit
	AuthRateBurst int
}

type Handlers struct {
	Auth     AuthHandler
	Worker   WorkerHandler
	Worklog  WorklogHandler
	Overtime OvertimeHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if opts.AuthRateLimit > 0 {
				r.Use(middleware.RateLimitByIP(opts.AuthRateLimit, opts.AuthRateBurst))
			}
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/workers", func(r chi.Router) {
				r.Post("/", h.Worker.Create)
				r.Get("/", h.Worker.List)
				r.Get("/{id}", h.Worker.Get)
				r.Put("/{id}", h.Worker.Update)
				r.Delete("/{id}", h.Worker.Delete)
			})

			r.Route("/worklogs", func(r chi.Router) {
				r.Post("/", h.Worklog.Create)
				r.Get("/", h.Worklog.List)
				r.Get("/worker/{workerID}", h.Worklog.ListByWorker)
				r.Get("/{id}", h.Worklog.Get)
				r.Put("/{id}", h.Worklog.Update)
				r.Delete("/{id}", h.Worklog.Delete)
			})

			r.Route("/overtime", func(r chi.Router) {
				r.Get("/worker/{workerID}", h.Overtime.ListWorkerSummaries)
				r.Get("/all/{month}/{year}", h.Overtime.ListMonth)
				r.Get("/{workerID}/{month}/{year}", h.Overtime.GetWorkerMonth)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/audit/{month}/{year}", h.Overtime.Audit)
				})
			})
		})
	})
	return r
}

// NewLogger builds the JSON logger shared by the request logger and the
// package-level slog calls.
func NewLogger(env string, level slog.Level) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "overtime-ledger"),
		slog.String("env", env),
	)
}
