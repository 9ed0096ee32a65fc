package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	adminAttendanceHandler AdminAttendanceHandler,
	healthHandler HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/readyz", healthHandler.Ready)

	authenticated := func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
		r.Use(middleware.EmployeeRequired)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance", func(r chi.Router) {
			authenticated(r)

			r.With(middleware.RequirePermission(user.PermissionAttendanceClock)).Group(func(r chi.Router) {
				r.Post("/clock", attendanceHandler.Clock)
				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
			})

			r.With(middleware.RequirePermission(user.PermissionAttendanceViewOwn)).Group(func(r chi.Router) {
				r.Get("/status", attendanceHandler.Status)
				r.Get("/my", attendanceHandler.MyHistory)
				r.Get("/summary", attendanceHandler.MySummary)
				r.Post("/summary", attendanceHandler.MySummary)
			})
		})

		r.Route("/admin/attendance", func(r chi.Router) {
			// SSE clients cannot send headers; the stream authenticates with a query token
			r.Get("/stream", adminAttendanceHandler.Stream)

			r.Group(func(r chi.Router) {
				authenticated(r)
				r.Use(middleware.AdminOnly)

				r.With(middleware.RequirePermission(user.PermissionAttendanceViewAll)).Group(func(r chi.Router) {
					r.Get("/summary", adminAttendanceHandler.Summary)
					r.Post("/summary", adminAttendanceHandler.Summary)
					r.Post("/search", adminAttendanceHandler.Search)
				})

				r.With(middleware.RequirePermission(user.PermissionAttendanceStream)).
					Get("/stream-token", adminAttendanceHandler.StreamToken)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
