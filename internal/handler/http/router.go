package http

import (
	"log/slog"
	"os"

	"github.com/dor-app/dor-backend-go/internal/handler/http/middleware"
	"github.com/dor-app/dor-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	attendanceHandler AttendanceHandler,
	branchHandler BranchHandler,
	userHandler UserHandler,
	appEnv string,
	frontendURL string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dor-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appEnv),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{frontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			r.Route("/oauth/callback", func(r chi.Router) {
				r.Get("/google", authHandler.OAuthCallbackGoogle)
			})

			r.Route("/login", func(r chi.Router) {
				r.Post("/", authHandler.Login)
				r.Route("/oauth", func(r chi.Router) {
					r.Get("/google", authHandler.LoginWithGoogle)
				})
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/today", attendanceHandler.GetToday)
				r.Get("/me", attendanceHandler.GetMyAttendance)

				// Manager or admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/", attendanceHandler.List)
					r.Get("/{id}", attendanceHandler.Get)
				})
			})

			r.Route("/branches", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/", branchHandler.List)
				r.Post("/", branchHandler.Create)
				r.Get("/{id}", branchHandler.Get)
				r.Put("/{id}", branchHandler.Update)
				r.Delete("/{id}", branchHandler.Delete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.GetProfile)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", userHandler.List)
					r.Put("/{id}/branch", userHandler.AssignBranch)
					r.Put("/{id}/role", userHandler.ChangeRole)
				})
			})
		})
	})
	return r
}
