package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/abz-group/portal-api/internal/application/auth"
	"github.com/abz-group/portal-api/internal/application/card"
	"github.com/abz-group/portal-api/internal/application/document"
	"github.com/abz-group/portal-api/internal/application/reimbursement"
	"github.com/abz-group/portal-api/internal/application/session"
	"github.com/abz-group/portal-api/internal/application/user"
	"github.com/abz-group/portal-api/internal/config"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/transport/http/handler"
	appmiddleware "github.com/abz-group/portal-api/internal/transport/http/middleware"
	"github.com/abz-group/portal-api/internal/verification"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	codesSvc := verification.NewService(deps.Codes, deps.Mailer, deps.SMSSender, cfg.IsProduction())
	authSvc := auth.NewService(auth.ServiceDeps{
		Codes:           codesSvc,
		UserRepo:        deps.UserRepo,
		SessionRepo:     deps.SessionRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenExpiry,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:     deps.SessionRepo,
		UserRepo:        deps.UserRepo,
		JWTProvider:     deps.JWTProvider,
		RefreshTokenDur: cfg.RefreshTokenExpiry,
	})
	userSvc := user.NewService(deps.UserRepo, deps.SessionRepo)
	reimbSvc := reimbursement.NewService(deps.ReimbursementRepo, deps.UserRepo, deps.Mailer)
	docSvc := document.NewService(deps.DocumentRepo, deps.S3Store)
	cardSvc := card.NewService(deps.CardRepo)

	verificationH := handler.NewVerificationHandler(authSvc, deps.Codes)
	sessionH := handler.NewSessionHandler(sessionSvc)
	userH := handler.NewUserHandler(userSvc)
	reimbH := handler.NewReimbursementHandler(reimbSvc)
	docH := handler.NewDocumentHandler(docSvc)
	cardH := handler.NewCardHandler(cardSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", handler.Health)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.Post("/sessions/refresh", sessionH.Refresh)
		r.With(sensitiveRL.Limit).Post("/verification/send", verificationH.Send)
		r.With(sensitiveRL.Limit).Post("/verification/check", verificationH.Check)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/sessions", sessionH.GetCurrent)
			r.Post("/sessions/logout", sessionH.Logout)
			r.Post("/users/change-password", userH.ChangePassword)

			r.Get("/cards", cardH.List)
			r.Get("/documents", docH.List)
			r.Get("/documents/{id}", docH.Get)
			r.Get("/documents/{id}/download", docH.Download)

			r.Post("/reimbursements", reimbH.Create)
			r.Get("/reimbursements", reimbH.ListOwn)
			r.Get("/reimbursements/{id}", reimbH.Get)

			// Manager tier and above
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireAtLeast(domain.RoleManager))

				r.Get("/reimbursements/review", reimbH.ListByStatus)
				r.Post("/reimbursements/{id}/decide", reimbH.Decide)
				r.Post("/documents", docH.Upload)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/users", userH.Create)
				r.Get("/users", userH.List)
				r.Get("/users/{id}", userH.Get)
				r.Put("/users/{id}", userH.Update)
				r.Delete("/users/{id}", userH.Delete)

				r.Post("/reimbursements/{id}/pay", reimbH.MarkPaid)
				r.Delete("/documents/{id}", docH.Delete)

				r.Post("/cards", cardH.Create)
				r.Get("/cards/{id}", cardH.Get)
				r.Put("/cards/{id}", cardH.Update)
				r.Delete("/cards/{id}", cardH.Delete)

				r.Get("/verification/active", verificationH.ListActive)
				r.Get("/verification/peek", verificationH.Peek)
			})
		})
	})

	return r
}
