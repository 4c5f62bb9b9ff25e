// Package router sets up all HTTP routes and middleware chains for
// InvitePress. It organizes routes into guest-facing, customer API, and
// admin API groups with appropriate middleware stacks.
package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"invitepress/internal/handlers"
	"invitepress/internal/middleware"
	"invitepress/internal/session"
)

// Handlers bundles the handler groups New wires up.
type Handlers struct {
	Auth        *handlers.Auth
	Public      *handlers.Public
	Catalog     *handlers.Catalog
	Invitations *handlers.Invitations
	Builder     *handlers.Builder
	Admin       *handlers.Admin
	Payments    *handlers.Payments
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned rate limiter must be stopped
// on shutdown.
func New(sessionStore *session.Store, h Handlers) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", handlers.Health)

	// Guest-facing invitation pages. RSVP submissions and login attempts
	// are rate limited per client IP.
	limiter := middleware.NewRateLimiter(10, time.Minute)
	r.Route("/i/{slug}", func(r chi.Router) {
		r.Get("/", h.Public.InvitationPage)
		r.Get("/qr", h.Public.InvitationQR)
		r.With(limiter.Middleware).Post("/rsvp", h.Public.RSVPSubmit)
	})

	// Auth endpoints.
	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Post("/register", h.Auth.Register)
		r.With(limiter.Middleware).Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", h.Auth.TwoFASetup)
			r.Post("/2fa/verify", h.Auth.TwoFAVerify)
		})
	})

	// Customer + admin JSON API.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Template catalog — browsable without an account.
		r.Get("/templates", h.Catalog.Templates)
		r.Get("/categories", h.Catalog.Categories)

		// Invitation management — any authenticated user.
		r.Route("/invitations", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/", h.Invitations.List)
			r.Post("/", h.Invitations.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Invitations.Get)
				r.Delete("/", h.Invitations.Delete)
				r.Post("/publish", h.Invitations.Publish)
				r.Post("/unpublish", h.Invitations.Unpublish)
				r.Put("/content", h.Invitations.UpdateContent)
				r.Put("/theme", h.Invitations.UpdateTheme)
				r.Get("/rsvps", h.Invitations.RSVPs)
			})
		})

		// Builder sessions. Opening and saving are target-specific; the
		// mutation endpoints share one shape across both target kinds.
		r.Route("/builder", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/invitations/{id}/open", h.Builder.OpenInvitation)
			r.Post("/invitations/{id}/save", h.Builder.SaveInvitation)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Require2FA)
				r.Use(middleware.RequireAdmin)
				r.Post("/templates/{id}/open", h.Builder.OpenTemplate)
				r.Post("/templates/{id}/save", h.Builder.SaveTemplate)
			})

			r.Route("/{kind:invitations|templates}/{id}", func(r chi.Router) {
				r.Post("/close", h.Builder.Close)
				r.Get("/preview", h.Builder.Preview)
				r.Post("/blocks", h.Builder.AddBlock)
				r.Delete("/blocks/{blockID}", h.Builder.RemoveBlock)
				r.Put("/blocks/content", h.Builder.UpdateContent)
				r.Put("/blocks/settings", h.Builder.UpdateSettings)
				r.Put("/blocks/style", h.Builder.UpdateStyle)
				r.Post("/blocks/move", h.Builder.Move)
				r.Put("/theme", h.Builder.UpdateTheme)
				r.Post("/undo", h.Builder.Undo)
				r.Post("/redo", h.Builder.Redo)
				r.Post("/select", h.Builder.Select)
			})
		})

		// Admin area — authenticated, 2FA-verified, admin role.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin)

			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.Admin.TemplateList)
				r.Post("/", h.Admin.TemplateCreate)
				r.Put("/{id}", h.Admin.TemplateUpdate)
				r.Delete("/{id}", h.Admin.TemplateDelete)
				r.Post("/{id}/publish", h.Admin.TemplatePublish)
				r.Post("/{id}/unpublish", h.Admin.TemplateUnpublish)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Admin.CategoryList)
				r.Post("/", h.Admin.CategoryCreate)
				r.Put("/{id}", h.Admin.CategoryUpdate)
				r.Delete("/{id}", h.Admin.CategoryDelete)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Admin.UserList)
				r.Post("/{id}/reset-2fa", h.Admin.UserReset2FA)
			})

			r.Get("/payments", h.Admin.PaymentList)
		})
	})

	// Stripe. The webhook is signature-verified, not session-gated, and
	// must stay outside the CSRF chain.
	r.Route("/payments", func(r chi.Router) {
		r.With(middleware.CSRF, middleware.RequireAuth).Post("/checkout", h.Payments.Checkout)
		r.Post("/webhook", h.Payments.Webhook)
	})

	return r, limiter
}
