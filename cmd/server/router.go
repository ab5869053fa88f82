package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sendesk/sendesk/internal/handler"
	"github.com/sendesk/sendesk/internal/middleware"
)

func setupRouter(h *handler.Handler, auth *middleware.SessionAuth) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/logout", h.Logout)
		r.Post("/auth/forgot-password", h.ForgotPassword)
		r.Post("/auth/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/me", h.CurrentUser)

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", h.ListContacts)
				r.Post("/", h.CreateContact)
				r.Post("/import", h.ImportContacts)
				r.Get("/{id}", h.GetContact)
				r.Put("/{id}", h.UpdateContact)
				r.Delete("/{id}", h.DeleteContact)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.ListCampaigns)
				r.Post("/", h.CreateCampaign)
				r.Get("/{id}", h.GetCampaign)
				r.Put("/{id}", h.UpdateCampaign)
				r.Delete("/{id}", h.DeleteCampaign)
				r.Post("/{id}/launch", h.LaunchCampaign)
			})

			r.Get("/analytics", h.GetAnalytics)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
		})
	})

	return r
}
