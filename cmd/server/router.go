package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apimiddleware "github.com/fundhub/contract-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	r.Route("/api/contracts", func(r chi.Router) {
		// Read endpoints (public)
		r.Get("/reminders", app.contractHandler.GetContractReminders)
		r.Get("/number/{number}", app.contractHandler.GetContractsByNumber)
		r.Get("/number/{number}/version/{version}", app.contractHandler.GetContractByNumberAndVersion)
		r.Get("/{id}", app.contractHandler.GetContractByID)

		// Mutating endpoints require authentication
		r.Group(func(r chi.Router) {
			r.Use(app.authMiddleware.Authenticate)
			r.Patch("/{id}/reminder-sent", app.contractHandler.UpdateLastEmailReminderSent)
			r.Patch("/confirm-approval", app.contractHandler.ConfirmApproval)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
