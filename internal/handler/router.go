package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/mmeshcher/topup-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины пополнений.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/recent", h.GetRecent)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.ListGames)
			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", h.GetGame)
				r.Post("/visit", h.VisitGame)
			})
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.BeginCheckout)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.GetCheckout)
				r.Patch("/", h.UpdateCheckout)
				r.Delete("/", h.CloseCheckout)
				r.Post("/method", h.SelectMethod)
				r.Post("/voucher", h.ApplyVoucher)
				r.Post("/advance", h.Advance)
				r.Post("/back", h.Back)
				r.Post("/submit", h.Submit)
				r.Post("/retry", h.Retry)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
