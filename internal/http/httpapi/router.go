package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"donatebridge/internal/http/handlers"
	"donatebridge/internal/infra"
	"donatebridge/internal/middleware"
)

// NewRouter builds the webhook surface: the donation page endpoint, the
// Telegram update endpoint and a health probe.
func NewRouter(app *handlers.App, log infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS())

	r.Get("/v1/healthz", app.Health)
	r.Post("/donate", app.DonateAction)
	r.Post("/telegram/webhook", app.TelegramWebhook)

	return r
}
