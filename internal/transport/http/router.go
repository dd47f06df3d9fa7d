package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouterConfig collects the services and settings the HTTP surface needs.
type RouterConfig struct {
	Bookings     BookingCreator
	Reservations *ReservationHandlers
	Payments     PaymentConfirmer
	Admin        *AdminHandlers
	AdminKey     string
	CORSOrigins  []string
	Logger       *log.Logger
}

// NewRouter wires all endpoints onto a chi router with the shared
// middleware stack applied outermost.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.NotFound(NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(MethodNotAllowedHandler().ServeHTTP)

	r.Get("/healthz", HealthHandler)

	r.Post("/bookings", HandleCreateBooking(cfg.Bookings))

	r.Route("/reservations/{id}", func(r chi.Router) {
		r.Get("/", cfg.Reservations.Get)
		r.Post("/contract", cfg.Reservations.RequestContract)
		r.Post("/contract/signature", cfg.Reservations.SignContract)
		r.Post("/balance", cfg.Reservations.PayBalance)
		r.Post("/cancellation", cfg.Reservations.RequestCancellation)
		r.Post("/change", cfg.Reservations.RequestChange)
		r.Post("/security-deposit", cfg.Reservations.AuthorizeSecurityDeposit)
	})

	r.Post("/webhooks/payment", HandlePaymentWebhook(cfg.Payments))

	r.Route("/admin/reservations/{id}", func(r chi.Router) {
		r.Use(RequireAdminKey(cfg.AdminKey))
		r.Get("/", cfg.Admin.GetReservation)
		r.Post("/cancellation/resolve", cfg.Admin.ResolveCancellation)
		r.Post("/change/resolve", cfg.Admin.ResolveChange)
		r.Post("/rental/begin", cfg.Admin.BeginRental)
		r.Post("/rental/complete", cfg.Admin.CompleteRental)
		r.Post("/token", cfg.Admin.IssueToken)
	})

	return RequestLogger(CORS(cfg.CORSOrigins, r), cfg.Logger)
}
