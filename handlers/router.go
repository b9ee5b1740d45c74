package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/unrolled/secure"

	"github.com/satheeshds/invoicing/observability"
)

// APIPrefix is where the invoice endpoints are mounted.
const APIPrefix = "/api"

// RouterOptions tunes the middleware chain.
type RouterOptions struct {
	RequestTimeout     time.Duration
	RateLimitPerMinute int
	SSLRedirect        bool
}

// NewRouter wires the API onto a chi router.
func NewRouter(api *API, metrics *observability.Metrics, logger *slog.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        opts.SSLRedirect,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}
	r.Use(secureMiddleware.Handler)
	r.Use(metrics.Middleware)

	r.Route(APIPrefix, func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusTooManyRequests, "Too many requests", "")
				}),
			))
		}

		r.Get("/invoices", api.ListInvoices)
		r.Post("/invoices", api.CreateInvoice)
		r.Get("/invoices/export", api.ExportInvoices)
		r.Get("/invoices/stats/summary", api.GetSummary)
		r.Get("/invoices/invoice-no/{invoiceNo}", api.GetInvoiceByNumber)
		r.Get("/invoices/{id}", api.GetInvoice)
		r.Put("/invoices/{id}", api.UpdateInvoice)
		r.Patch("/invoices/{id}/status", api.UpdateInvoiceStatus)
		r.Delete("/invoices/{id}", api.DeleteInvoice)

		// Payments
		r.Get("/invoices/{id}/payments", api.ListPayments)
		r.Post("/invoices/{id}/payments", api.AddPayment)
		r.Delete("/invoices/{id}/payments/{paymentId}", api.DeletePayment)
	})

	r.Get("/", api.Index)
	r.Get("/healthz", api.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", "")
	})
	return r
}
