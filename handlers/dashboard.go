package handlers

import (
	"net/http"
)

// Version is reported by the index endpoint.
var Version = "1.0.0"

// GetSummary retrieves invoice statistics
// @Summary      Invoice statistics
// @Description  Count, invoiced total and transferred total per status, plus grand totals.
// @Tags         stats
// @Produce      json
// @Success      200  {object}  Response{data=models.Summary}
// @Router       /invoices/stats/summary [get]
func (a *API) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.svc.Summary(r.Context())
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", summary)
}

type indexData struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Index describes the API.
func (a *API) Index(w http.ResponseWriter, r *http.Request) {
	writeRaw(w, http.StatusOK, indexData{
		Message: "Welcome to Invoice Management API",
		Version: Version,
		Endpoints: map[string]string{
			"getAllInvoices":     "GET " + APIPrefix + "/invoices",
			"getInvoiceById":     "GET " + APIPrefix + "/invoices/:id",
			"getInvoiceByNumber": "GET " + APIPrefix + "/invoices/invoice-no/:invoiceNo",
			"createInvoice":      "POST " + APIPrefix + "/invoices",
			"updateInvoice":      "PUT " + APIPrefix + "/invoices/:id",
			"updateStatus":       "PATCH " + APIPrefix + "/invoices/:id/status",
			"deleteInvoice":      "DELETE " + APIPrefix + "/invoices/:id",
			"addPayment":         "POST " + APIPrefix + "/invoices/:id/payments",
			"getPayments":        "GET " + APIPrefix + "/invoices/:id/payments",
			"deletePayment":      "DELETE " + APIPrefix + "/invoices/:id/payments/:paymentId",
			"exportInvoices":     "GET " + APIPrefix + "/invoices/export",
			"getStats":           "GET " + APIPrefix + "/invoices/stats/summary",
		},
	})
}

// Health pings the store.
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  Response
// @Failure      503  {object}  Response
// @Router       /healthz [get]
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	if err := a.svc.Ping(r.Context()); err != nil {
		a.logger.Warn("health check failed", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Store unavailable", err.Error())
		return
	}
	writeData(w, http.StatusOK, "ok", nil)
}
