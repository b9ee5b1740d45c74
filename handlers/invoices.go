package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/satheeshds/invoicing/models"
	"github.com/satheeshds/invoicing/service"
	"github.com/satheeshds/invoicing/store"
)

// API serves the invoice endpoints.
type API struct {
	svc    *service.Invoices
	logger *slog.Logger
}

// NewAPI returns handlers backed by svc.
func NewAPI(svc *service.Invoices, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{svc: svc, logger: logger}
}

// parseFilter reads the list query parameters.
func parseFilter(r *http.Request) (store.Filter, error) {
	q := r.URL.Query()
	f := store.Filter{
		Status:      models.Status(strings.TrimSpace(q.Get("status"))),
		ClientName:  strings.TrimSpace(q.Get("clientName")),
		InvoiceType: models.InvoiceType(strings.TrimSpace(q.Get("invoiceType"))),
	}
	parse := func(key string) (*time.Time, error) {
		raw := strings.TrimSpace(q.Get(key))
		if raw == "" {
			return nil, nil
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return nil, models.Invalid(key, err.Error())
		}
		return &d.Time, nil
	}
	var err error
	if f.From, err = parse("fromDate"); err != nil {
		return f, err
	}
	if f.To, err = parse("toDate"); err != nil {
		return f, err
	}
	return f, nil
}

// ListInvoices lists invoices
// @Summary      List invoices
// @Description  Get invoices ordered by serial number, optionally filtered.
// @Tags         invoices
// @Produce      json
// @Param        status       query     string  false  "Exact status"  Enums(Paid, Pending, Partial, Unpaid)
// @Param        clientName   query     string  false  "Case-insensitive substring of the client name"
// @Param        invoiceType  query     string  false  "Exact invoice type"  Enums(Service, Product, License)
// @Param        fromDate     query     string  false  "Earliest invoice date (inclusive)"
// @Param        toDate       query     string  false  "Latest invoice date (inclusive)"
// @Success      200          {object}  Response{data=[]models.Invoice}
// @Failure      400          {object}  Response
// @Router       /invoices [get]
func (a *API) ListInvoices(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	invoices, err := a.svc.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	count := len(invoices)
	writeJSON(w, http.StatusOK, Response{Success: true, Count: &count, Data: invoices})
}

// GetInvoice retrieves a single invoice by ID
// @Summary      Get invoice
// @Description  Get a specific invoice with its payments.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.Invoice}
// @Failure      404  {object}  Response
// @Router       /invoices/{id} [get]
func (a *API) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := a.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", inv)
}

// GetInvoiceByNumber retrieves a single invoice by its invoice number
// @Summary      Get invoice by number
// @Tags         invoices
// @Produce      json
// @Param        invoiceNo  path      string  true  "Invoice number"
// @Success      200        {object}  Response{data=models.Invoice}
// @Failure      404        {object}  Response
// @Router       /invoices/invoice-no/{invoiceNo} [get]
func (a *API) GetInvoiceByNumber(w http.ResponseWriter, r *http.Request) {
	inv, err := a.svc.GetByInvoiceNumber(r.Context(), chi.URLParam(r, "invoiceNo"))
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", inv)
}

// CreateInvoice creates a new invoice
// @Summary      Create invoice
// @Description  Create an invoice. The serial number is assigned by the server; a supplied srNo is ignored.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        invoice  body      models.InvoiceInput  true  "Invoice contents"
// @Success      201      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response
// @Router       /invoices [post]
func (a *API) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if !decodeJSON(w, r, &input) {
		return
	}
	inv, err := a.svc.Create(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Invoice created successfully", inv)
}

// UpdateInvoice updates an existing invoice
// @Summary      Update invoice
// @Description  Replace any subset of the editable fields. Identity, serial number and payments are not editable.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Invoice ID"
// @Param        invoice  body      models.InvoiceUpdate  true  "Fields to change"
// @Success      200      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response
// @Failure      404      {object}  Response
// @Router       /invoices/{id} [put]
func (a *API) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceUpdate
	if !decodeJSON(w, r, &input) {
		return
	}
	inv, err := a.svc.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Invoice updated successfully", inv)
}

// UpdateInvoiceStatus changes only the status of an invoice
// @Summary      Update invoice status
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id      path      string              true  "Invoice ID"
// @Param        status  body      models.StatusInput  true  "New status"
// @Success      200     {object}  Response{data=models.Invoice}
// @Failure      400     {object}  Response
// @Failure      404     {object}  Response
// @Router       /invoices/{id}/status [patch]
func (a *API) UpdateInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	var input models.StatusInput
	if !decodeJSON(w, r, &input) {
		return
	}
	inv, err := a.svc.PatchStatus(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Invoice status updated successfully", inv)
}

// DeleteInvoice deletes an invoice
// @Summary      Delete invoice
// @Description  Delete an invoice and return its serial number to the reuse pool.
// @Tags         invoices
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /invoices/{id} [delete]
func (a *API) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if _, err := a.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Invoice deleted successfully", map[string]any{})
}
