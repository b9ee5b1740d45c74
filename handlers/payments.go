package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/satheeshds/invoicing/models"
)

// AddPayment records a payment against an invoice
// @Summary      Add payment
// @Description  Append a payment and re-derive the transfer amount and status.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Invoice ID"
// @Param        payment  body      models.PaymentInput  true  "Payment"
// @Success      201      {object}  Response{data=models.Invoice}
// @Failure      400      {object}  Response
// @Failure      404      {object}  Response
// @Router       /invoices/{id}/payments [post]
func (a *API) AddPayment(w http.ResponseWriter, r *http.Request) {
	var input models.PaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}
	inv, err := a.svc.AddPayment(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusCreated, "Payment added successfully", inv)
}

// ListPayments returns the payment history of an invoice
// @Summary      Payment history
// @Description  Payments in recording order with running totals and the outstanding balance.
// @Tags         payments
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  Response{data=models.PaymentHistory}
// @Failure      404  {object}  Response
// @Router       /invoices/{id}/payments [get]
func (a *API) ListPayments(w http.ResponseWriter, r *http.Request) {
	history, err := a.svc.Payments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "", history)
}

// DeletePayment removes a payment from an invoice
// @Summary      Delete payment
// @Description  Remove a payment by id. An unknown payment id leaves the invoice unchanged.
// @Tags         payments
// @Produce      json
// @Param        id         path      string  true  "Invoice ID"
// @Param        paymentId  path      string  true  "Payment ID"
// @Success      200        {object}  Response{data=models.Invoice}
// @Failure      404        {object}  Response
// @Router       /invoices/{id}/payments/{paymentId} [delete]
func (a *API) DeletePayment(w http.ResponseWriter, r *http.Request) {
	inv, err := a.svc.RemovePayment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "paymentId"))
	if err != nil {
		writeServiceError(w, r, a.logger, err)
		return
	}
	writeData(w, http.StatusOK, "Payment deleted successfully", inv)
}
