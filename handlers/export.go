package handlers

import (
	"bufio"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/satheeshds/invoicing/models"
)

const csvFlushEvery = 200

var exportHeader = []string{
	"Sr No", "Client Name", "Item Description", "Invoice No", "Invoice Date", "Invoice Amount",
	"Currency", "Invoice Type", "Transfer Amount", "Balance", "Bank Name", "Bank Ref Number",
	"Bank Transfer Date", "Status", "Remarks", "Material Received", "Receipt Date",
	"Courier Name", "Billing Customer", "Payments",
}

func exportRow(inv *models.Invoice) []string {
	receipt := ""
	if inv.ReceiptDate != nil && !inv.ReceiptDate.IsZero() {
		receipt = inv.ReceiptDate.Format(models.DateLayout)
	}
	return []string{
		strconv.Itoa(inv.SerialNumber),
		inv.ClientName,
		inv.ItemDescription,
		inv.InvoiceNumber,
		inv.InvoiceDate.Format(models.DateLayout),
		inv.InvoiceAmount.StringFixed(2),
		inv.Currency,
		string(inv.InvoiceType),
		inv.TransferAmount.StringFixed(2),
		inv.Balance().StringFixed(2),
		inv.BankName,
		inv.BankReferenceNumber,
		inv.BankTransferDate,
		string(inv.Status),
		inv.Remarks,
		inv.MaterialReceived,
		receipt,
		inv.CourierName,
		inv.BillingCustomer,
		strconv.Itoa(len(inv.Payments)),
	}
}

// ExportInvoices streams the filtered invoice list as CSV
// @Summary      Export invoices
// @Description  Same filters as the list endpoint, rendered as CSV in grid column order.
// @Tags         invoices
// @Produce      text/csv
// @Param        status       query     string  false  "Exact status"
// @Param        clientName   query     string  false  "Case-insensitive substring of the client name"
// @Param        invoiceType  query     string  false  "Exact invoice type"
// @Param        fromDate     query     string  false  "Earliest invoice date (inclusive)"
// @Param        toDate       query     string  false  "Latest invoice date (inclusive)"
// @Success      200          {string}  string  "CSV document"
// @Failure      400          {object}  Response
// @Router       /invoices/export [get]
func (a *API) ExportInvoices(w http.ResponseWriter, r *http.Request) {
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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.csv"`)
	w.WriteHeader(http.StatusOK)

	buf := bufio.NewWriter(w)
	out := csv.NewWriter(buf)
	write := func(row []string) bool {
		if err := out.Write(row); err != nil {
			a.logger.Error("csv export failed", "error", err)
			return false
		}
		return true
	}
	if !write(exportHeader) {
		return
	}
	for i := range invoices {
		if !write(exportRow(&invoices[i])) {
			return
		}
		if (i+1)%csvFlushEvery == 0 {
			out.Flush()
		}
	}
	out.Flush()
	if err := out.Error(); err != nil {
		a.logger.Error("csv export failed", "error", err)
		return
	}
	if err := buf.Flush(); err != nil {
		a.logger.Error("csv export failed", "error", err)
	}
}
