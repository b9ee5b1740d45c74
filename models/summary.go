package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// StatusGroup aggregates the invoices sharing one status.
type StatusGroup struct {
	Status           Status          `json:"_id"`
	Count            int             `json:"count"`
	TotalAmount      decimal.Decimal `json:"totalAmount"`
	TotalTransferred decimal.Decimal `json:"totalTransferred"`
}

// Summary holds invoice statistics grouped by status plus grand totals.
type Summary struct {
	TotalInvoices       int             `json:"totalInvoices"`
	TotalInvoiceAmount  decimal.Decimal `json:"totalInvoiceAmount"`
	TotalTransferAmount decimal.Decimal `json:"totalTransferAmount"`
	StatusBreakdown     []StatusGroup   `json:"statusBreakdown"`
}

// NewSummary derives grand totals from per-status groups and orders the
// groups by status name.
func NewSummary(groups []StatusGroup) Summary {
	s := Summary{
		TotalInvoiceAmount:  decimal.Zero,
		TotalTransferAmount: decimal.Zero,
		StatusBreakdown:     make([]StatusGroup, 0, len(groups)),
	}
	for _, g := range groups {
		s.TotalInvoices += g.Count
		s.TotalInvoiceAmount = s.TotalInvoiceAmount.Add(g.TotalAmount)
		s.TotalTransferAmount = s.TotalTransferAmount.Add(g.TotalTransferred)
		s.StatusBreakdown = append(s.StatusBreakdown, g)
	}
	sort.Slice(s.StatusBreakdown, func(i, j int) bool {
		return s.StatusBreakdown[i].Status < s.StatusBreakdown[j].Status
	})
	return s
}

// Summarize groups invoices by status in memory.
func Summarize(invoices []Invoice) Summary {
	byStatus := map[Status]*StatusGroup{}
	var order []Status
	for _, inv := range invoices {
		g, ok := byStatus[inv.Status]
		if !ok {
			g = &StatusGroup{Status: inv.Status, TotalAmount: decimal.Zero, TotalTransferred: decimal.Zero}
			byStatus[inv.Status] = g
			order = append(order, inv.Status)
		}
		g.Count++
		g.TotalAmount = g.TotalAmount.Add(inv.InvoiceAmount)
		g.TotalTransferred = g.TotalTransferred.Add(inv.TransferAmount)
	}
	groups := make([]StatusGroup, 0, len(order))
	for _, st := range order {
		groups = append(groups, *byStatus[st])
	}
	return NewSummary(groups)
}
