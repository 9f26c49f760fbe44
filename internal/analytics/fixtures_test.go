package analytics

import (
	"fmt"
	"time"

	"github.com/debtwatch/debtwatch/internal/receivables"
)

var invoiceSeq int64

// openInvoice builds an unsettled invoice fixture.
func openInvoice(due time.Time, total, paid float64) receivables.Invoice {
	invoiceSeq++
	return receivables.Invoice{
		ID:          invoiceSeq,
		Number:      fmt.Sprintf("INV-%04d", invoiceSeq),
		CustomerID:  1,
		IssueDate:   due.AddDate(0, 0, -14),
		DueDate:     due,
		TotalAmount: total,
		PaidAmount:  paid,
		Status:      receivables.StatusOpen,
	}
}

// paidInvoice builds a fully settled invoice fixture with a payment date.
func paidInvoice(due, paidAt time.Time, total float64) receivables.Invoice {
	inv := openInvoice(due, total, total)
	inv.Status = receivables.StatusPaid
	inv.PaidDate = &paidAt
	return inv
}

func activity(action receivables.ActionType, at time.Time) receivables.CollectionActivity {
	return receivables.CollectionActivity{
		ID:         1,
		CustomerID: 1,
		Action:     action,
		OccurredAt: at,
	}
}
