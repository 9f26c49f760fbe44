package receivables

import (
	"fmt"

	"github.com/debtwatch/debtwatch/internal/shared"
)

// ValidateInvoice rejects malformed invoice records before they reach any
// aggregation. A record that would produce a negative outstanding amount
// fails fast here instead of being silently floored downstream.
func ValidateInvoice(inv Invoice) error {
	if inv.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id required", shared.ErrValidation)
	}
	if inv.DueDate.IsZero() {
		return fmt.Errorf("%w: due date required", shared.ErrValidation)
	}
	if inv.TotalAmount < 0 {
		return fmt.Errorf("%w: total amount must not be negative", shared.ErrValidation)
	}
	if inv.PaidAmount < 0 {
		return fmt.Errorf("%w: paid amount must not be negative", shared.ErrValidation)
	}
	if inv.PaidAmount > inv.TotalAmount {
		return fmt.Errorf("%w: paid amount exceeds total amount", shared.ErrValidation)
	}
	return nil
}

// ValidateActivity checks a collection activity record.
func ValidateActivity(act CollectionActivity) error {
	if act.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id required", shared.ErrValidation)
	}
	for _, a := range ValidActions {
		if act.Action == a {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown action type %q", shared.ErrValidation, act.Action)
}
