package receivables

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/debtwatch/debtwatch/internal/shared"
)

func validInvoice() Invoice {
	return Invoice{
		CustomerID:  1,
		IssueDate:   time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		DueDate:     time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		TotalAmount: 1000,
		PaidAmount:  200,
	}
}

func TestValidateInvoice(t *testing.T) {
	require.NoError(t, ValidateInvoice(validInvoice()))

	cases := []struct {
		name   string
		mutate func(*Invoice)
	}{
		{"missing customer", func(inv *Invoice) { inv.CustomerID = 0 }},
		{"missing due date", func(inv *Invoice) { inv.DueDate = time.Time{} }},
		{"negative total", func(inv *Invoice) { inv.TotalAmount = -1 }},
		{"negative paid", func(inv *Invoice) { inv.PaidAmount = -1 }},
		{"overpaid", func(inv *Invoice) { inv.PaidAmount = inv.TotalAmount + 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := validInvoice()
			tc.mutate(&inv)
			require.ErrorIs(t, ValidateInvoice(inv), shared.ErrValidation)
		})
	}
}

func TestValidateActivity(t *testing.T) {
	act := CollectionActivity{CustomerID: 1, Action: ActionNotice}
	require.NoError(t, ValidateActivity(act))

	for _, action := range ValidActions {
		act.Action = action
		require.NoError(t, ValidateActivity(act))
	}

	act.Action = "PHONE_CALL"
	require.ErrorIs(t, ValidateActivity(act), shared.ErrValidation)

	act = CollectionActivity{Action: ActionNotice}
	require.ErrorIs(t, ValidateActivity(act), shared.ErrValidation)
}

func TestInvoiceOutstanding(t *testing.T) {
	inv := validInvoice()
	require.Equal(t, 800.0, inv.Outstanding())
	require.False(t, inv.Settled())

	inv.PaidAmount = inv.TotalAmount
	require.Zero(t, inv.Outstanding())
	require.True(t, inv.Settled())

	// Overpaid records floor at zero instead of going negative.
	inv.PaidAmount = inv.TotalAmount + 50
	require.Zero(t, inv.Outstanding())
	require.True(t, inv.Settled())
}
