package receivables

import "time"

type CreateInvoiceRequest struct {
	Number      string     `json:"number,omitempty" validate:"omitempty,max=50"`
	CustomerID  int64      `json:"customer_id" validate:"required,gt=0"`
	IssueDate   time.Time  `json:"issue_date" validate:"required"`
	DueDate     time.Time  `json:"due_date" validate:"required"`
	TotalAmount float64    `json:"total_amount" validate:"gte=0"`
	PaidAmount  float64    `json:"paid_amount" validate:"gte=0"`
	ContractRef *string    `json:"contract_ref,omitempty" validate:"omitempty,max=100"`
	ServiceRef  *string    `json:"service_ref,omitempty" validate:"omitempty,max=100"`
	ManagerRef  *string    `json:"manager_ref,omitempty" validate:"omitempty,max=100"`
	PaidDate    *time.Time `json:"paid_date,omitempty"`
}

type RegisterPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	// PaidAt defaults to the current time when omitted.
	PaidAt time.Time `json:"paid_at,omitempty"`
}

type LogActivityRequest struct {
	CustomerID int64  `json:"customer_id" validate:"required,gt=0"`
	Action     string `json:"action" validate:"required"`
	// OccurredAt defaults to the current time when omitted.
	OccurredAt time.Time `json:"occurred_at,omitempty"`
	Note       string    `json:"note,omitempty" validate:"max=1000"`
}

type ListInvoicesRequest struct {
	Status     InvoiceStatus
	CustomerID int64
	Page       int
	PerPage    int
}
