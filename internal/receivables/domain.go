package receivables

import "time"

// InvoiceStatus enumerates invoice lifecycle statuses.
type InvoiceStatus string

const (
	StatusOpen    InvoiceStatus = "OPEN"
	StatusPaid    InvoiceStatus = "PAID"
	StatusOverdue InvoiceStatus = "OVERDUE"
)

// ActionType enumerates collection activity kinds.
type ActionType string

const (
	ActionNotice           ActionType = "NOTICE"
	ActionClaim            ActionType = "CLAIM"
	ActionLitigation       ActionType = "LITIGATION"
	ActionCollectionAgency ActionType = "COLLECTION_AGENCY"
	ActionWriteOff         ActionType = "WRITE_OFF"
)

// ValidActions lists the accepted collection action types.
var ValidActions = []ActionType{
	ActionNotice,
	ActionClaim,
	ActionLitigation,
	ActionCollectionAgency,
	ActionWriteOff,
}

// Invoice model.
type Invoice struct {
	ID          int64         `json:"id"`
	Number      string        `json:"number"`
	CustomerID  int64         `json:"customer_id"`
	IssueDate   time.Time     `json:"issue_date"`
	DueDate     time.Time     `json:"due_date"`
	TotalAmount float64       `json:"total_amount"`
	PaidAmount  float64       `json:"paid_amount"`
	Status      InvoiceStatus `json:"status"`
	ContractRef *string       `json:"contract_ref,omitempty"`
	ServiceRef  *string       `json:"service_ref,omitempty"`
	ManagerRef  *string       `json:"manager_ref,omitempty"`
	PaidDate    *time.Time    `json:"paid_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Outstanding returns the unpaid remainder of the invoice, floored at zero.
func (i Invoice) Outstanding() float64 {
	out := i.TotalAmount - i.PaidAmount
	if out < 0 {
		return 0
	}
	return out
}

// Settled reports whether nothing remains outstanding. Settled invoices are
// excluded from every debt aggregation regardless of stored status.
func (i Invoice) Settled() bool {
	return i.Outstanding() <= 0
}

// CollectionActivity records a collection action taken against a customer.
type CollectionActivity struct {
	ID         int64      `json:"id"`
	CustomerID int64      `json:"customer_id"`
	Action     ActionType `json:"action"`
	OccurredAt time.Time  `json:"occurred_at"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Customer master record.
type Customer struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerDebt is the per-customer debt aggregate consumed by the ABC and
// concentration reports. Lists are produced sorted by TotalDebt descending.
type CustomerDebt struct {
	CustomerID     int64   `json:"customer_id"`
	CustomerName   string  `json:"customer_name"`
	TotalDebt      float64 `json:"total_debt"`
	OverdueDebt    float64 `json:"overdue_debt"`
	InvoiceCount   int     `json:"invoice_count"`
	OldestDebtDays int     `json:"oldest_debt_days"`
}
