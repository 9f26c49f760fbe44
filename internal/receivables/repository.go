package receivables

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/debtwatch/debtwatch/internal/shared"
)

// RepositoryPort defines data access methods used by the service layer.
type RepositoryPort interface {
	CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	ApplyPayment(ctx context.Context, invoiceID int64, amount float64, paidAt time.Time) (*Invoice, error)
	CreateActivity(ctx context.Context, act CollectionActivity) (*CollectionActivity, error)
}

// Repository provides PostgreSQL backed persistence for receivables.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const uniqueViolation = "23505"

const invoiceColumns = `id, number, customer_id, issue_date, due_date,
	total_amount, paid_amount, status, contract_ref, service_ref, manager_ref,
	paid_date, created_at, updated_at`

// CreateInvoice inserts a new invoice.
func (r *Repository) CreateInvoice(ctx context.Context, inv Invoice) (*Invoice, error) {
	query := `
		INSERT INTO invoices (
			number, customer_id, issue_date, due_date,
			total_amount, paid_amount, status,
			contract_ref, service_ref, manager_ref, paid_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		inv.Number,
		inv.CustomerID,
		inv.IssueDate,
		inv.DueDate,
		inv.TotalAmount,
		inv.PaidAmount,
		inv.Status,
		inv.ContractRef,
		inv.ServiceRef,
		inv.ManagerRef,
		inv.PaidDate,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, fmt.Errorf("%w: invoice number %s", shared.ErrDuplicate, inv.Number)
	}
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return &inv, nil
}

// GetInvoice retrieves an invoice by ID.
func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %d", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// ListInvoices returns invoices matching the request plus the total count.
func (r *Repository) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	page := shared.NewPagination(req.Page, req.PerPage, 0)

	where := " WHERE 1=1"
	args := []any{}
	argNum := 1
	if req.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(req.Status))
		argNum++
	}
	if req.CustomerID != 0 {
		where += fmt.Sprintf(" AND customer_id = $%d", argNum)
		args = append(args, req.CustomerID)
		argNum++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM invoices"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(" ORDER BY due_date ASC, id ASC LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, page.PerPage, page.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, total, rows.Err()
}

// ApplyPayment records a payment against an invoice and updates its status.
func (r *Repository) ApplyPayment(ctx context.Context, invoiceID int64, amount float64, paidAt time.Time) (*Invoice, error) {
	query := `
		UPDATE invoices SET
			paid_amount = paid_amount + $2,
			paid_date = $3,
			status = CASE WHEN paid_amount + $2 >= total_amount THEN 'PAID' ELSE status END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + invoiceColumns

	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, invoiceID, amount, paidAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %d", shared.ErrNotFound, invoiceID)
	}
	if err != nil {
		return nil, fmt.Errorf("apply payment: %w", err)
	}
	return inv, nil
}

// CreateActivity inserts a collection activity record.
func (r *Repository) CreateActivity(ctx context.Context, act CollectionActivity) (*CollectionActivity, error) {
	query := `
		INSERT INTO collection_activities (customer_id, action, occurred_at, note, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, act.CustomerID, act.Action, act.OccurredAt, act.Note).
		Scan(&act.ID, &act.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return &act, nil
}

// InvoicesByCustomer returns every invoice of one customer, paid included.
func (r *Repository) InvoicesByCustomer(ctx context.Context, customerID int64) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE customer_id = $1 ORDER BY due_date ASC, id ASC`
	return r.queryInvoices(ctx, query, customerID)
}

// PortfolioInvoices returns every invoice in the portfolio.
func (r *Repository) PortfolioInvoices(ctx context.Context) ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY due_date ASC, id ASC`
	return r.queryInvoices(ctx, query)
}

// ActivitiesByCustomer returns collection activities for one customer.
func (r *Repository) ActivitiesByCustomer(ctx context.Context, customerID int64) ([]CollectionActivity, error) {
	query := `
		SELECT id, customer_id, action, occurred_at, COALESCE(note, ''), created_at
		FROM collection_activities
		WHERE customer_id = $1
		ORDER BY occurred_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []CollectionActivity
	for rows.Next() {
		var act CollectionActivity
		if err := rows.Scan(&act.ID, &act.CustomerID, &act.Action, &act.OccurredAt, &act.Note, &act.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, act)
	}
	return activities, rows.Err()
}

// CustomerIDs lists customers that have at least one invoice.
func (r *Repository) CustomerIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT customer_id FROM invoices ORDER BY customer_id`)
	if err != nil {
		return nil, fmt.Errorf("list customer ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CustomerDebts aggregates outstanding debt per customer as of a date,
// sorted by total debt descending. Settled invoices never contribute.
func (r *Repository) CustomerDebts(ctx context.Context, asOf time.Time) ([]CustomerDebt, error) {
	query := `
		SELECT c.id, c.name,
			COALESCE(SUM(GREATEST(i.total_amount - i.paid_amount, 0)), 0) AS total_debt,
			COALESCE(SUM(CASE WHEN i.due_date::date < $1::date
				THEN GREATEST(i.total_amount - i.paid_amount, 0) ELSE 0 END), 0) AS overdue_debt,
			COUNT(i.id) AS invoice_count,
			COALESCE(MAX(GREATEST($1::date - i.due_date::date, 0)), 0) AS oldest_debt_days
		FROM customers c
		JOIN invoices i ON i.customer_id = c.id
		WHERE i.total_amount - i.paid_amount > 0
		GROUP BY c.id, c.name
		ORDER BY total_debt DESC, c.id ASC`

	rows, err := r.pool.Query(ctx, query, dateParam(asOf))
	if err != nil {
		return nil, fmt.Errorf("customer debts: %w", err)
	}
	defer rows.Close()

	var debts []CustomerDebt
	for rows.Next() {
		var d CustomerDebt
		if err := rows.Scan(&d.CustomerID, &d.CustomerName, &d.TotalDebt, &d.OverdueDebt, &d.InvoiceCount, &d.OldestDebtDays); err != nil {
			return nil, fmt.Errorf("scan customer debt: %w", err)
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

// OutstandingAt returns the portfolio outstanding snapshot at a date.
// Invoices settled on or before the date are excluded; per-invoice
// outstanding is floored at zero before summation.
func (r *Repository) OutstandingAt(ctx context.Context, at time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(GREATEST(total_amount - paid_amount, 0)), 0)
		FROM invoices
		WHERE issue_date::date <= $1::date
		  AND (paid_date IS NULL OR paid_date::date > $1::date)`

	var total float64
	if err := r.pool.QueryRow(ctx, query, dateParam(at)).Scan(&total); err != nil {
		return 0, fmt.Errorf("outstanding at: %w", err)
	}
	return total, nil
}

// RevenueBetween sums invoice totals issued within the period, the revenue
// proxy used by the turnover report.
func (r *Repository) RevenueBetween(ctx context.Context, from, to time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(total_amount), 0)
		FROM invoices
		WHERE issue_date::date >= $1::date AND issue_date::date <= $2::date`

	var total float64
	if err := r.pool.QueryRow(ctx, query, dateParam(from), dateParam(to)).Scan(&total); err != nil {
		return 0, fmt.Errorf("revenue between: %w", err)
	}
	return total, nil
}

func (r *Repository) queryInvoices(ctx context.Context, query string, args ...any) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	var paidDate pgtype.Timestamptz
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.CustomerID, &inv.IssueDate, &inv.DueDate,
		&inv.TotalAmount, &inv.PaidAmount, &inv.Status,
		&inv.ContractRef, &inv.ServiceRef, &inv.ManagerRef,
		&paidDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paidDate.Valid {
		inv.PaidDate = &paidDate.Time
	}
	return &inv, nil
}

func dateParam(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}
