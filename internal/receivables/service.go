package receivables

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/debtwatch/debtwatch/internal/shared"
)

// CacheInvalidator is notified after every write so cached analytics
// reports are recomputed from fresh records.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}

// Service handles receivables business logic.
type Service struct {
	repo  RepositoryPort
	cache CacheInvalidator
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, cache CacheInvalidator) *Service {
	return &Service{repo: repo, cache: cache}
}

// CreateInvoice validates and stores a new invoice record.
func (s *Service) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (*Invoice, error) {
	inv := Invoice{
		Number:      req.Number,
		CustomerID:  req.CustomerID,
		IssueDate:   req.IssueDate,
		DueDate:     req.DueDate,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Status:      StatusOpen,
		ContractRef: req.ContractRef,
		ServiceRef:  req.ServiceRef,
		ManagerRef:  req.ManagerRef,
		PaidDate:    req.PaidDate,
	}
	if err := ValidateInvoice(inv); err != nil {
		return nil, err
	}
	if inv.Number == "" {
		inv.Number = generateInvoiceNumber()
	}
	if inv.Settled() {
		inv.Status = StatusPaid
	}

	created, err := s.repo.CreateInvoice(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	s.bump(ctx)
	return created, nil
}

// RegisterPayment applies a payment to an open invoice.
func (s *Service) RegisterPayment(ctx context.Context, invoiceID int64, req RegisterPaymentRequest) (*Invoice, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", shared.ErrValidation)
	}
	inv, err := s.repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if req.Amount > inv.Outstanding() {
		return nil, fmt.Errorf("%w: payment exceeds outstanding amount", shared.ErrValidation)
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	updated, err := s.repo.ApplyPayment(ctx, invoiceID, req.Amount, paidAt)
	if err != nil {
		return nil, fmt.Errorf("register payment: %w", err)
	}
	s.bump(ctx)
	return updated, nil
}

// LogActivity records a collection action against a customer.
func (s *Service) LogActivity(ctx context.Context, req LogActivityRequest) (*CollectionActivity, error) {
	act := CollectionActivity{
		CustomerID: req.CustomerID,
		Action:     ActionType(strings.ToUpper(req.Action)),
		OccurredAt: req.OccurredAt,
		Note:       req.Note,
	}
	if err := ValidateActivity(act); err != nil {
		return nil, err
	}
	if act.OccurredAt.IsZero() {
		act.OccurredAt = time.Now()
	}

	created, err := s.repo.CreateActivity(ctx, act)
	if err != nil {
		return nil, fmt.Errorf("log activity: %w", err)
	}
	s.bump(ctx)
	return created, nil
}

// GetInvoice returns a single invoice.
func (s *Service) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

// ListInvoices returns invoices with pagination metadata.
func (s *Service) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, shared.Pagination, error) {
	invoices, total, err := s.repo.ListInvoices(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, shared.NewPagination(req.Page, req.PerPage, total), nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Bump(ctx)
}

func generateInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}
