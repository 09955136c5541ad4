package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/telemetry"
)

// MaxPageSize caps list pagination.
const MaxPageSize = 100

// InvoiceService issues invoices and serves role-scoped invoice reads
type InvoiceService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	feeRepo     billing.FeeStructureRepository
	studentRepo enrollment.StudentRepository
	authz       identity.Authorizer
	tx          shared.TransactionManager
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	feeRepo billing.FeeStructureRepository,
	studentRepo enrollment.StudentRepository,
	authz identity.Authorizer,
	tx shared.TransactionManager,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		authz:       authz,
		tx:          tx,
	}
}

// CreateInvoiceRequest carries the fields for a new invoice
type CreateInvoiceRequest struct {
	StudentID uuid.UUID
	FeeID     uuid.UUID
	Amount    decimal.Decimal
	Discount  decimal.Decimal
	DueDate   time.Time
	IssueDate *time.Time
}

// ListInvoicesRequest carries the invoice list filters
type ListInvoicesRequest struct {
	StudentID *uuid.UUID
	Status    *billing.InvoiceStatus
	Page      int
	PerPage   int
}

// InvoiceView is an invoice annotated with its recomputed balance and the
// read-time status (including the derived Overdue classification).
type InvoiceView struct {
	Invoice     billing.Invoice
	Balance     decimal.Decimal
	PaidAmount  decimal.Decimal
	Status      billing.InvoiceStatus
	DaysOverdue int
}

// InvoiceDetail embeds the invoice's student, fee structure and payments
type InvoiceDetail struct {
	InvoiceView
	Student      *enrollment.Student
	FeeStructure *billing.FeeStructure
	Payments     []billing.Payment
}

// InvoiceList is a page of invoice views
type InvoiceList struct {
	Invoices   []InvoiceView
	Pagination shared.Paginated[InvoiceView]
}

// Create issues a new invoice against an existing student and fee
// structure. The display code is allocated and the row persisted inside one
// transaction so concurrent creations never reuse a number.
func (s *InvoiceService) Create(ctx context.Context, actor identity.Actor, req CreateInvoiceRequest) (*InvoiceView, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionCreateInvoice, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	student, err := s.studentRepo.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Student not found")
		}
		return nil, err
	}

	fee, err := s.feeRepo.FindByID(ctx, req.FeeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Fee structure not found")
		}
		return nil, err
	}

	issueDate := time.Now()
	if req.IssueDate != nil {
		issueDate = *req.IssueDate
	}

	var invoice *billing.Invoice
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		number, err := s.invoiceRepo.NextInvoiceNumber(ctx)
		if err != nil {
			return err
		}

		invoice, err = billing.NewInvoice(
			student.SchoolID,
			number,
			student.ID,
			fee.ID,
			req.Amount,
			req.Discount,
			issueDate,
			req.DueDate,
		)
		if err != nil {
			return err
		}
		invoice.SetCreatedBy(actor.UserID)

		return s.invoiceRepo.Save(ctx, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	view := s.view(*invoice, decimal.Zero, time.Now())
	return &view, nil
}

// Get returns a single invoice with its student, fee structure, payments
// and recomputed balance. Callers must own the invoice or hold an
// administrative role.
func (s *InvoiceService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*InvoiceDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "get")
	defer span.End()

	actor, err := resolveActor(ctx, s.studentRepo, actor)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Invoice not found")
		}
		return nil, err
	}

	if !s.authz.Authorize(actor, identity.ActionViewInvoice, identity.OwnedBy(invoice.StudentID)) {
		return nil, shared.ErrForbidden
	}

	paid, err := s.paymentRepo.SumCompletedByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByInvoice(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	detail := &InvoiceDetail{
		InvoiceView: s.view(*invoice, paid, time.Now()),
		Payments:    payments,
	}
	if student, err := s.studentRepo.FindByID(ctx, invoice.StudentID); err == nil {
		detail.Student = student
	}
	if fee, err := s.feeRepo.FindByID(ctx, invoice.FeeID); err == nil {
		detail.FeeStructure = fee
	}
	return detail, nil
}

// List returns a role-scoped page of invoices. Student callers are always
// restricted to their own invoices regardless of the requested filter;
// parents are denied outright.
func (s *InvoiceService) List(ctx context.Context, actor identity.Actor, req ListInvoicesRequest) (*InvoiceList, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "list")
	defer span.End()

	actor, err := resolveActor(ctx, s.studentRepo, actor)
	if err != nil {
		return nil, err
	}

	resource := identity.Shared()
	if actor.Role == identity.RoleStudent {
		if actor.StudentID == nil {
			return nil, shared.ErrForbidden
		}
		resource = identity.OwnedBy(*actor.StudentID)
		req.StudentID = actor.StudentID
	}
	if !s.authz.Authorize(actor, identity.ActionViewInvoice, resource) {
		return nil, shared.ErrForbidden
	}

	if req.Page < 1 {
		req.Page = 1
	}
	if req.PerPage < 1 {
		req.PerPage = 20
	}
	if req.PerPage > MaxPageSize {
		req.PerPage = MaxPageSize
	}

	now := time.Now()
	filter := billing.InvoiceFilter{
		Filter:    shared.Filter{Page: req.Page, PageSize: req.PerPage, OrderBy: "created_at", OrderDir: "desc"},
		StudentID: req.StudentID,
	}
	if req.Status != nil {
		if *req.Status == billing.InvoiceStatusOverdue {
			// Overdue is never stored; express it on the persisted columns.
			today := truncateToDay(now)
			filter.OpenOnly = true
			filter.DueBefore = &today
		} else {
			filter.Status = req.Status
		}
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.invoiceRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := s.viewAll(ctx, invoices, now)
	if err != nil {
		return nil, err
	}

	return &InvoiceList{
		Invoices:   views,
		Pagination: shared.NewPaginated(views, total, req.Page, req.PerPage),
	}, nil
}

// Balance recomputes the outstanding balance of one invoice from its
// completed payment rows.
func (s *InvoiceService) Balance(ctx context.Context, invoice *billing.Invoice) (decimal.Decimal, error) {
	paid, err := s.paymentRepo.SumCompletedByInvoice(ctx, invoice.ID)
	if err != nil {
		return decimal.Zero, err
	}
	return invoice.Balance(paid), nil
}

func (s *InvoiceService) view(inv billing.Invoice, paid decimal.Decimal, now time.Time) InvoiceView {
	balance := inv.Balance(paid)
	status := inv.EffectiveStatus(balance, now)
	days := 0
	if status == billing.InvoiceStatusOverdue {
		days = inv.DaysOverdueAt(now)
	}
	return InvoiceView{
		Invoice:     inv,
		Balance:     balance,
		PaidAmount:  paid,
		Status:      status,
		DaysOverdue: days,
	}
}

func (s *InvoiceService) viewAll(ctx context.Context, invoices []billing.Invoice, now time.Time) ([]InvoiceView, error) {
	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	sums, err := s.paymentRepo.SumCompletedByInvoiceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]InvoiceView, len(invoices))
	for i := range invoices {
		views[i] = s.view(invoices[i], sums[invoices[i].ID], now)
	}
	return views, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
