package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/telemetry"
)

// Concurrent writers to the same invoice trip the version check; the whole
// transaction is retried with a freshly read balance.
const paymentRetries = 3

// PaymentService records payments and keeps invoice statuses consistent
// with the payment rows.
type PaymentService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	studentRepo enrollment.StudentRepository
	authz       identity.Authorizer
	tx          shared.TransactionManager
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	studentRepo enrollment.StudentRepository,
	authz identity.Authorizer,
	tx shared.TransactionManager,
) *PaymentService {
	return &PaymentService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		studentRepo: studentRepo,
		authz:       authz,
		tx:          tx,
	}
}

// CreatePaymentRequest carries the fields for a new payment
type CreatePaymentRequest struct {
	InvoiceID     uuid.UUID
	PaymentMethod string
	Amount        decimal.Decimal
	TransactionID string
	Status        billing.PaymentStatus
	Notes         string
}

// ListPaymentsRequest carries the payment list filters
type ListPaymentsRequest struct {
	StudentID *uuid.UUID
	InvoiceID *uuid.UUID
	Status    *billing.PaymentStatus
}

// Create records a payment against an invoice. The overpayment check, the
// payment insert and the invoice status update run in one transaction
// guarded by the invoice version, so two concurrent near-ceiling payments
// can never both commit: the loser retries, re-reads the reduced balance
// and fails the ceiling check.
func (s *PaymentService) Create(ctx context.Context, actor identity.Actor, req CreatePaymentRequest) (*billing.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		"invoice_id", req.InvoiceID.String(),
		"amount", req.Amount.String(),
	)

	actor, err := resolveActor(ctx, s.studentRepo, actor)
	if err != nil {
		return nil, err
	}

	var payment *billing.Payment
	for attempt := 0; attempt < paymentRetries; attempt++ {
		err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
			invoice, err := s.invoiceRepo.FindByID(ctx, req.InvoiceID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("NOT_FOUND", "Invoice not found")
				}
				return err
			}

			if !s.authz.Authorize(actor, identity.ActionRecordPayment, identity.OwnedBy(invoice.StudentID)) {
				return shared.ErrForbidden
			}

			paid, err := s.paymentRepo.SumCompletedByInvoice(ctx, invoice.ID)
			if err != nil {
				return err
			}
			balance := invoice.Balance(paid)

			processedBy := actor.UserID
			p, err := billing.NewPayment(
				invoice.SchoolID,
				invoice.ID,
				invoice.StudentID,
				req.PaymentMethod,
				req.Amount,
				req.TransactionID,
				req.Status,
				&processedBy,
			)
			if err != nil {
				return err
			}
			p.Notes = req.Notes

			if p.Status.CountsTowardBalance() {
				if err := invoice.ApplyPayment(req.Amount, balance); err != nil {
					return err
				}
				if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
					return err
				}
			} else if req.Amount.GreaterThan(balance) {
				// Pending/failed payments never move the status, but the
				// ceiling still applies.
				return shared.NewDomainError("EXCEEDS_BALANCE", "Payment amount exceeds outstanding balance")
			}

			if err := s.paymentRepo.Save(ctx, p); err != nil {
				return err
			}
			payment = p
			return nil
		})

		if errors.Is(err, shared.ErrConcurrencyConflict) {
			continue
		}
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		return payment, nil
	}

	telemetry.RecordError(span, err)
	return nil, err
}

// Get returns a single payment. Callers must own the payment's student or
// hold an administrative role.
func (s *PaymentService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*billing.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "get")
	defer span.End()

	actor, err := resolveActor(ctx, s.studentRepo, actor)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Payment not found")
		}
		return nil, err
	}

	if !s.authz.Authorize(actor, identity.ActionViewPayment, identity.OwnedBy(payment.StudentID)) {
		return nil, shared.ErrForbidden
	}
	return payment, nil
}

// List returns role-scoped payments. Student callers see only their own
// rows regardless of the requested filter; parents are denied.
func (s *PaymentService) List(ctx context.Context, actor identity.Actor, req ListPaymentsRequest) ([]billing.Payment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "list")
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
	if !s.authz.Authorize(actor, identity.ActionViewPayment, resource) {
		return nil, shared.ErrForbidden
	}

	return s.paymentRepo.FindAll(ctx, billing.PaymentFilter{
		StudentID: req.StudentID,
		InvoiceID: req.InvoiceID,
		Status:    req.Status,
	})
}
