package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/shared"
)

// FeeStructureFilter defines filtering options for fee structure queries
type FeeStructureFilter struct {
	shared.Filter
	SchoolID *uuid.UUID
	YearID   *uuid.UUID
	FeeType  *FeeType
}

// FeeStructureRepository defines the interface for fee structure persistence
type FeeStructureRepository interface {
	// FindByID finds a fee structure by ID
	FindByID(ctx context.Context, id uuid.UUID) (*FeeStructure, error)

	// FindByIDs finds fee structures by a set of IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]FeeStructure, error)

	// FindAll finds fee structures matching the filter, newest first
	FindAll(ctx context.Context, filter FeeStructureFilter) ([]FeeStructure, error)

	// Save creates or updates a fee structure
	Save(ctx context.Context, fs *FeeStructure) error
}

// InvoiceFilter defines filtering options for invoice queries. Status
// filters on the persisted enum only; the derived Overdue classification is
// applied by the callers on top of a Pending/Partial result set.
type InvoiceFilter struct {
	shared.Filter
	SchoolID   *uuid.UUID
	StudentID  *uuid.UUID
	Status     *InvoiceStatus
	IssuedFrom *time.Time
	IssuedTo   *time.Time

	// OpenOnly restricts to Pending/Partial rows, and DueBefore to rows due
	// strictly before the given day. Together they express the derived
	// Overdue filter against the persisted columns.
	OpenOnly  bool
	DueBefore *time.Time
}

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	// FindByID finds an invoice by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll finds invoices matching the filter
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)

	// FindOpen finds every invoice whose persisted status still allows
	// payments (Pending or Partial), optionally scoped to a school.
	// Used by the reporting aggregator, which needs the full set.
	FindOpen(ctx context.Context, schoolID *uuid.UUID) ([]Invoice, error)

	// Save creates or updates an invoice
	Save(ctx context.Context, inv *Invoice) error

	// SaveWithLock updates an invoice guarded by its version column and
	// returns shared.ErrConcurrencyConflict when another writer got there
	// first.
	SaveWithLock(ctx context.Context, inv *Invoice) error

	// NextInvoiceNumber allocates the next sequential display code. The
	// allocation is serialized by the data store; callers must invoke it
	// inside the same transaction that persists the invoice.
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// PaymentFilter defines filtering options for payment queries
type PaymentFilter struct {
	shared.Filter
	SchoolID  *uuid.UUID
	StudentID *uuid.UUID
	InvoiceID *uuid.UUID
	Status    *PaymentStatus
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindAll finds payments matching the filter
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, error)

	// FindByInvoice finds all payments recorded against an invoice
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Payment, error)

	// SumCompletedByInvoice sums the completed payments on one invoice.
	// This is the source of truth for invoice balances and is always
	// recomputed from the rows, never read from a cached column.
	SumCompletedByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error)

	// SumCompletedByInvoiceIDs sums completed payments per invoice for a
	// set of invoices. Invoices without payments are absent from the map.
	SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// FindCompletedByInvoiceIDs loads the completed payments of a set of
	// invoices for report aggregation.
	FindCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]Payment, error)

	// Save creates a payment record
	Save(ctx context.Context, p *Payment) error
}

// ExpenseFilter defines filtering options for expense queries
type ExpenseFilter struct {
	shared.Filter
	SchoolID *uuid.UUID
	Category *string
	From     *time.Time
	To       *time.Time
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// FindByID finds an expense by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Expense, error)

	// FindAll finds expenses matching the filter, most recent first
	FindAll(ctx context.Context, filter ExpenseFilter) ([]Expense, error)

	// Save creates or updates an expense
	Save(ctx context.Context, e *Expense) error
}
