package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/shared"
)

// InvoiceStatus is the persisted payment state of an invoice.
// Overdue is deliberately absent: it is a read-time classification derived
// from the due date, never stored (see EffectiveStatus).
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "Pending" // No payment applied yet
	InvoiceStatusPartial InvoiceStatus = "Partial" // 0 < balance < total
	InvoiceStatusPaid    InvoiceStatus = "Paid"    // Balance settled in full

	// InvoiceStatusOverdue is a derived, display-only status: balance > 0
	// and due date in the past. It is returned by EffectiveStatus and
	// accepted as a list filter, but never persisted.
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// IsValid checks if the status is a valid persisted InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsValidFilter checks if the status may be used as a list filter,
// which additionally allows the derived Overdue status.
func (s InvoiceStatus) IsValidFilter() bool {
	return s.IsValid() || s == InvoiceStatusOverdue
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanApplyPayment returns true if payments can be applied in this status
func (s InvoiceStatus) CanApplyPayment() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPartial
}

// Invoice is a billing obligation for one student derived from one fee
// structure. Amount and discount are snapshotted at creation; the fee
// structure may change afterwards without affecting the invoice.
//
// Status is denormalized but must always be recomputable from the payment
// rows: balance = total_amount - sum of completed payments, Paid iff
// balance <= 0, Partial iff 0 < balance < total_amount.
type Invoice struct {
	shared.SchoolAggregateRoot
	InvoiceNumber string          `json:"invoice_number"`
	StudentID     uuid.UUID       `json:"student_id"`
	FeeID         uuid.UUID       `json:"fee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Discount      decimal.Decimal `json:"discount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	IssueDate     time.Time       `json:"issue_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        InvoiceStatus   `json:"status"`
	PaidAt        *time.Time      `json:"paid_at"`
}

// NewInvoice creates a new invoice. total_amount = amount - discount and
// must never be negative; a zero total is issued directly as Paid.
func NewInvoice(
	schoolID uuid.UUID,
	invoiceNumber string,
	studentID uuid.UUID,
	feeID uuid.UUID,
	amount decimal.Decimal,
	discount decimal.Decimal,
	issueDate time.Time,
	dueDate time.Time,
) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if feeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FEE", "Fee structure ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Invoice amount cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(amount) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed invoice amount")
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	total := amount.Sub(discount)

	inv := &Invoice{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		InvoiceNumber:       invoiceNumber,
		StudentID:           studentID,
		FeeID:               feeID,
		Amount:              amount,
		Discount:            discount,
		TotalAmount:         total,
		IssueDate:           issueDate,
		DueDate:             dueDate,
		Status:              InvoiceStatusPending,
	}

	if !total.IsPositive() {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	}

	return inv, nil
}

// ApplyPayment records the effect of a payment on the invoice status.
// balance is the current outstanding balance computed from the payment rows
// before this payment; the caller is responsible for summing them inside
// the same transaction that persists the payment.
func (inv *Invoice) ApplyPayment(amount, balance decimal.Decimal) error {
	if !inv.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to %s invoice", inv.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(balance) {
		return shared.NewDomainError("EXCEEDS_BALANCE",
			fmt.Sprintf("Payment amount %s exceeds outstanding balance %s", amount.StringFixed(2), balance.StringFixed(2)))
	}

	newBalance := balance.Sub(amount)
	if !newBalance.IsPositive() {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	} else {
		inv.Status = InvoiceStatusPartial
	}

	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()

	return nil
}

// Balance returns total_amount minus the given sum of completed payments.
// Negative results are clamped to zero for display; the raw difference is
// only meaningful as an intermediate during overpayment checks.
func (inv *Invoice) Balance(completedPayments decimal.Decimal) decimal.Decimal {
	b := inv.TotalAmount.Sub(completedPayments)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// IsOverdueAt reports whether the invoice counts as overdue on the given
// day: outstanding balance and a due date strictly in the past.
func (inv *Invoice) IsOverdueAt(balance decimal.Decimal, today time.Time) bool {
	if !balance.IsPositive() {
		return false
	}
	return inv.DueDate.Before(truncateToDay(today))
}

// EffectiveStatus returns the status to display for the given balance and
// day. The stored enum is trusted for Pending/Partial/Paid; the Overdue
// transition is always computed here rather than persisted, so an invoice
// due-dated into the past reads as Overdue without waiting for a write.
func (inv *Invoice) EffectiveStatus(balance decimal.Decimal, today time.Time) InvoiceStatus {
	if !balance.IsPositive() {
		return InvoiceStatusPaid
	}
	if inv.IsOverdueAt(balance, today) {
		return InvoiceStatusOverdue
	}
	if balance.LessThan(inv.TotalAmount) {
		return InvoiceStatusPartial
	}
	return InvoiceStatusPending
}

// DaysOverdueAt returns the number of whole days the invoice is past due on
// the given day, never negative.
func (inv *Invoice) DaysOverdueAt(today time.Time) int {
	days := int(truncateToDay(today).Sub(truncateToDay(inv.DueDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
