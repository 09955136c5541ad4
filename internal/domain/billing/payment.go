package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/shared"
)

// PaymentStatus represents the settlement state of a payment.
// Only Completed payments count toward an invoice balance.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusFailed    PaymentStatus = "Failed"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// CountsTowardBalance reports whether the payment reduces the invoice balance
func (s PaymentStatus) CountsTowardBalance() bool {
	return s == PaymentStatusCompleted
}

// Payment records money received against exactly one invoice. The student
// and school ids are denormalized from the invoice at creation. Payments are
// immutable once recorded; corrections would be modeled as new adjustment
// rows, which is out of scope for now.
type Payment struct {
	shared.SchoolAggregateRoot
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	StudentID      uuid.UUID       `json:"student_id"`
	PaymentMethod  string          `json:"payment_method"`
	Amount         decimal.Decimal `json:"amount"`
	TransactionID  string          `json:"transaction_id"`
	Status         PaymentStatus   `json:"status"`
	ProcessedBy    *uuid.UUID      `json:"processed_by"`
	PaymentDate    time.Time       `json:"payment_date"`
	Notes          string          `json:"notes"`
	GatewayPayload string          `json:"gateway_payload,omitempty"`
}

// NewPayment creates a new payment record. Status defaults to Completed
// when empty; amount must be strictly positive.
func NewPayment(
	schoolID uuid.UUID,
	invoiceID uuid.UUID,
	studentID uuid.UUID,
	paymentMethod string,
	amount decimal.Decimal,
	transactionID string,
	status PaymentStatus,
	processedBy *uuid.UUID,
) (*Payment, error) {
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INVOICE", "Invoice ID cannot be empty")
	}
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if status == "" {
		status = PaymentStatusCompleted
	}
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Payment status is not valid")
	}

	p := &Payment{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		InvoiceID:           invoiceID,
		StudentID:           studentID,
		PaymentMethod:       paymentMethod,
		Amount:              amount,
		TransactionID:       transactionID,
		Status:              status,
		ProcessedBy:         processedBy,
		PaymentDate:         time.Now(),
	}

	return p, nil
}
