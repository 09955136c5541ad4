package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/shared"
)

// Expense is an independent record of outgoing spend. It is not linked to
// invoices or payments and exists for reporting symmetry only.
type Expense struct {
	shared.SchoolAggregateRoot
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	ApprovedBy  *uuid.UUID      `json:"approved_by"`
}

// NewExpense creates a new expense record. The expense date defaults to
// today when zero.
func NewExpense(
	schoolID uuid.UUID,
	category string,
	description string,
	amount decimal.Decimal,
	expenseDate time.Time,
	approvedBy *uuid.UUID,
) (*Expense, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Expense category cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Expense amount must be positive")
	}
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}

	return &Expense{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		Category:            category,
		Description:         description,
		Amount:              amount,
		ExpenseDate:         expenseDate,
		ApprovedBy:          approvedBy,
	}, nil
}
