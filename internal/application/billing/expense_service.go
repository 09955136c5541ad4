package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/telemetry"
)

// ExpenseService records and lists school expenses
type ExpenseService struct {
	expenseRepo billing.ExpenseRepository
	authz       identity.Authorizer
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo billing.ExpenseRepository, authz identity.Authorizer) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo, authz: authz}
}

// CreateExpenseRequest carries the fields of a new expense
type CreateExpenseRequest struct {
	Category    string
	Description string
	Amount      decimal.Decimal
	ExpenseDate time.Time
	ApprovedBy  *uuid.UUID
}

// ListExpensesRequest scopes an expense listing
type ListExpensesRequest struct {
	Category *string
	From     *time.Time
	To       *time.Time
}

// Create records a new expense
func (s *ExpenseService) Create(ctx context.Context, actor identity.Actor, req CreateExpenseRequest) (*billing.Expense, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "create")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionManageExpenses, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	expense, err := billing.NewExpense(actor.SchoolID, req.Category, req.Description, req.Amount, req.ExpenseDate, req.ApprovedBy)
	if err != nil {
		return nil, err
	}
	expense.SetCreatedBy(actor.UserID)

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// List returns expenses matching the filter, most recent first
func (s *ExpenseService) List(ctx context.Context, actor identity.Actor, req ListExpensesRequest) ([]billing.Expense, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "list")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionViewExpenses, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	var schoolID *uuid.UUID
	if actor.SchoolID != uuid.Nil {
		schoolID = &actor.SchoolID
	}
	return s.expenseRepo.FindAll(ctx, billing.ExpenseFilter{
		Filter:   shared.DefaultFilter(),
		SchoolID: schoolID,
		Category: req.Category,
		From:     req.From,
		To:       req.To,
	})
}
