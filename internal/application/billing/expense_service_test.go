package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
)

func TestExpenseService_Create_DefaultsDateToToday(t *testing.T) {
	ctx := context.Background()
	expenseRepo := new(MockExpenseRepository)
	service := NewExpenseService(expenseRepo, identity.NewRoleAuthorizer())

	expenseRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.Expense")).Return(nil)

	expense, err := service.Create(ctx, adminActor(uuid.New()), CreateExpenseRequest{
		Category:    "maintenance",
		Description: "Roof repair",
		Amount:      decimal.NewFromInt(1200),
	})

	assert.NoError(t, err)
	assert.NotNil(t, expense)
	assert.WithinDuration(t, time.Now(), expense.ExpenseDate, time.Minute)
	expenseRepo.AssertExpectations(t)
}

func TestExpenseService_Create_NonAdminDenied(t *testing.T) {
	ctx := context.Background()
	expenseRepo := new(MockExpenseRepository)
	service := NewExpenseService(expenseRepo, identity.NewRoleAuthorizer())

	for _, role := range []identity.Role{identity.RoleTeacher, identity.RoleStudent, identity.RoleParent} {
		actor := identity.Actor{UserID: uuid.New(), SchoolID: uuid.New(), Role: role}
		expense, err := service.Create(ctx, actor, CreateExpenseRequest{
			Category: "supplies",
			Amount:   decimal.NewFromInt(50),
		})
		assert.Nil(t, expense)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	}
	expenseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestExpenseService_List_FiltersByCategory(t *testing.T) {
	ctx := context.Background()
	expenseRepo := new(MockExpenseRepository)
	service := NewExpenseService(expenseRepo, identity.NewRoleAuthorizer())

	category := "transport"
	expenseRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f billing.ExpenseFilter) bool {
		return f.Category != nil && *f.Category == category
	})).Return([]billing.Expense{}, nil)

	expenses, err := service.List(ctx, adminActor(uuid.New()), ListExpensesRequest{Category: &category})

	assert.NoError(t, err)
	assert.NotNil(t, expenses)
	expenseRepo.AssertExpectations(t)
}
