package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
)

func TestFeeStructureService_Create_RejectsNegativeAmount(t *testing.T) {
	ctx := context.Background()
	feeRepo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(feeRepo, identity.NewRoleAuthorizer())

	fee, err := service.Create(ctx, adminActor(uuid.New()), CreateFeeStructureRequest{
		SchoolID: uuid.New(),
		YearID:   uuid.New(),
		FeeName:  "Lab Fee",
		Amount:   decimal.NewFromInt(-10),
		FeeType:  billing.FeeTypeOther,
	})

	assert.Nil(t, fee)
	assert.Error(t, err)
	feeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestFeeStructureService_Create_TeacherDenied(t *testing.T) {
	ctx := context.Background()
	feeRepo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(feeRepo, identity.NewRoleAuthorizer())

	actor := identity.Actor{UserID: uuid.New(), SchoolID: uuid.New(), Role: identity.RoleTeacher}
	fee, err := service.Create(ctx, actor, CreateFeeStructureRequest{
		SchoolID: uuid.New(),
		YearID:   uuid.New(),
		FeeName:  "Lab Fee",
		Amount:   decimal.NewFromInt(10),
		FeeType:  billing.FeeTypeOther,
	})

	assert.Nil(t, fee)
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestFeeStructureService_List_TeacherAllowed(t *testing.T) {
	ctx := context.Background()
	feeRepo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(feeRepo, identity.NewRoleAuthorizer())

	feeRepo.On("FindAll", mock.Anything, mock.AnythingOfType("billing.FeeStructureFilter")).
		Return([]billing.FeeStructure{}, nil)

	actor := identity.Actor{UserID: uuid.New(), SchoolID: uuid.New(), Role: identity.RoleTeacher}
	fees, err := service.List(ctx, actor, ListFeeStructuresRequest{})

	assert.NoError(t, err)
	assert.NotNil(t, fees)
}

func TestFeeStructureService_Update_Partial(t *testing.T) {
	ctx := context.Background()
	schoolID := uuid.New()
	fee := newTestFeeStructure(t, schoolID)

	feeRepo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(feeRepo, identity.NewRoleAuthorizer())

	feeRepo.On("FindByID", mock.Anything, fee.ID).Return(fee, nil)
	feeRepo.On("Save", mock.Anything, mock.AnythingOfType("*billing.FeeStructure")).Return(nil)

	amount := decimal.NewFromInt(650)
	updated, err := service.Update(ctx, adminActor(schoolID), fee.ID, UpdateFeeStructureRequest{
		Amount: &amount,
	})

	assert.NoError(t, err)
	assert.Equal(t, decimal.NewFromInt(650).String(), updated.Amount.String())
	assert.Equal(t, "Tuition Term 1", updated.FeeName)
	feeRepo.AssertExpectations(t)
}

func TestFeeStructureService_Get_NotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	feeRepo := new(MockFeeStructureRepository)
	service := NewFeeStructureService(feeRepo, identity.NewRoleAuthorizer())

	feeRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	fee, err := service.Get(ctx, adminActor(uuid.New()), id)
	assert.Nil(t, fee)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Fee structure not found")
}
