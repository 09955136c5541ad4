package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/telemetry"
)

// FeeStructureService manages the fee catalog
type FeeStructureService struct {
	feeRepo billing.FeeStructureRepository
	authz   identity.Authorizer
}

// NewFeeStructureService creates a new FeeStructureService
func NewFeeStructureService(feeRepo billing.FeeStructureRepository, authz identity.Authorizer) *FeeStructureService {
	return &FeeStructureService{feeRepo: feeRepo, authz: authz}
}

// CreateFeeStructureRequest carries the fields for a new fee structure
type CreateFeeStructureRequest struct {
	SchoolID          uuid.UUID
	YearID            uuid.UUID
	FeeName           string
	Amount            decimal.Decimal
	FeeType           billing.FeeType
	PaymentSchedule   string
	DueDate           *time.Time
	IsMandatory       bool
	ApplicableClasses []string
}

// ListFeeStructuresRequest carries the catalog list filters
type ListFeeStructuresRequest struct {
	SchoolID *uuid.UUID
	YearID   *uuid.UUID
	FeeType  *billing.FeeType
}

// UpdateFeeStructureRequest carries the partial update fields
type UpdateFeeStructureRequest struct {
	FeeName           *string
	Amount            *decimal.Decimal
	FeeType           *billing.FeeType
	PaymentSchedule   *string
	DueDate           *time.Time
	IsMandatory       *bool
	ApplicableClasses []string
}

// Create adds a new fee structure to the catalog
func (s *FeeStructureService) Create(ctx context.Context, actor identity.Actor, req CreateFeeStructureRequest) (*billing.FeeStructure, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "create")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionManageFeeStructures, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	fs, err := billing.NewFeeStructure(
		req.SchoolID,
		req.YearID,
		req.FeeName,
		req.Amount,
		req.FeeType,
		req.PaymentSchedule,
		req.DueDate,
		req.IsMandatory,
		billing.ApplicableClasses(req.ApplicableClasses),
	)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	fs.SetCreatedBy(actor.UserID)

	if err := s.feeRepo.Save(ctx, fs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return fs, nil
}

// List returns fee structures matching the filters, newest first
func (s *FeeStructureService) List(ctx context.Context, actor identity.Actor, req ListFeeStructuresRequest) ([]billing.FeeStructure, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "list")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionViewFeeStructures, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	return s.feeRepo.FindAll(ctx, billing.FeeStructureFilter{
		SchoolID: req.SchoolID,
		YearID:   req.YearID,
		FeeType:  req.FeeType,
	})
}

// Get returns a single fee structure
func (s *FeeStructureService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*billing.FeeStructure, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "get")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionViewFeeStructures, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	fs, err := s.feeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Fee structure not found")
		}
		return nil, err
	}
	return fs, nil
}

// Update applies a partial update to a fee structure. Already-issued
// invoices keep the amounts they snapshotted at creation.
func (s *FeeStructureService) Update(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateFeeStructureRequest) (*billing.FeeStructure, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "update")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionManageFeeStructures, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	fs, err := s.feeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Fee structure not found")
		}
		return nil, err
	}

	update := billing.FeeStructureUpdate{
		FeeName:         req.FeeName,
		Amount:          req.Amount,
		FeeType:         req.FeeType,
		PaymentSchedule: req.PaymentSchedule,
		DueDate:         req.DueDate,
		IsMandatory:     req.IsMandatory,
	}
	if req.ApplicableClasses != nil {
		update.ApplicableClasses = billing.ApplicableClasses(req.ApplicableClasses)
	}

	if err := fs.Apply(update); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.feeRepo.Save(ctx, fs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return fs, nil
}
