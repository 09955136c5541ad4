package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/campusledger/backend/internal/application/billing"
	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/interfaces/http/dto"
)

// FeeStructureHandler handles fee catalog API endpoints
type FeeStructureHandler struct {
	BaseHandler
	feeService *billingapp.FeeStructureService
}

// NewFeeStructureHandler creates a new FeeStructureHandler
func NewFeeStructureHandler(feeService *billingapp.FeeStructureService) *FeeStructureHandler {
	return &FeeStructureHandler{feeService: feeService}
}

// RegisterRoutes mounts the fee catalog routes
func (h *FeeStructureHandler) RegisterRoutes(rg *gin.RouterGroup) {
	fees := rg.Group("/fee-structures")
	{
		fees.GET("", h.List)
		fees.POST("", h.Create)
		fees.GET("/:id", h.Get)
		fees.PUT("/:id", h.Update)
	}
}

// CreateFeeStructureRequest is the request body for creating a fee structure
type CreateFeeStructureRequest struct {
	SchoolID          string   `json:"school_id" binding:"required,uuid"`
	YearID            string   `json:"year_id" binding:"required,uuid"`
	FeeName           string   `json:"fee_name" binding:"required,min=1,max=200"`
	Amount            float64  `json:"amount" binding:"min=0"`
	FeeType           string   `json:"fee_type" binding:"required,min=1,max=50"`
	PaymentSchedule   string   `json:"payment_schedule" binding:"max=50"`
	DueDate           string   `json:"due_date" binding:"omitempty"`
	IsMandatory       bool     `json:"is_mandatory"`
	ApplicableClasses []string `json:"applicable_classes"`
}

// UpdateFeeStructureRequest is the partial update body for a fee structure
type UpdateFeeStructureRequest struct {
	FeeName           *string  `json:"fee_name" binding:"omitempty,min=1,max=200"`
	Amount            *float64 `json:"amount" binding:"omitempty,min=0"`
	FeeType           *string  `json:"fee_type" binding:"omitempty,min=1,max=50"`
	PaymentSchedule   *string  `json:"payment_schedule" binding:"omitempty,max=50"`
	DueDate           *string  `json:"due_date"`
	IsMandatory       *bool    `json:"is_mandatory"`
	ApplicableClasses []string `json:"applicable_classes"`
}

// ListFeeStructuresRequest holds the fee catalog list filters
type ListFeeStructuresRequest struct {
	SchoolID string `form:"school_id" binding:"omitempty,uuid"`
	YearID   string `form:"year_id" binding:"omitempty,uuid"`
	FeeType  string `form:"fee_type" binding:"omitempty,max=50"`
}

// FeeStructureResponse is the wire shape of a fee structure
type FeeStructureResponse struct {
	ID                uuid.UUID `json:"id"`
	SchoolID          uuid.UUID `json:"school_id"`
	YearID            uuid.UUID `json:"year_id"`
	FeeName           string    `json:"fee_name"`
	Amount            float64   `json:"amount"`
	FeeType           string    `json:"fee_type"`
	PaymentSchedule   string    `json:"payment_schedule"`
	DueDate           string    `json:"due_date,omitempty"`
	IsMandatory       bool      `json:"is_mandatory"`
	ApplicableClasses []string  `json:"applicable_classes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func toFeeStructureResponse(fs *billing.FeeStructure) FeeStructureResponse {
	resp := FeeStructureResponse{
		ID:                fs.ID,
		SchoolID:          fs.SchoolID,
		YearID:            fs.YearID,
		FeeName:           fs.FeeName,
		Amount:            fs.Amount.InexactFloat64(),
		FeeType:           fs.FeeType.String(),
		PaymentSchedule:   fs.PaymentSchedule,
		IsMandatory:       fs.IsMandatory,
		ApplicableClasses: fs.ApplicableClasses,
		CreatedAt:         fs.CreatedAt,
		UpdatedAt:         fs.UpdatedAt,
	}
	if resp.ApplicableClasses == nil {
		resp.ApplicableClasses = []string{}
	}
	if fs.DueDate != nil {
		resp.DueDate = dto.FormatDate(*fs.DueDate)
	}
	return resp
}

// Create adds a new fee structure to the catalog
func (h *FeeStructureHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateFeeStructureRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appReq := billingapp.CreateFeeStructureRequest{
		SchoolID:          uuid.MustParse(req.SchoolID),
		YearID:            uuid.MustParse(req.YearID),
		FeeName:           req.FeeName,
		Amount:            toDecimal(req.Amount),
		FeeType:           billing.FeeType(req.FeeType),
		PaymentSchedule:   req.PaymentSchedule,
		IsMandatory:       req.IsMandatory,
		ApplicableClasses: req.ApplicableClasses,
	}
	if req.DueDate != "" {
		due, err := dto.ParseDate(req.DueDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.DueDate = &due
	}

	fs, err := h.feeService.Create(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Fee structure created successfully", "fee_structure", toFeeStructureResponse(fs))
}

// List returns fee structures matching the query filters
func (h *FeeStructureHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req ListFeeStructuresRequest
	if !h.bindQuery(c, &req) {
		return
	}

	appReq := billingapp.ListFeeStructuresRequest{}
	if req.SchoolID != "" {
		id := uuid.MustParse(req.SchoolID)
		appReq.SchoolID = &id
	}
	if req.YearID != "" {
		id := uuid.MustParse(req.YearID)
		appReq.YearID = &id
	}
	if req.FeeType != "" {
		ft := billing.FeeType(req.FeeType)
		appReq.FeeType = &ft
	}

	fees, err := h.feeService.List(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]FeeStructureResponse, len(fees))
	for i := range fees {
		out[i] = toFeeStructureResponse(&fees[i])
	}
	h.OK(c, gin.H{"fee_structures": out})
}

// Get returns a single fee structure
func (h *FeeStructureHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, ok := h.parseIDParam(c, "fee structure")
	if !ok {
		return
	}

	fs, err := h.feeService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, gin.H{"fee_structure": toFeeStructureResponse(fs)})
}

// Update applies a partial update to a fee structure
func (h *FeeStructureHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, ok := h.parseIDParam(c, "fee structure")
	if !ok {
		return
	}

	var req UpdateFeeStructureRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appReq := billingapp.UpdateFeeStructureRequest{
		FeeName:           req.FeeName,
		PaymentSchedule:   req.PaymentSchedule,
		IsMandatory:       req.IsMandatory,
		ApplicableClasses: req.ApplicableClasses,
	}
	if req.Amount != nil {
		appReq.Amount = toDecimalPtr(*req.Amount)
	}
	if req.FeeType != nil {
		ft := billing.FeeType(*req.FeeType)
		appReq.FeeType = &ft
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := dto.ParseDate(*req.DueDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.DueDate = &due
	}

	fs, err := h.feeService.Update(c.Request.Context(), actor, id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, gin.H{
		"message":       "Fee structure updated successfully",
		"fee_structure": toFeeStructureResponse(fs),
	})
}
