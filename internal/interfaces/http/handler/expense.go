package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/campusledger/backend/internal/application/billing"
	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/interfaces/http/dto"
)

// ExpenseHandler handles expense ledger API endpoints
type ExpenseHandler struct {
	BaseHandler
	expenseService *billingapp.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseService *billingapp.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes mounts the expense routes
func (h *ExpenseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.List)
		expenses.POST("", h.Create)
	}
}

// CreateExpenseRequest is the request body for recording an expense
type CreateExpenseRequest struct {
	Category    string  `json:"category" binding:"required,min=1,max=100"`
	Description string  `json:"description" binding:"max=1000"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	ExpenseDate string  `json:"expense_date"`
	ApprovedBy  string  `json:"approved_by" binding:"omitempty,uuid"`
}

// ListExpensesRequest holds the expense list filters
type ListExpensesRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Category  string `form:"category" binding:"omitempty,max=100"`
}

// ExpenseResponse is the wire shape of an expense
type ExpenseResponse struct {
	ID          uuid.UUID  `json:"id"`
	SchoolID    uuid.UUID  `json:"school_id"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Amount      float64    `json:"amount"`
	ExpenseDate string     `json:"expense_date"`
	ApprovedBy  *uuid.UUID `json:"approved_by,omitempty"`
}

func toExpenseResponse(e *billing.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		SchoolID:    e.SchoolID,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.InexactFloat64(),
		ExpenseDate: dto.FormatDate(e.ExpenseDate),
		ApprovedBy:  e.ApprovedBy,
	}
}

// Create records a new expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	appReq := billingapp.CreateExpenseRequest{
		Category:    req.Category,
		Description: req.Description,
		Amount:      toDecimal(req.Amount),
	}
	if req.ExpenseDate != "" {
		date, err := dto.ParseDate(req.ExpenseDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.ExpenseDate = date
	}
	if req.ApprovedBy != "" {
		id := uuid.MustParse(req.ApprovedBy)
		appReq.ApprovedBy = &id
	}

	expense, err := h.expenseService.Create(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Expense recorded successfully", "expense", toExpenseResponse(expense))
}

// List returns expenses matching the query filters
func (h *ExpenseHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req ListExpensesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	appReq := billingapp.ListExpensesRequest{}
	if req.StartDate != "" {
		start, err := dto.ParseDate(req.StartDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.From = &start
	}
	if req.EndDate != "" {
		end, err := dto.ParseDate(req.EndDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.To = &end
	}
	if req.Category != "" {
		appReq.Category = &req.Category
	}

	expenses, err := h.expenseService.List(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = toExpenseResponse(&expenses[i])
	}
	h.OK(c, gin.H{"expenses": out})
}
