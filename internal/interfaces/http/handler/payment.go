package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/campusledger/backend/internal/application/billing"
	"github.com/campusledger/backend/internal/domain/billing"
)

// PaymentHandler handles payment ledger API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RegisterRoutes mounts the payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("", h.List)
		payments.POST("", h.Create)
		payments.GET("/:id", h.Get)
	}
}

// CreatePaymentRequest is the request body for recording a payment
type CreatePaymentRequest struct {
	InvoiceID     string  `json:"invoice_id" binding:"required,uuid"`
	PaymentMethod string  `json:"payment_method" binding:"required,min=1,max=50"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	TransactionID string  `json:"transaction_id" binding:"max=100"`
	Status        string  `json:"status" binding:"omitempty,max=20"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

// ListPaymentsRequest holds the payment list filters
type ListPaymentsRequest struct {
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	InvoiceID string `form:"invoice_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,max=20"`
}

// PaymentResponse is the wire shape of a payment
type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceID     uuid.UUID  `json:"invoice_id"`
	StudentID     uuid.UUID  `json:"student_id"`
	PaymentMethod string     `json:"payment_method"`
	Amount        float64    `json:"amount"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Status        string     `json:"status"`
	ProcessedBy   *uuid.UUID `json:"processed_by,omitempty"`
	PaymentDate   time.Time  `json:"payment_date"`
	Notes         string     `json:"notes,omitempty"`
}

func toPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		InvoiceID:     p.InvoiceID,
		StudentID:     p.StudentID,
		PaymentMethod: p.PaymentMethod,
		Amount:        p.Amount.InexactFloat64(),
		TransactionID: p.TransactionID,
		Status:        p.Status.String(),
		ProcessedBy:   p.ProcessedBy,
		PaymentDate:   p.PaymentDate,
		Notes:         p.Notes,
	}
}

// Create records a payment against an invoice
func (h *PaymentHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status := billing.PaymentStatus(req.Status)
	if req.Status != "" && !status.IsValid() {
		h.BadRequest(c, "Invalid payment status")
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), actor, billingapp.CreatePaymentRequest{
		InvoiceID:     uuid.MustParse(req.InvoiceID),
		PaymentMethod: req.PaymentMethod,
		Amount:        toDecimal(req.Amount),
		TransactionID: req.TransactionID,
		Status:        status,
		Notes:         req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Payment recorded successfully", "payment", toPaymentResponse(payment))
}

// List returns role-scoped payments
func (h *PaymentHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req ListPaymentsRequest
	if !h.bindQuery(c, &req) {
		return
	}

	appReq := billingapp.ListPaymentsRequest{}
	if req.StudentID != "" {
		id := uuid.MustParse(req.StudentID)
		appReq.StudentID = &id
	}
	if req.InvoiceID != "" {
		id := uuid.MustParse(req.InvoiceID)
		appReq.InvoiceID = &id
	}
	if req.Status != "" {
		status := billing.PaymentStatus(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Invalid payment status")
			return
		}
		appReq.Status = &status
	}

	payments, err := h.paymentService.List(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = toPaymentResponse(&payments[i])
	}
	h.OK(c, gin.H{"payments": out})
}

// Get returns a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, ok := h.parseIDParam(c, "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.OK(c, gin.H{"payment": toPaymentResponse(payment)})
}
