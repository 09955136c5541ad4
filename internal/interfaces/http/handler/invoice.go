package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/campusledger/backend/internal/application/billing"
	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/interfaces/http/dto"
)

// InvoiceHandler handles invoice API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes mounts the invoice routes
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.POST("", h.Create)
		invoices.GET("/:id", h.Get)
	}
}

// CreateInvoiceRequest is the request body for issuing an invoice
type CreateInvoiceRequest struct {
	StudentID string  `json:"student_id" binding:"required,uuid"`
	FeeID     string  `json:"fee_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"min=0"`
	Discount  float64 `json:"discount" binding:"min=0"`
	DueDate   string  `json:"due_date" binding:"required"`
	IssueDate string  `json:"issue_date"`
}

// ListInvoicesRequest holds the invoice list filters
type ListInvoicesRequest struct {
	dto.ListRequest
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,max=20"`
}

// InvoiceResponse is the wire shape of an invoice, annotated with the
// recomputed balance and the read-time status.
type InvoiceResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNumber string    `json:"invoice_number"`
	SchoolID      uuid.UUID `json:"school_id"`
	StudentID     uuid.UUID `json:"student_id"`
	FeeID         uuid.UUID `json:"fee_id"`
	Amount        float64   `json:"amount"`
	Discount      float64   `json:"discount"`
	TotalAmount   float64   `json:"total_amount"`
	PaidAmount    float64   `json:"paid_amount"`
	Balance       float64   `json:"balance"`
	Status        string    `json:"status"`
	DaysOverdue   int       `json:"days_overdue,omitempty"`
	IssueDate     string    `json:"issue_date"`
	DueDate       string    `json:"due_date"`
	PaidAt        *string   `json:"paid_at,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// InvoiceDetailResponse embeds the invoice's student, fee structure and
// payment history.
type InvoiceDetailResponse struct {
	InvoiceResponse
	Student      *StudentResponse      `json:"student,omitempty"`
	FeeStructure *FeeStructureResponse `json:"fee_structure,omitempty"`
	Payments     []PaymentResponse     `json:"payments"`
}

// StudentResponse is the roster reference embedded in invoice reads
type StudentResponse struct {
	ID              uuid.UUID `json:"id"`
	AdmissionNumber string    `json:"admission_number"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FullName        string    `json:"full_name"`
	ClassName       string    `json:"class_name"`
}

func toStudentResponse(s *enrollment.Student) *StudentResponse {
	if s == nil {
		return nil
	}
	return &StudentResponse{
		ID:              s.ID,
		AdmissionNumber: s.AdmissionNumber,
		FirstName:       s.FirstName,
		LastName:        s.LastName,
		FullName:        s.FullName(),
		ClassName:       s.ClassName,
	}
}

func toInvoiceResponse(v billingapp.InvoiceView) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            v.Invoice.ID,
		InvoiceNumber: v.Invoice.InvoiceNumber,
		SchoolID:      v.Invoice.SchoolID,
		StudentID:     v.Invoice.StudentID,
		FeeID:         v.Invoice.FeeID,
		Amount:        v.Invoice.Amount.InexactFloat64(),
		Discount:      v.Invoice.Discount.InexactFloat64(),
		TotalAmount:   v.Invoice.TotalAmount.InexactFloat64(),
		PaidAmount:    v.PaidAmount.InexactFloat64(),
		Balance:       v.Balance.InexactFloat64(),
		Status:        v.Status.String(),
		DaysOverdue:   v.DaysOverdue,
		IssueDate:     dto.FormatDate(v.Invoice.IssueDate),
		DueDate:       dto.FormatDate(v.Invoice.DueDate),
		CreatedAt:     v.Invoice.CreatedAt,
	}
	if v.Invoice.PaidAt != nil {
		paidAt := v.Invoice.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}

// Create issues a new invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req CreateInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	dueDate, err := dto.ParseDate(req.DueDate)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := billingapp.CreateInvoiceRequest{
		StudentID: uuid.MustParse(req.StudentID),
		FeeID:     uuid.MustParse(req.FeeID),
		Amount:    toDecimal(req.Amount),
		Discount:  toDecimal(req.Discount),
		DueDate:   dueDate,
	}
	if req.IssueDate != "" {
		issueDate, err := dto.ParseDate(req.IssueDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.IssueDate = &issueDate
	}

	view, err := h.invoiceService.Create(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, "Invoice created successfully", "invoice", toInvoiceResponse(*view))
}

// List returns a role-scoped page of invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req ListInvoicesRequest
	if !h.bindQuery(c, &req) {
		return
	}

	appReq := billingapp.ListInvoicesRequest{
		Page:    req.Page,
		PerPage: req.PerPage,
	}
	if req.StudentID != "" {
		id := uuid.MustParse(req.StudentID)
		appReq.StudentID = &id
	}
	if req.Status != "" {
		status := billing.InvoiceStatus(req.Status)
		if !status.IsValidFilter() {
			h.BadRequest(c, "Invalid status filter")
			return
		}
		appReq.Status = &status
	}

	list, err := h.invoiceService.List(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]InvoiceResponse, len(list.Invoices))
	for i := range list.Invoices {
		out[i] = toInvoiceResponse(list.Invoices[i])
	}
	h.OK(c, gin.H{
		"invoices":   out,
		"pagination": dto.NewPagination(list.Pagination.Page, list.Pagination.PageSize, list.Pagination.Total),
	})
}

// Get returns one invoice with its student, fee structure and payments
func (h *InvoiceHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, ok := h.parseIDParam(c, "invoice")
	if !ok {
		return
	}

	detail, err := h.invoiceService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := InvoiceDetailResponse{
		InvoiceResponse: toInvoiceResponse(detail.InvoiceView),
		Student:         toStudentResponse(detail.Student),
		Payments:        make([]PaymentResponse, len(detail.Payments)),
	}
	if detail.FeeStructure != nil {
		fs := toFeeStructureResponse(detail.FeeStructure)
		resp.FeeStructure = &fs
	}
	for i := range detail.Payments {
		resp.Payments[i] = toPaymentResponse(&detail.Payments[i])
	}
	h.OK(c, gin.H{"invoice": resp})
}
