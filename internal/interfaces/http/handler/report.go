package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/campusledger/backend/internal/application/billing"
	"github.com/campusledger/backend/internal/interfaces/http/dto"
)

// ReportHandler handles financial report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *billingapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *billingapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes mounts the report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/summary", h.Summary)
		reports.GET("/outstanding", h.Outstanding)
	}
}

// SummaryReportRequest scopes the summary report
type SummaryReportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SchoolID  string `form:"school_id" binding:"omitempty,uuid"`
}

// FeeTypeBreakdownResponse is the invoiced total of one fee type
type FeeTypeBreakdownResponse struct {
	FeeType     string  `json:"fee_type"`
	TotalAmount float64 `json:"total_amount"`
}

// SummaryReportResponse aggregates the ledger over the requested range
type SummaryReportResponse struct {
	TotalInvoices      int                        `json:"total_invoices"`
	TotalInvoiced      float64                    `json:"total_invoiced"`
	PaidInvoices       int                        `json:"paid_invoices"`
	PendingInvoices    int                        `json:"pending_invoices"`
	PartialInvoices    int                        `json:"partial_invoices"`
	OverdueInvoices    int                        `json:"overdue_invoices"`
	TotalPayments      int                        `json:"total_payments"`
	TotalCollected     float64                    `json:"total_collected"`
	OutstandingBalance float64                    `json:"outstanding_balance"`
	FeeTypeBreakdown   []FeeTypeBreakdownResponse `json:"fee_type_breakdown"`
}

// OutstandingInvoiceResponse is one row of the outstanding-balance report
type OutstandingInvoiceResponse struct {
	InvoiceResponse
	OutstandingAmount float64               `json:"outstanding_amount"`
	Student           *StudentResponse      `json:"student,omitempty"`
	FeeStructure      *FeeStructureResponse `json:"fee_structure,omitempty"`
}

// Summary returns the aggregated financial summary
func (h *ReportHandler) Summary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req SummaryReportRequest
	if !h.bindQuery(c, &req) {
		return
	}

	appReq := billingapp.SummaryRequest{}
	if req.StartDate != "" {
		start, err := dto.ParseDate(req.StartDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := dto.ParseDate(req.EndDate)
		if err != nil {
			h.BadRequest(c, err.Error())
			return
		}
		appReq.EndDate = &end
	}
	if req.SchoolID != "" {
		id := uuid.MustParse(req.SchoolID)
		appReq.SchoolID = &id
	}

	summary, err := h.reportService.Summary(c.Request.Context(), actor, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := SummaryReportResponse{
		TotalInvoices:      summary.TotalInvoices,
		TotalInvoiced:      summary.TotalInvoiced.InexactFloat64(),
		PaidInvoices:       summary.PaidInvoices,
		PendingInvoices:    summary.PendingInvoices,
		PartialInvoices:    summary.PartialInvoices,
		OverdueInvoices:    summary.OverdueInvoices,
		TotalPayments:      summary.TotalPayments,
		TotalCollected:     summary.TotalCollected.InexactFloat64(),
		OutstandingBalance: summary.OutstandingBalance.InexactFloat64(),
		FeeTypeBreakdown:   make([]FeeTypeBreakdownResponse, len(summary.FeeTypeBreakdown)),
	}
	for i, b := range summary.FeeTypeBreakdown {
		resp.FeeTypeBreakdown[i] = FeeTypeBreakdownResponse{
			FeeType:     b.FeeType.String(),
			TotalAmount: b.TotalAmount.InexactFloat64(),
		}
	}
	h.OK(c, gin.H{"summary": resp})
}

// Outstanding returns every invoice still carrying a balance, worst first
func (h *ReportHandler) Outstanding(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	entries, err := h.reportService.Outstanding(c.Request.Context(), actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]OutstandingInvoiceResponse, len(entries))
	for i := range entries {
		out[i] = OutstandingInvoiceResponse{
			InvoiceResponse:   toInvoiceResponse(entries[i].View),
			OutstandingAmount: entries[i].View.Balance.InexactFloat64(),
			Student:           toStudentResponse(entries[i].Student),
		}
		if entries[i].FeeStructure != nil {
			fs := toFeeStructureResponse(entries[i].FeeStructure)
			out[i].FeeStructure = &fs
		}
	}
	h.OK(c, gin.H{"outstanding_invoices": out})
}
