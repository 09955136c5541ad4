package billing

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/telemetry"
)

// ReportService computes the financial reports by scanning invoices and
// payments. All sums are exact decimal arithmetic computed row by row;
// nothing is cached or read from denormalized columns.
type ReportService struct {
	invoiceRepo billing.InvoiceRepository
	paymentRepo billing.PaymentRepository
	feeRepo     billing.FeeStructureRepository
	studentRepo enrollment.StudentRepository
	authz       identity.Authorizer
}

// NewReportService creates a new ReportService
func NewReportService(
	invoiceRepo billing.InvoiceRepository,
	paymentRepo billing.PaymentRepository,
	feeRepo billing.FeeStructureRepository,
	studentRepo enrollment.StudentRepository,
	authz identity.Authorizer,
) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		authz:       authz,
	}
}

// SummaryRequest scopes the summary report
type SummaryRequest struct {
	StartDate *time.Time
	EndDate   *time.Time
	SchoolID  *uuid.UUID
}

// FeeTypeBreakdown is the invoiced total of one fee type
type FeeTypeBreakdown struct {
	FeeType     billing.FeeType
	TotalAmount decimal.Decimal
}

// FinancialSummary aggregates the ledger over the requested range
type FinancialSummary struct {
	TotalInvoices      int
	TotalInvoiced      decimal.Decimal
	PaidInvoices       int
	PendingInvoices    int
	OverdueInvoices    int
	PartialInvoices    int
	TotalPayments      int
	TotalCollected     decimal.Decimal
	OutstandingBalance decimal.Decimal
	FeeTypeBreakdown   []FeeTypeBreakdown
}

// OutstandingInvoice is one entry of the outstanding-balance report
type OutstandingInvoice struct {
	View         InvoiceView
	Student      *enrollment.Student
	FeeStructure *billing.FeeStructure
}

// Summary scans the invoices issued in the requested range and their
// completed payments. Invoice counts classify by read-time status, so
// overdue invoices are counted even when the stored row still says Pending.
func (s *ReportService) Summary(ctx context.Context, actor identity.Actor, req SummaryRequest) (*FinancialSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "summary")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionViewReports, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	invoices, err := s.invoiceRepo.FindAll(ctx, billing.InvoiceFilter{
		SchoolID:   req.SchoolID,
		IssuedFrom: req.StartDate,
		IssuedTo:   req.EndDate,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(invoices))
	feeIDSet := make(map[uuid.UUID]struct{})
	for i := range invoices {
		ids[i] = invoices[i].ID
		feeIDSet[invoices[i].FeeID] = struct{}{}
	}

	payments, err := s.paymentRepo.FindCompletedByInvoiceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	paidByInvoice := make(map[uuid.UUID]decimal.Decimal, len(ids))
	totalCollected := decimal.Zero
	for i := range payments {
		p := &payments[i]
		paidByInvoice[p.InvoiceID] = paidByInvoice[p.InvoiceID].Add(p.Amount)
		totalCollected = totalCollected.Add(p.Amount)
	}

	feeTypes, err := s.feeTypesByID(ctx, feeIDSet)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	summary := &FinancialSummary{
		TotalInvoices:      len(invoices),
		TotalInvoiced:      decimal.Zero,
		TotalPayments:      len(payments),
		TotalCollected:     totalCollected,
		OutstandingBalance: decimal.Zero,
	}
	byFeeType := make(map[billing.FeeType]decimal.Decimal)

	for i := range invoices {
		inv := &invoices[i]
		summary.TotalInvoiced = summary.TotalInvoiced.Add(inv.TotalAmount)

		balance := inv.Balance(paidByInvoice[inv.ID])
		switch inv.EffectiveStatus(balance, now) {
		case billing.InvoiceStatusPaid:
			summary.PaidInvoices++
		case billing.InvoiceStatusOverdue:
			summary.OverdueInvoices++
		case billing.InvoiceStatusPartial:
			summary.PartialInvoices++
		default:
			summary.PendingInvoices++
		}
		if balance.IsPositive() {
			summary.OutstandingBalance = summary.OutstandingBalance.Add(balance)
		}

		feeType := feeTypes[inv.FeeID]
		byFeeType[feeType] = byFeeType[feeType].Add(inv.TotalAmount)
	}

	summary.FeeTypeBreakdown = make([]FeeTypeBreakdown, 0, len(byFeeType))
	for feeType, total := range byFeeType {
		summary.FeeTypeBreakdown = append(summary.FeeTypeBreakdown, FeeTypeBreakdown{
			FeeType:     feeType,
			TotalAmount: total,
		})
	}
	sort.Slice(summary.FeeTypeBreakdown, func(i, j int) bool {
		return summary.FeeTypeBreakdown[i].FeeType < summary.FeeTypeBreakdown[j].FeeType
	})

	return summary, nil
}

// Outstanding lists every invoice still carrying a balance, annotated with
// days overdue and sorted worst first. Ties are broken by the invoice
// display code so runs are deterministic.
func (s *ReportService) Outstanding(ctx context.Context, actor identity.Actor) ([]OutstandingInvoice, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "outstanding")
	defer span.End()

	if !s.authz.Authorize(actor, identity.ActionViewReports, identity.Shared()) {
		return nil, shared.ErrForbidden
	}

	invoices, err := s.invoiceRepo.FindOpen(ctx, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	sums, err := s.paymentRepo.SumCompletedByInvoiceIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entries := make([]OutstandingInvoice, 0, len(invoices))
	studentIDSet := make(map[uuid.UUID]struct{})
	feeIDSet := make(map[uuid.UUID]struct{})

	for i := range invoices {
		inv := invoices[i]
		balance := inv.Balance(sums[inv.ID])
		if !balance.IsPositive() {
			continue
		}
		entries = append(entries, OutstandingInvoice{
			View: InvoiceView{
				Invoice:     inv,
				Balance:     balance,
				PaidAmount:  sums[inv.ID],
				Status:      inv.EffectiveStatus(balance, now),
				DaysOverdue: inv.DaysOverdueAt(now),
			},
		})
		studentIDSet[inv.StudentID] = struct{}{}
		feeIDSet[inv.FeeID] = struct{}{}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].View.DaysOverdue != entries[j].View.DaysOverdue {
			return entries[i].View.DaysOverdue > entries[j].View.DaysOverdue
		}
		return entries[i].View.Invoice.InvoiceNumber < entries[j].View.Invoice.InvoiceNumber
	})

	students, err := s.studentsByID(ctx, studentIDSet)
	if err != nil {
		return nil, err
	}
	fees, err := s.feesByID(ctx, feeIDSet)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if st, ok := students[entries[i].View.Invoice.StudentID]; ok {
			entries[i].Student = st
		}
		if fee, ok := fees[entries[i].View.Invoice.FeeID]; ok {
			entries[i].FeeStructure = fee
		}
	}

	return entries, nil
}

func (s *ReportService) feeTypesByID(ctx context.Context, idSet map[uuid.UUID]struct{}) (map[uuid.UUID]billing.FeeType, error) {
	fees, err := s.feesByID(ctx, idSet)
	if err != nil {
		return nil, err
	}
	types := make(map[uuid.UUID]billing.FeeType, len(fees))
	for id, fee := range fees {
		types[id] = fee.FeeType
	}
	return types, nil
}

func (s *ReportService) feesByID(ctx context.Context, idSet map[uuid.UUID]struct{}) (map[uuid.UUID]*billing.FeeStructure, error) {
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	fees, err := s.feeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]*billing.FeeStructure, len(fees))
	for i := range fees {
		result[fees[i].ID] = &fees[i]
	}
	return result, nil
}

func (s *ReportService) studentsByID(ctx context.Context, idSet map[uuid.UUID]struct{}) (map[uuid.UUID]*enrollment.Student, error) {
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	students, err := s.studentRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[uuid.UUID]*enrollment.Student, len(students))
	for i := range students {
		result[students[i].ID] = &students[i]
	}
	return result, nil
}
