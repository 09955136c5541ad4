package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements billing.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *Database
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *Database) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	var model models.PaymentModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter billing.PaymentFilter) ([]billing.Payment, error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.PaymentModel{}), filter)

	var rows []models.PaymentModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(rows), nil
}

// FindByInvoice finds all payments recorded against an invoice
func (r *GormPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.session(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("payment_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(rows), nil
}

// SumCompletedByInvoice sums the completed payments on one invoice
func (r *GormPaymentRepository) SumCompletedByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := r.db.session(ctx).
		Model(&models.PaymentModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("invoice_id = ? AND status = ?", invoiceID, billing.PaymentStatusCompleted).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// SumCompletedByInvoiceIDs sums completed payments per invoice for a set of invoices
func (r *GormPaymentRepository) SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal, len(invoiceIDs))
	if len(invoiceIDs) == 0 {
		return sums, nil
	}

	var rows []struct {
		InvoiceID uuid.UUID
		Total     decimal.Decimal
	}
	err := r.db.session(ctx).
		Model(&models.PaymentModel{}).
		Select("invoice_id, COALESCE(SUM(amount), 0) as total").
		Where("invoice_id IN ? AND status = ?", invoiceIDs, billing.PaymentStatusCompleted).
		Group("invoice_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.InvoiceID] = row.Total
	}
	return sums, nil
}

// FindCompletedByInvoiceIDs loads the completed payments of a set of invoices
func (r *GormPaymentRepository) FindCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]billing.Payment, error) {
	if len(invoiceIDs) == 0 {
		return nil, nil
	}
	var rows []models.PaymentModel
	if err := r.db.session(ctx).
		Where("invoice_id IN ? AND status = ?", invoiceIDs, billing.PaymentStatusCompleted).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(rows), nil
}

// Save creates a payment record
func (r *GormPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	var model models.PaymentModel
	model.FromDomain(p)
	return r.db.session(ctx).Save(&model).Error
}

func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter billing.PaymentFilter) *gorm.DB {
	if filter.SchoolID != nil {
		query = query.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *filter.InvoiceID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("payment_date DESC")
	}

	return query
}

func toDomainPayments(rows []models.PaymentModel) []billing.Payment {
	result := make([]billing.Payment, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result
}

var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
