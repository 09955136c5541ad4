package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

const invoiceSequenceName = "invoice_number"

// GormInvoiceRepository implements billing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *Database
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *Database) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds invoices matching the filter
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.InvoiceModel{}), filter, true)

	var rows []models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]billing.Invoice, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.session(ctx).Model(&models.InvoiceModel{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOpen finds every invoice whose persisted status still allows payments
func (r *GormInvoiceRepository) FindOpen(ctx context.Context, schoolID *uuid.UUID) ([]billing.Invoice, error) {
	query := r.db.session(ctx).
		Model(&models.InvoiceModel{}).
		Where("status IN ?", []billing.InvoiceStatus{billing.InvoiceStatusPending, billing.InvoiceStatusPartial})
	if schoolID != nil {
		query = query.Where("school_id = ?", *schoolID)
	}

	var rows []models.InvoiceModel
	if err := query.Order("due_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]billing.Invoice, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(inv)
	return r.db.session(ctx).Save(&model).Error
}

// SaveWithLock updates an invoice guarded by its version column
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(inv)
	result := r.db.session(ctx).
		Model(&model).
		Where("id = ? AND version = ?", inv.ID, inv.Version-1).
		Updates(&model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextInvoiceNumber allocates the next sequential display code from the
// sequences table. The update-then-read runs against the session bound to
// ctx; inside a transaction the row write lock serializes concurrent
// allocators on both postgres and sqlite.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	session := r.db.session(ctx)

	result := session.Model(&models.SequenceModel{}).
		Where("name = ?", invoiceSequenceName).
		Update("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		// First allocation on a fresh store. A concurrent allocator may win
		// the insert, in which case we fall through to the increment path.
		err := session.Create(&models.SequenceModel{Name: invoiceSequenceName, Value: 1}).Error
		if err == nil {
			return fmt.Sprintf("INV-%06d", 1), nil
		}
		result = session.Model(&models.SequenceModel{}).
			Where("name = ?", invoiceSequenceName).
			Update("value", gorm.Expr("value + 1"))
		if result.Error != nil {
			return "", result.Error
		}
		if result.RowsAffected == 0 {
			return "", err
		}
	}

	var seq models.SequenceModel
	if err := session.First(&seq, "name = ?", invoiceSequenceName).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", seq.Value), nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter billing.InvoiceFilter, paginate bool) *gorm.DB {
	if filter.SchoolID != nil {
		query = query.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.IssuedFrom != nil {
		query = query.Where("issue_date >= ?", *filter.IssuedFrom)
	}
	if filter.IssuedTo != nil {
		query = query.Where("issue_date <= ?", *filter.IssuedTo)
	}
	if filter.OpenOnly {
		query = query.Where("status IN ?", []billing.InvoiceStatus{billing.InvoiceStatusPending, billing.InvoiceStatusPartial})
	}
	if filter.DueBefore != nil {
		query = query.Where("due_date < ?", *filter.DueBefore)
	}

	if !paginate {
		return query
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
		query = query.Order("created_at DESC")
	}

	return query
}

var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
