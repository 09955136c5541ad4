package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// GormExpenseRepository implements billing.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *Database
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *Database) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByID finds an expense by its ID
func (r *GormExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds expenses matching the filter, most recent first
func (r *GormExpenseRepository) FindAll(ctx context.Context, filter billing.ExpenseFilter) ([]billing.Expense, error) {
	query := r.db.session(ctx).Model(&models.ExpenseModel{})

	if filter.SchoolID != nil {
		query = query.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.From != nil {
		query = query.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expense_date <= ?", *filter.To)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var rows []models.ExpenseModel
	if err := query.Order("expense_date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]billing.Expense, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, e *billing.Expense) error {
	var model models.ExpenseModel
	model.FromDomain(e)
	return r.db.session(ctx).Save(&model).Error
}

var _ billing.ExpenseRepository = (*GormExpenseRepository)(nil)
