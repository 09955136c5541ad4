package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// GormFeeStructureRepository implements billing.FeeStructureRepository using GORM
type GormFeeStructureRepository struct {
	db *Database
}

// NewGormFeeStructureRepository creates a new GormFeeStructureRepository
func NewGormFeeStructureRepository(db *Database) *GormFeeStructureRepository {
	return &GormFeeStructureRepository{db: db}
}

// FindByID finds a fee structure by its ID
func (r *GormFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FeeStructure, error) {
	var model models.FeeStructureModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds fee structures by a set of IDs
func (r *GormFeeStructureRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]billing.FeeStructure, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.FeeStructureModel
	if err := r.db.session(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]billing.FeeStructure, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// FindAll finds fee structures matching the filter, newest first
func (r *GormFeeStructureRepository) FindAll(ctx context.Context, filter billing.FeeStructureFilter) ([]billing.FeeStructure, error) {
	query := r.applyFilter(r.db.session(ctx).Model(&models.FeeStructureModel{}), filter)

	var rows []models.FeeStructureModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]billing.FeeStructure, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a fee structure
func (r *GormFeeStructureRepository) Save(ctx context.Context, fs *billing.FeeStructure) error {
	var model models.FeeStructureModel
	model.FromDomain(fs)
	return r.db.session(ctx).Save(&model).Error
}

func (r *GormFeeStructureRepository) applyFilter(query *gorm.DB, filter billing.FeeStructureFilter) *gorm.DB {
	if filter.SchoolID != nil {
		query = query.Where("school_id = ?", *filter.SchoolID)
	}
	if filter.YearID != nil {
		query = query.Where("year_id = ?", *filter.YearID)
	}
	if filter.FeeType != nil {
		query = query.Where("fee_type = ?", *filter.FeeType)
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

var _ billing.FeeStructureRepository = (*GormFeeStructureRepository)(nil)
