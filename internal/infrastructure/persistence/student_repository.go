package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// GormStudentRepository implements enrollment.StudentRepository using GORM.
// The ledger never writes roster rows; they arrive via migrations or the
// enrollment service.
type GormStudentRepository struct {
	db *Database
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *Database) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID finds a student by ID
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Student, error) {
	var model models.StudentModel
	if err := r.db.session(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds students by a set of IDs
func (r *GormStudentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]enrollment.Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.StudentModel
	if err := r.db.session(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]enrollment.Student, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// FindByUserID finds the student linked to a user account
func (r *GormStudentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*enrollment.Student, error) {
	var model models.StudentModel
	if err := r.db.session(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ enrollment.StudentRepository = (*GormStudentRepository)(nil)
