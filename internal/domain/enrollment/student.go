package enrollment

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusledger/backend/internal/domain/shared"
)

// Student is the roster entry the billing subsystem reads. Enrollment
// record-keeping itself lives outside this service; the ledger only needs
// existence checks and the user-to-student mapping for student callers.
type Student struct {
	shared.SchoolAggregateRoot
	UserID          uuid.UUID
	AdmissionNumber string
	FirstName       string
	LastName        string
	ClassName       string
}

// FullName returns the student's display name.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentRepository provides read access to the roster.
type StudentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Student, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Student, error)
}
