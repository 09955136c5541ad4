// Package billing contains the application services of the financial ledger:
// fee catalog management, invoice issuance, payment recording, reporting and
// the expense ledger. Services authorize every call through the identity
// capability check and speak to the store through the domain repositories.
package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
)

// resolveActor attaches the roster row to student callers so ownership
// checks can compare student ids. Non-student roles pass through untouched.
// A student account without a roster row cannot own anything and is left
// unresolved, which the authorizer treats as a denial.
func resolveActor(ctx context.Context, studentRepo enrollment.StudentRepository, actor identity.Actor) (identity.Actor, error) {
	if actor.Role != identity.RoleStudent || actor.StudentID != nil {
		return actor, nil
	}
	student, err := studentRepo.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return actor, nil
		}
		return actor, err
	}
	id := student.ID
	actor.StudentID = &id
	if actor.SchoolID == uuid.Nil {
		actor.SchoolID = student.SchoolID
	}
	return actor, nil
}
