package identity

import (
	"github.com/google/uuid"
)

// Action enumerates the capabilities checked across the ledger services.
type Action string

const (
	ActionManageFeeStructures Action = "fee_structures:manage"
	ActionViewFeeStructures   Action = "fee_structures:view"
	ActionCreateInvoice       Action = "invoices:create"
	ActionViewInvoice         Action = "invoices:view"
	ActionRecordPayment       Action = "payments:record"
	ActionViewPayment         Action = "payments:view"
	ActionViewReports         Action = "reports:view"
	ActionManageExpenses      Action = "expenses:manage"
	ActionViewExpenses        Action = "expenses:view"
)

// Resource identifies the entity an action targets. OwnerStudentID is set
// when the resource belongs to a specific student (invoices, payments) and
// nil for shared resources (fee structures, reports, expenses).
type Resource struct {
	OwnerStudentID *uuid.UUID
}

// OwnedBy builds a resource owned by the given student.
func OwnedBy(studentID uuid.UUID) Resource {
	return Resource{OwnerStudentID: &studentID}
}

// Shared builds a resource with no owning student.
func Shared() Resource {
	return Resource{}
}

// Authorizer is the capability check consumed by every application service.
// Implementations must be pure: same inputs, same answer, no I/O.
type Authorizer interface {
	Authorize(actor Actor, action Action, resource Resource) bool
}

// RoleAuthorizer implements the role matrix:
// admin and staff may do everything; students may view and pay against
// their own invoices; teachers may read the fee catalog; parents have no
// access to the ledger at all.
type RoleAuthorizer struct{}

// NewRoleAuthorizer creates the default authorizer.
func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{}
}

// Authorize implements Authorizer.
func (ra *RoleAuthorizer) Authorize(actor Actor, action Action, resource Resource) bool {
	switch actor.Role {
	case RoleAdmin, RoleStaff:
		return true
	case RoleTeacher:
		return action == ActionViewFeeStructures
	case RoleStudent:
		switch action {
		case ActionViewFeeStructures:
			return true
		case ActionViewInvoice, ActionViewPayment, ActionRecordPayment:
			return resource.OwnerStudentID != nil && actor.OwnsStudent(*resource.OwnerStudentID)
		}
		return false
	case RoleParent:
		return false
	}
	return false
}

var _ Authorizer = (*RoleAuthorizer)(nil)
