package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/shared"
)

// FeeType labels what a fee structure charges for. The set is open: the
// constants below cover the common cases but any non-empty label is accepted.
type FeeType string

const (
	FeeTypeTuition   FeeType = "Tuition"
	FeeTypeTransport FeeType = "Transport"
	FeeTypeLibrary   FeeType = "Library"
	FeeTypeExam      FeeType = "Exam"
	FeeTypeOther     FeeType = "Other"
)

// String returns the fee type label
func (t FeeType) String() string {
	return string(t)
}

// ApplicableClasses is the set of class identifiers a fee applies to,
// stored as JSONB with an explicit schema rather than an opaque text blob.
type ApplicableClasses []string

// Value implements driver.Valuer for JSONB storage
func (a ApplicableClasses) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB storage
func (a *ApplicableClasses) Scan(value interface{}) error {
	if value == nil {
		*a = ApplicableClasses{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan ApplicableClasses: unsupported type")
	}

	if len(bytes) == 0 {
		*a = ApplicableClasses{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Contains reports whether the fee applies to the given class.
// An empty set means the fee applies to every class.
func (a ApplicableClasses) Contains(class string) bool {
	if len(a) == 0 {
		return true
	}
	for _, c := range a {
		if c == class {
			return true
		}
	}
	return false
}

// FeeStructure is a reusable template describing what is charged,
// independent of any individual student. Invoices snapshot the amount at
// creation time, so mutating a fee structure never alters issued invoices.
type FeeStructure struct {
	shared.SchoolAggregateRoot
	YearID            uuid.UUID         `json:"year_id"`
	FeeName           string            `json:"fee_name"`
	Amount            decimal.Decimal   `json:"amount"`
	FeeType           FeeType           `json:"fee_type"`
	PaymentSchedule   string            `json:"payment_schedule"`
	DueDate           *time.Time        `json:"due_date"`
	IsMandatory       bool              `json:"is_mandatory"`
	ApplicableClasses ApplicableClasses `json:"applicable_classes"`
}

// NewFeeStructure creates a new fee structure
func NewFeeStructure(
	schoolID uuid.UUID,
	yearID uuid.UUID,
	feeName string,
	amount decimal.Decimal,
	feeType FeeType,
	paymentSchedule string,
	dueDate *time.Time,
	isMandatory bool,
	applicableClasses ApplicableClasses,
) (*FeeStructure, error) {
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School ID cannot be empty")
	}
	if yearID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_YEAR", "Academic year ID cannot be empty")
	}
	if feeName == "" {
		return nil, shared.NewDomainError("INVALID_FEE_NAME", "Fee name cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
	}
	if feeType == "" {
		return nil, shared.NewDomainError("INVALID_FEE_TYPE", "Fee type cannot be empty")
	}

	fs := &FeeStructure{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		YearID:              yearID,
		FeeName:             feeName,
		Amount:              amount,
		FeeType:             feeType,
		PaymentSchedule:     paymentSchedule,
		DueDate:             dueDate,
		IsMandatory:         isMandatory,
		ApplicableClasses:   applicableClasses,
	}
	if fs.ApplicableClasses == nil {
		fs.ApplicableClasses = ApplicableClasses{}
	}

	return fs, nil
}

// FeeStructureUpdate carries the partial fields an update may change.
// Nil fields are left untouched.
type FeeStructureUpdate struct {
	FeeName           *string
	Amount            *decimal.Decimal
	FeeType           *FeeType
	PaymentSchedule   *string
	DueDate           *time.Time
	IsMandatory       *bool
	ApplicableClasses ApplicableClasses
}

// Apply mutates the fee structure with the non-nil fields of the update.
// Already-issued invoices keep their snapshotted amounts.
func (fs *FeeStructure) Apply(u FeeStructureUpdate) error {
	if u.FeeName != nil {
		if *u.FeeName == "" {
			return shared.NewDomainError("INVALID_FEE_NAME", "Fee name cannot be empty")
		}
		fs.FeeName = *u.FeeName
	}
	if u.Amount != nil {
		if u.Amount.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", "Fee amount cannot be negative")
		}
		fs.Amount = *u.Amount
	}
	if u.FeeType != nil {
		if *u.FeeType == "" {
			return shared.NewDomainError("INVALID_FEE_TYPE", "Fee type cannot be empty")
		}
		fs.FeeType = *u.FeeType
	}
	if u.PaymentSchedule != nil {
		fs.PaymentSchedule = *u.PaymentSchedule
	}
	if u.DueDate != nil {
		fs.DueDate = u.DueDate
	}
	if u.IsMandatory != nil {
		fs.IsMandatory = *u.IsMandatory
	}
	if u.ApplicableClasses != nil {
		fs.ApplicableClasses = u.ApplicableClasses
	}

	fs.UpdatedAt = time.Now()
	fs.IncrementVersion()

	return nil
}
