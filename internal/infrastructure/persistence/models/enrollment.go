package models

import (
	"github.com/google/uuid"

	"github.com/campusledger/backend/internal/domain/enrollment"
)

// StudentModel is the persistence model for the roster entries the ledger
// reads. The enrollment service owns this data; the ledger only queries it.
type StudentModel struct {
	SchoolAggregateModel
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	AdmissionNumber string    `gorm:"type:varchar(50);not null;index"`
	FirstName       string    `gorm:"type:varchar(100);not null"`
	LastName        string    `gorm:"type:varchar(100)"`
	ClassName       string    `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student
func (m *StudentModel) ToDomain() *enrollment.Student {
	return &enrollment.Student{
		SchoolAggregateRoot: m.SchoolAggregateModel.ToDomain(),
		UserID:              m.UserID,
		AdmissionNumber:     m.AdmissionNumber,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		ClassName:           m.ClassName,
	}
}

// FromDomain populates the persistence model from a domain Student
func (m *StudentModel) FromDomain(s *enrollment.Student) {
	m.SchoolAggregateModel.FromDomain(s.SchoolAggregateRoot)
	m.UserID = s.UserID
	m.AdmissionNumber = s.AdmissionNumber
	m.FirstName = s.FirstName
	m.LastName = s.LastName
	m.ClassName = s.ClassName
}
