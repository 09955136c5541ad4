package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/campusledger/backend/internal/domain/billing"
)

// FeeStructureModel is the persistence model for the FeeStructure aggregate.
type FeeStructureModel struct {
	SchoolAggregateModel
	YearID            uuid.UUID                 `gorm:"type:uuid;not null;index"`
	FeeName           string                    `gorm:"type:varchar(200);not null"`
	Amount            decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	FeeType           billing.FeeType           `gorm:"type:varchar(50);not null;index"`
	PaymentSchedule   string                    `gorm:"type:varchar(50)"`
	DueDate           *time.Time                `gorm:"index"`
	IsMandatory       bool                      `gorm:"not null;default:false"`
	ApplicableClasses billing.ApplicableClasses `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (FeeStructureModel) TableName() string {
	return "fee_structures"
}

// ToDomain converts the persistence model to a domain FeeStructure
func (m *FeeStructureModel) ToDomain() *billing.FeeStructure {
	return &billing.FeeStructure{
		SchoolAggregateRoot: m.SchoolAggregateModel.ToDomain(),
		YearID:              m.YearID,
		FeeName:             m.FeeName,
		Amount:              m.Amount,
		FeeType:             m.FeeType,
		PaymentSchedule:     m.PaymentSchedule,
		DueDate:             m.DueDate,
		IsMandatory:         m.IsMandatory,
		ApplicableClasses:   m.ApplicableClasses,
	}
}

// FromDomain populates the persistence model from a domain FeeStructure
func (m *FeeStructureModel) FromDomain(fs *billing.FeeStructure) {
	m.SchoolAggregateModel.FromDomain(fs.SchoolAggregateRoot)
	m.YearID = fs.YearID
	m.FeeName = fs.FeeName
	m.Amount = fs.Amount
	m.FeeType = fs.FeeType
	m.PaymentSchedule = fs.PaymentSchedule
	m.DueDate = fs.DueDate
	m.IsMandatory = fs.IsMandatory
	m.ApplicableClasses = fs.ApplicableClasses
}

// InvoiceModel is the persistence model for the Invoice aggregate.
type InvoiceModel struct {
	SchoolAggregateModel
	InvoiceNumber string                `gorm:"type:varchar(20);not null;uniqueIndex"`
	StudentID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	FeeID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Discount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalAmount   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	IssueDate     time.Time             `gorm:"not null;index"`
	DueDate       time.Time             `gorm:"not null;index"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		SchoolAggregateRoot: m.SchoolAggregateModel.ToDomain(),
		InvoiceNumber:       m.InvoiceNumber,
		StudentID:           m.StudentID,
		FeeID:               m.FeeID,
		Amount:              m.Amount,
		Discount:            m.Discount,
		TotalAmount:         m.TotalAmount,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		Status:              m.Status,
		PaidAt:              m.PaidAt,
	}
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.SchoolAggregateModel.FromDomain(inv.SchoolAggregateRoot)
	m.InvoiceNumber = inv.InvoiceNumber
	m.StudentID = inv.StudentID
	m.FeeID = inv.FeeID
	m.Amount = inv.Amount
	m.Discount = inv.Discount
	m.TotalAmount = inv.TotalAmount
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.Status = inv.Status
	m.PaidAt = inv.PaidAt
}

// PaymentModel is the persistence model for the Payment aggregate.
type PaymentModel struct {
	SchoolAggregateModel
	InvoiceID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	StudentID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	PaymentMethod  string                `gorm:"type:varchar(50);not null"`
	Amount         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TransactionID  string                `gorm:"type:varchar(100)"`
	Status         billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'Completed';index"`
	ProcessedBy    *uuid.UUID            `gorm:"type:uuid"`
	PaymentDate    time.Time             `gorm:"not null;index"`
	Notes          string                `gorm:"type:text"`
	GatewayPayload string                `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		SchoolAggregateRoot: m.SchoolAggregateModel.ToDomain(),
		InvoiceID:           m.InvoiceID,
		StudentID:           m.StudentID,
		PaymentMethod:       m.PaymentMethod,
		Amount:              m.Amount,
		TransactionID:       m.TransactionID,
		Status:              m.Status,
		ProcessedBy:         m.ProcessedBy,
		PaymentDate:         m.PaymentDate,
		Notes:               m.Notes,
		GatewayPayload:      m.GatewayPayload,
	}
}

// FromDomain populates the persistence model from a domain Payment
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.SchoolAggregateModel.FromDomain(p.SchoolAggregateRoot)
	m.InvoiceID = p.InvoiceID
	m.StudentID = p.StudentID
	m.PaymentMethod = p.PaymentMethod
	m.Amount = p.Amount
	m.TransactionID = p.TransactionID
	m.Status = p.Status
	m.ProcessedBy = p.ProcessedBy
	m.PaymentDate = p.PaymentDate
	m.Notes = p.Notes
	m.GatewayPayload = p.GatewayPayload
}

// ExpenseModel is the persistence model for the Expense aggregate.
type ExpenseModel struct {
	SchoolAggregateModel
	Category    string          `gorm:"type:varchar(100);not null;index"`
	Description string          `gorm:"type:text"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExpenseDate time.Time       `gorm:"not null;index"`
	ApprovedBy  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *billing.Expense {
	return &billing.Expense{
		SchoolAggregateRoot: m.SchoolAggregateModel.ToDomain(),
		Category:            m.Category,
		Description:         m.Description,
		Amount:              m.Amount,
		ExpenseDate:         m.ExpenseDate,
		ApprovedBy:          m.ApprovedBy,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *billing.Expense) {
	m.SchoolAggregateModel.FromDomain(e.SchoolAggregateRoot)
	m.Category = e.Category
	m.Description = e.Description
	m.Amount = e.Amount
	m.ExpenseDate = e.ExpenseDate
	m.ApprovedBy = e.ApprovedBy
}

// SequenceModel backs the atomic display-code counters. Each named row is
// incremented inside the allocating transaction, serializing writers.
type SequenceModel struct {
	Name  string `gorm:"type:varchar(50);primary_key"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SequenceModel) TableName() string {
	return "sequences"
}
