package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/shared"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindOpen(ctx context.Context, schoolID *uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, schoolID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, inv *billing.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.Get(0).(string), args.Error(1)
}

// MockPaymentRepository is a mock implementation of billing.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter billing.PaymentFilter) ([]billing.Payment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedByInvoice(ctx context.Context, invoiceID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) SumCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, invoiceIDs)
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) FindCompletedByInvoiceIDs(ctx context.Context, invoiceIDs []uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, invoiceIDs)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockFeeStructureRepository is a mock implementation of billing.FeeStructureRepository
type MockFeeStructureRepository struct {
	mock.Mock
}

func (m *MockFeeStructureRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.FeeStructure, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]billing.FeeStructure, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]billing.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) FindAll(ctx context.Context, filter billing.FeeStructureFilter) ([]billing.FeeStructure, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.FeeStructure), args.Error(1)
}

func (m *MockFeeStructureRepository) Save(ctx context.Context, fs *billing.FeeStructure) error {
	args := m.Called(ctx, fs)
	return args.Error(0)
}

// MockStudentRepository is a mock implementation of enrollment.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Student, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]enrollment.Student, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]enrollment.Student), args.Error(1)
}

func (m *MockStudentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*enrollment.Student, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Student), args.Error(1)
}

// MockExpenseRepository is a mock implementation of billing.ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Expense), args.Error(1)
}

func (m *MockExpenseRepository) FindAll(ctx context.Context, filter billing.ExpenseFilter) ([]billing.Expense, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Expense), args.Error(1)
}

func (m *MockExpenseRepository) Save(ctx context.Context, e *billing.Expense) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// passthroughTx runs the transactional function directly on the caller's
// context, which is what the real manager does apart from the enclosing
// database transaction.
type passthroughTx struct{}

func (passthroughTx) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ shared.TransactionManager = passthroughTx{}

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestStudent(schoolID uuid.UUID) *enrollment.Student {
	return &enrollment.Student{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		UserID:              uuid.New(),
		AdmissionNumber:     "ADM-001",
		FirstName:           "Amina",
		LastName:            "Okafor",
		ClassName:           "Grade 5",
	}
}

func newTestInvoice(t testingT, schoolID, studentID, feeID uuid.UUID, amount, discount decimal.Decimal, dueDate time.Time) *billing.Invoice {
	invoice, err := billing.NewInvoice(schoolID, "INV-000001", studentID, feeID, amount, discount, time.Now(), dueDate)
	if err != nil {
		t.Fatalf("building test invoice: %v", err)
	}
	return invoice
}

type testingT interface {
	Fatalf(format string, args ...any)
}
