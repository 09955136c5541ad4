package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// newTestDatabase opens an in-memory SQLite store with the billing schema.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	// A second pooled connection to :memory: would see a separate empty
	// database, so pin the pool to one.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gormDB.AutoMigrate(
		&models.StudentModel{},
		&models.FeeStructureModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.ExpenseModel{},
		&models.SequenceModel{},
	)
	require.NoError(t, err)

	db := NewDatabaseFromGorm(gormDB)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func seedStudent(t *testing.T, db *Database, schoolID uuid.UUID) *enrollment.Student {
	t.Helper()
	student := &enrollment.Student{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		UserID:              uuid.New(),
		AdmissionNumber:     "ADM-001",
		FirstName:           "Amina",
		LastName:            "Okafor",
		ClassName:           "Grade 5",
	}
	var model models.StudentModel
	model.FromDomain(student)
	require.NoError(t, db.DB.Create(&model).Error)
	return student
}

func seedFeeStructure(t *testing.T, db *Database, schoolID uuid.UUID, amount decimal.Decimal) *billing.FeeStructure {
	t.Helper()
	fs, err := billing.NewFeeStructure(
		schoolID, uuid.New(), "Term 1 Tuition", amount,
		billing.FeeTypeTuition, "Termly", nil, true, nil,
	)
	require.NoError(t, err)
	var model models.FeeStructureModel
	model.FromDomain(fs)
	require.NoError(t, db.DB.Create(&model).Error)
	return fs
}

func buildInvoice(t *testing.T, schoolID, studentID, feeID uuid.UUID, number string, amount decimal.Decimal, dueDate time.Time) *billing.Invoice {
	t.Helper()
	inv, err := billing.NewInvoice(schoolID, number, studentID, feeID, amount, decimal.Zero, time.Now(), dueDate)
	require.NoError(t, err)
	return inv
}

func buildPayment(t *testing.T, schoolID, invoiceID, studentID uuid.UUID, amount decimal.Decimal, status billing.PaymentStatus) *billing.Payment {
	t.Helper()
	p, err := billing.NewPayment(schoolID, invoiceID, studentID, "Cash", amount, "", status, nil)
	require.NoError(t, err)
	return p
}
