package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campusledger/backend/internal/domain/billing"
	"github.com/campusledger/backend/internal/domain/enrollment"
	"github.com/campusledger/backend/internal/domain/identity"
	"github.com/campusledger/backend/internal/domain/shared"
	"github.com/campusledger/backend/internal/infrastructure/persistence"
	"github.com/campusledger/backend/internal/infrastructure/persistence/models"
)

// openLedgerStore backs the service with a real SQLite store so settlement
// runs through actual transactions instead of mocked repositories. A single
// pooled connection keeps the in-memory store shared between goroutines.
func openLedgerStore(t *testing.T) *persistence.Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = gormDB.AutoMigrate(
		&models.StudentModel{},
		&models.FeeStructureModel{},
		&models.InvoiceModel{},
		&models.PaymentModel{},
		&models.SequenceModel{},
	)
	require.NoError(t, err)

	db := persistence.NewDatabaseFromGorm(gormDB)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// Two near-ceiling payments racing for the same invoice: at most one may
// commit. The loser either trips the invoice version check and retries
// against the reduced balance, or reads the reduced balance outright; both
// paths end in the ceiling rejection.
func TestPaymentService_Create_ConcurrentPaymentsCannotOverdraw(t *testing.T) {
	db := openLedgerStore(t)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	studentRepo := persistence.NewGormStudentRepository(db)
	svc := NewPaymentService(invoiceRepo, paymentRepo, studentRepo, identity.NewRoleAuthorizer(), db)
	ctx := context.Background()

	schoolID := uuid.New()
	student := &enrollment.Student{
		SchoolAggregateRoot: shared.NewSchoolAggregateRoot(schoolID),
		UserID:              uuid.New(),
		AdmissionNumber:     "ADM-014",
		FirstName:           "Kwame",
		LastName:            "Mensah",
		ClassName:           "Grade 6",
	}
	var studentModel models.StudentModel
	studentModel.FromDomain(student)
	require.NoError(t, db.DB.Create(&studentModel).Error)

	inv, err := billing.NewInvoice(schoolID, "INV-000100", student.ID, uuid.New(),
		decimal.NewFromInt(250), decimal.Zero, time.Now(), time.Now().AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, invoiceRepo.Save(ctx, inv))

	actor := identity.Actor{UserID: uuid.New(), SchoolID: schoolID, Role: identity.RoleAdmin}
	req := CreatePaymentRequest{
		InvoiceID:     inv.ID,
		PaymentMethod: "Cash",
		Amount:        decimal.NewFromInt(200),
		Status:        billing.PaymentStatusCompleted,
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, actor, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EXCEEDS_BALANCE", domainErr.Code)
	}
	require.Equal(t, 1, succeeded)

	settled, err := invoiceRepo.FindByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartial, settled.Status)

	paid, err := paymentRepo.SumCompletedByInvoice(ctx, settled.ID)
	require.NoError(t, err)
	assert.True(t, paid.Equal(decimal.NewFromInt(200)), "paid %s", paid)
	assert.True(t, settled.Balance(paid).Equal(decimal.NewFromInt(50)))
}
