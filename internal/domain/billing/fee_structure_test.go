package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFeeStructure(t *testing.T) *FeeStructure {
	t.Helper()
	due := time.Now().AddDate(0, 3, 0)
	fs, err := NewFeeStructure(
		uuid.New(), uuid.New(), "Term 1 Tuition",
		decimal.RequireFromString("500.00"),
		FeeTypeTuition, "Termly", &due, true,
		ApplicableClasses{"P1", "P2"},
	)
	require.NoError(t, err)
	return fs
}

func TestNewFeeStructure(t *testing.T) {
	t.Run("creates fee structure", func(t *testing.T) {
		fs := newTestFeeStructure(t)

		assert.Equal(t, FeeTypeTuition, fs.FeeType)
		assert.True(t, fs.IsMandatory)
		assert.True(t, fs.ApplicableClasses.Contains("P1"))
		assert.False(t, fs.ApplicableClasses.Contains("P7"))
	})

	t.Run("allows a zero amount but not a negative one", func(t *testing.T) {
		_, err := NewFeeStructure(uuid.New(), uuid.New(), "Waived fee",
			decimal.Zero, FeeTypeOther, "", nil, false, nil)
		assert.NoError(t, err)

		_, err = NewFeeStructure(uuid.New(), uuid.New(), "Bad fee",
			decimal.RequireFromString("-1"), FeeTypeOther, "", nil, false, nil)
		assert.Error(t, err)
	})

	t.Run("requires name and type", func(t *testing.T) {
		_, err := NewFeeStructure(uuid.New(), uuid.New(), "",
			decimal.Zero, FeeTypeOther, "", nil, false, nil)
		assert.Error(t, err)

		_, err = NewFeeStructure(uuid.New(), uuid.New(), "Fee",
			decimal.Zero, FeeType(""), "", nil, false, nil)
		assert.Error(t, err)
	})

	t.Run("empty class set applies to every class", func(t *testing.T) {
		fs, err := NewFeeStructure(uuid.New(), uuid.New(), "School-wide levy",
			decimal.RequireFromString("20.00"), FeeTypeOther, "Annual", nil, true, nil)

		require.NoError(t, err)
		assert.True(t, fs.ApplicableClasses.Contains("S4"))
	})
}

func TestFeeStructure_Apply(t *testing.T) {
	t.Run("updates only the provided fields", func(t *testing.T) {
		fs := newTestFeeStructure(t)
		newAmount := decimal.RequireFromString("650.00")
		name := "Term 1 Tuition (revised)"

		err := fs.Apply(FeeStructureUpdate{FeeName: &name, Amount: &newAmount})

		require.NoError(t, err)
		assert.Equal(t, name, fs.FeeName)
		assert.True(t, fs.Amount.Equal(newAmount))
		assert.Equal(t, FeeTypeTuition, fs.FeeType)
		assert.Equal(t, 2, fs.GetVersion())
	})

	t.Run("rejects invalid partial values", func(t *testing.T) {
		fs := newTestFeeStructure(t)
		empty := ""
		negative := decimal.RequireFromString("-5")

		assert.Error(t, fs.Apply(FeeStructureUpdate{FeeName: &empty}))
		assert.Error(t, fs.Apply(FeeStructureUpdate{Amount: &negative}))
	})
}

func TestApplicableClasses_Scan(t *testing.T) {
	var a ApplicableClasses
	require.NoError(t, a.Scan([]byte(`["P1","P3"]`)))
	assert.Equal(t, ApplicableClasses{"P1", "P3"}, a)

	var empty ApplicableClasses
	require.NoError(t, empty.Scan(nil))
	assert.Empty(t, empty)

	v, err := ApplicableClasses(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}
