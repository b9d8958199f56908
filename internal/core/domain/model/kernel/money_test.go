package kernel_test

import (
	"testing"

	"lunchroom/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Arithmetic(t *testing.T) {
	base, err := kernel.NewMoneyFromString("10.50")
	require.NoError(t, err)
	extra, err := kernel.NewMoneyFromString("2.00")
	require.NoError(t, err)

	unit := base.Add(extra)
	assert.Equal(t, "12.50", unit.String())

	line := unit.Mul(2)
	assert.Equal(t, "25.00", line.String())
	assert.Equal(t, int64(2500), line.Cents())
}

func TestMoney_NegativeModifier(t *testing.T) {
	base, _ := kernel.NewMoneyFromString("8.00")
	discount, _ := kernel.NewMoneyFromString("-1.50")

	result := base.Add(discount)
	assert.Equal(t, "6.50", result.String())
	assert.False(t, result.IsNegative())

	overDiscount, _ := kernel.NewMoneyFromString("-10.00")
	assert.True(t, base.Add(overDiscount).IsNegative())
}

func TestMoney_Round2(t *testing.T) {
	// Three items at a third of a dollar only round once, at the total.
	third, err := kernel.NewMoneyFromString("0.335")
	require.NoError(t, err)

	total := third.Mul(3).Round2()
	assert.Equal(t, "1.01", total.String())
}

func TestMoney_ParseRejectsGarbage(t *testing.T) {
	_, err := kernel.NewMoneyFromString("ten dollars")
	require.Error(t, err)
}

func TestMoney_Equality(t *testing.T) {
	a, _ := kernel.NewMoneyFromString("12.50")
	b, _ := kernel.NewMoneyFromString("12.5")
	assert.True(t, a.IsEqual(b))
}
