package services_test

import (
	"testing"

	"lunchroom/internal/core/domain/model/kernel"
	"lunchroom/internal/core/domain/model/menu"
	"lunchroom/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, s string) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoneyFromString(s)
	require.NoError(t, err)
	return m
}

// falafelWrap builds the catalog item used throughout: base $10.50 with a
// required SINGLE "Spice Level" group and an optional MULTI "Extras" group.
func falafelWrap(t *testing.T) (*menu.MenuItem, map[string]kernel.UUID) {
	t.Helper()
	ids := map[string]kernel.UUID{
		"item":     kernel.NewUUID(),
		"spice":    kernel.NewUUID(),
		"mild":     kernel.NewUUID(),
		"extraHot": kernel.NewUUID(),
		"extras":   kernel.NewUUID(),
		"avocado":  kernel.NewUUID(),
		"halloumi": kernel.NewUUID(),
	}

	mild, err := menu.NewVariationOption(ids["mild"], "Mild", mustMoney(t, "0.00"), true)
	require.NoError(t, err)
	extraHot, err := menu.NewVariationOption(ids["extraHot"], "Extra Hot", mustMoney(t, "0.00"), false)
	require.NoError(t, err)
	spice, err := menu.NewVariationGroup(ids["spice"], "Spice Level", menu.Single, true,
		[]menu.VariationOption{mild, extraHot})
	require.NoError(t, err)

	avocado, err := menu.NewVariationOption(ids["avocado"], "Avocado", mustMoney(t, "2.00"), false)
	require.NoError(t, err)
	halloumi, err := menu.NewVariationOption(ids["halloumi"], "Halloumi", mustMoney(t, "3.50"), false)
	require.NoError(t, err)
	extras, err := menu.NewVariationGroup(ids["extras"], "Extras", menu.Multi, false,
		[]menu.VariationOption{avocado, halloumi})
	require.NoError(t, err)

	item, err := menu.NewMenuItem(ids["item"], "Falafel Wrap", mustMoney(t, "10.50"),
		"Wraps", true, nil, []menu.VariationGroup{spice, extras})
	require.NoError(t, err)
	return item, ids
}

func TestPricer_UnitPrice_BaseOnly(t *testing.T) {
	item, _ := falafelWrap(t)

	price, snapshot, err := services.NewPricer().UnitPrice(item, nil)
	require.NoError(t, err)
	assert.Equal(t, "10.50", price.String())
	assert.Empty(t, snapshot)
}

func TestPricer_UnitPrice_WithModifiers(t *testing.T) {
	item, ids := falafelWrap(t)

	price, snapshot, err := services.NewPricer().UnitPrice(item, []services.Selection{
		{GroupID: ids["spice"], OptionIDs: []kernel.UUID{ids["extraHot"]}},
		{GroupID: ids["extras"], OptionIDs: []kernel.UUID{ids["avocado"]}},
	})
	require.NoError(t, err)

	// $10.50 base + $0.00 Extra Hot + $2.00 Avocado
	assert.Equal(t, "12.50", price.String())

	require.Len(t, snapshot, 2)
	assert.Equal(t, "Spice Level", snapshot[0].GroupName)
	assert.Equal(t, "Extra Hot", snapshot[0].OptionName)
	assert.Equal(t, "Extras", snapshot[1].GroupName)
	assert.Equal(t, "Avocado", snapshot[1].OptionName)
	assert.Equal(t, "2.00", snapshot[1].Modifier.String())
}

func TestPricer_UnitPrice_SkipsUnresolvedSelections(t *testing.T) {
	item, ids := falafelWrap(t)

	price, snapshot, err := services.NewPricer().UnitPrice(item, []services.Selection{
		{GroupID: kernel.NewUUID(), OptionIDs: []kernel.UUID{ids["avocado"]}}, // unknown group
		{GroupID: ids["extras"], OptionIDs: []kernel.UUID{kernel.NewUUID()}},  // unknown option
	})
	require.NoError(t, err)
	assert.Equal(t, "10.50", price.String())
	assert.Empty(t, snapshot)
}

func TestPricer_UnitPrice_RejectsNegativeResult(t *testing.T) {
	discountID := kernel.NewUUID()
	groupID := kernel.NewUUID()
	itemID := kernel.NewUUID()

	discount, err := menu.NewVariationOption(discountID, "Voucher", mustMoney(t, "-5.00"), false)
	require.NoError(t, err)
	group, err := menu.NewVariationGroup(groupID, "Promotions", menu.Multi, false,
		[]menu.VariationOption{discount})
	require.NoError(t, err)
	item, err := menu.NewMenuItem(itemID, "Side Salad", mustMoney(t, "4.00"),
		"Sides", true, nil, []menu.VariationGroup{group})
	require.NoError(t, err)

	_, _, err = services.NewPricer().UnitPrice(item, []services.Selection{
		{GroupID: groupID, OptionIDs: []kernel.UUID{discountID, discountID}},
	})
	require.Error(t, err)
}

func TestValidateSelections(t *testing.T) {
	t.Run("valid cart passes", func(t *testing.T) {
		item, ids := falafelWrap(t)
		err := services.ValidateSelections(item, []services.Selection{
			{GroupID: ids["spice"], OptionIDs: []kernel.UUID{ids["mild"]}},
		})
		require.NoError(t, err)
	})

	t.Run("missing required group is reported by name", func(t *testing.T) {
		item, _ := falafelWrap(t)
		err := services.ValidateSelections(item, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Spice Level")
	})

	t.Run("single group with two options is rejected", func(t *testing.T) {
		item, ids := falafelWrap(t)
		err := services.ValidateSelections(item, []services.Selection{
			{GroupID: ids["spice"], OptionIDs: []kernel.UUID{ids["mild"], ids["extraHot"]}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Spice Level")
	})

	t.Run("multi group accepts several options", func(t *testing.T) {
		item, ids := falafelWrap(t)
		err := services.ValidateSelections(item, []services.Selection{
			{GroupID: ids["spice"], OptionIDs: []kernel.UUID{ids["mild"]}},
			{GroupID: ids["extras"], OptionIDs: []kernel.UUID{ids["avocado"], ids["halloumi"]}},
		})
		require.NoError(t, err)
	})
}
