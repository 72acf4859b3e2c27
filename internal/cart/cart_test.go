package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func price(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAddItemMergesByDerivedIdentity(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 10, UnitPrice: price("25.00"), Quantity: 1, Image: "x", Name: "Shirt"})
	c.AddItem(LineItemInput{ProductID: 10, UnitPrice: price("25.00"), Quantity: 2, Image: "x", Name: "Shirt"})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.True(t, c.Total().Equal(price("75.00")), "total = %s", c.Total())
}

func TestAddItemClampsToStockCeiling(t *testing.T) {
	t.Parallel()

	c := New()
	input := LineItemInput{
		ProductID:   5,
		VariationID: intPtr(99),
		Attributes:  map[string]string{"Size": "M", "Color": "Blue"},
		UnitPrice:   price("40"),
		Quantity:    1,
		MaxQuantity: intPtr(2),
	}
	c.AddItem(input)
	c.AddItem(input)
	c.AddItem(input)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity, "cumulative quantity must clamp to max")
}

func TestAddItemCollapsesAttributeOrderVariants(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 7, Attributes: map[string]string{"Color": "Red", "Size": "L"}, UnitPrice: price("10"), Quantity: 1})
	c.AddItem(LineItemInput{ProductID: 7, Attributes: map[string]string{"Size": "L", "Color": "Red"}, UnitPrice: price("10"), Quantity: 1})

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddItemKeepsDistinctVariantsSeparate(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 7, Attributes: map[string]string{"Size": "L"}, UnitPrice: price("10"), Quantity: 1})
	c.AddItem(LineItemInput{ProductID: 7, Attributes: map[string]string{"Size": "M"}, UnitPrice: price("10"), Quantity: 1})
	c.AddItem(LineItemInput{ProductID: 7, VariationID: intPtr(3), UnitPrice: price("10"), Quantity: 1})

	assert.Len(t, c.Items(), 3)
}

func TestAddItemClampsNonPositiveQuantityToOne(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 0})
	c.AddItem(LineItemInput{ProductID: 2, UnitPrice: price("5"), Quantity: -4})

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestAddItemOpensCart(t *testing.T) {
	t.Parallel()

	c := New()
	require.False(t, c.Open())
	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	assert.True(t, c.Open())

	c.SetOpen(false)
	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	assert.True(t, c.Open(), "every add re-opens the cart")
}

func TestUpdateQuantityZeroOrNegativeRemoves(t *testing.T) {
	t.Parallel()

	for _, quantity := range []int{0, -5} {
		c := New()
		c.AddItem(LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 3})
		id := c.Items()[0].ID

		before := c.ItemCount()
		c.UpdateQuantity(id, quantity)

		assert.Empty(t, c.Items())
		assert.Equal(t, 0, c.ItemCount())
		assert.Equal(t, 3, before-c.ItemCount())
	}
}

func TestUpdateQuantityClampsAndSets(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 1, MaxQuantity: intPtr(4)})
	id := c.Items()[0].ID

	c.UpdateQuantity(id, 3)
	assert.Equal(t, 3, c.Items()[0].Quantity)

	c.UpdateQuantity(id, 9)
	assert.Equal(t, 4, c.Items()[0].Quantity, "quantity must clamp to max")
}

func TestUpdateQuantityAbsentIDIsNoop(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 10, UnitPrice: price("25"), Quantity: 1})
	c.UpdateQuantity("nope", 5)
	c.RemoveItem("nope")

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 2})
	c.AddItem(LineItemInput{ProductID: 2, UnitPrice: price("7"), Quantity: 1})

	c.Clear()

	assert.Empty(t, c.Items())
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())
}

func TestTotalsAreRecomputedFromItems(t *testing.T) {
	t.Parallel()

	c := New()
	assert.True(t, c.Total().IsZero())
	assert.Equal(t, 0, c.ItemCount())

	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("19.99"), Quantity: 2})
	c.AddItem(LineItemInput{ProductID: 2, UnitPrice: price("0.01"), Quantity: 3})

	// Recompute the expected total straight from the items.
	expected := decimal.Zero
	count := 0
	for _, item := range c.Items() {
		expected = expected.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}

	assert.True(t, c.Total().Equal(expected), "total %s != %s", c.Total(), expected)
	assert.Equal(t, count, c.ItemCount())

	id := c.Items()[0].ID
	c.UpdateQuantity(id, 1)
	assert.True(t, c.Total().Equal(price("20.02")), "total after update = %s", c.Total())
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	t.Parallel()

	c := New()
	var seen []Change
	c.Subscribe(func(ch Change) { seen = append(seen, ch) })

	c.AddItem(LineItemInput{ProductID: 1, UnitPrice: price("5"), Quantity: 1})
	id := c.Items()[0].ID
	c.UpdateQuantity(id, 2)
	c.RemoveItem(id)
	c.Clear()

	require.Len(t, seen, 4)
	assert.Equal(t, OpAdd, seen[0].Op)
	assert.Equal(t, OpUpdate, seen[1].Op)
	assert.Equal(t, OpRemove, seen[2].Op)
	assert.Equal(t, OpClear, seen[3].Op)
	assert.Equal(t, id, seen[1].ItemID)
}

func TestItemsReturnsDefensiveCopies(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(LineItemInput{ProductID: 1, Attributes: map[string]string{"Size": "M"}, UnitPrice: price("5"), Quantity: 1, MaxQuantity: intPtr(5)})

	items := c.Items()
	items[0].Attributes["Size"] = "XL"
	*items[0].MaxQuantity = 1
	items[0].Quantity = 99

	got := c.Items()[0]
	assert.Equal(t, "M", got.Attributes["Size"])
	assert.Equal(t, 5, *got.MaxQuantity)
	assert.Equal(t, 1, got.Quantity)
}
