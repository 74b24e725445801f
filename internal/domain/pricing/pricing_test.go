package pricing

import (
	"math"
	"testing"

	"github.com/garyjia/quotebook/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func item(qty, price, tax, discount float64, dt entity.DiscountType) entity.LineItem {
	return entity.LineItem{Quantity: qty, UnitPrice: price, TaxRate: tax, Discount: discount, DiscountType: dt}
}

func TestItemDiscountAmount(t *testing.T) {
	tests := []struct {
		name string
		item entity.LineItem
		want float64
	}{
		{"percentage of gross", item(2, 100, 0, 10, entity.DiscountPercentage), 20},
		{"absolute amount", item(2, 100, 0, 20, entity.DiscountAmount), 20},
		{"amount larger than gross is kept", item(1, 10, 0, 50, entity.DiscountAmount), 50},
		{"empty discount type is an amount", item(1, 10, 0, 3, ""), 3},
		{"zero discount", item(3, 50, 10, 0, entity.DiscountAmount), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ItemDiscountAmount(tt.item))
		})
	}
}

func TestItemNetAndTax(t *testing.T) {
	it := item(4, 25, 10, 10, entity.DiscountPercentage)

	assert.Equal(t, 90.0, ItemNet(it))
	assert.InDelta(t, 9.0, ItemTax(it), 1e-9)
	assert.Equal(t, ItemNet(it), ItemRowTotal(it))
}

func TestItemNet_NegativeWhenDiscountExceedsGross(t *testing.T) {
	it := item(1, 10, 10, 15, entity.DiscountAmount)

	assert.Equal(t, -5.0, ItemNet(it))
	assert.InDelta(t, -0.5, ItemTax(it), 1e-9)
}

func TestTotals_SingleItemScenario(t *testing.T) {
	items := []entity.LineItem{item(3, 50, 10, 0, entity.DiscountAmount)}

	assert.Equal(t, 150.0, Subtotal(items))
	assert.Equal(t, 0.0, TotalDiscount(items))
	assert.Equal(t, 15.0, TotalTax(items))
	assert.Equal(t, 165.0, GrandTotal(items))
}

func TestTotals_EmptyItems(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
	assert.Equal(t, 0.0, TotalDiscount(nil))
	assert.Equal(t, 0.0, TotalTax(nil))
	assert.Equal(t, 0.0, GrandTotal(nil))
	assert.Equal(t, Totals{}, Summarize([]entity.LineItem{}))
}

func TestGrandTotal_Identity(t *testing.T) {
	sets := [][]entity.LineItem{
		{item(1, 1000, 10, 5, entity.DiscountPercentage)},
		{item(2, 99.99, 8.875, 0, entity.DiscountAmount), item(10, 3.5, 0, 2, entity.DiscountAmount)},
		{item(1, 10, 10, 25, entity.DiscountAmount), item(5, 20, 20, 50, entity.DiscountPercentage)},
	}

	for _, items := range sets {
		want := Subtotal(items) - TotalDiscount(items) + TotalTax(items)
		assert.Equal(t, want, GrandTotal(items))

		sum := Summarize(items)
		assert.Equal(t, want, sum.GrandTotal)
		assert.Equal(t, Subtotal(items), sum.Subtotal)
	}
}

func TestGrandTotal_MatchesPerRowNetPlusTax(t *testing.T) {
	items := []entity.LineItem{
		item(2, 100, 10, 10, entity.DiscountPercentage),
		item(1, 40, 5, 4, entity.DiscountAmount),
	}

	var rows float64
	for _, it := range items {
		rows += ItemRowTotal(it) + ItemTax(it)
	}

	assert.InDelta(t, rows, GrandTotal(items), 1e-9)
}

func TestTotals_NaNPropagates(t *testing.T) {
	items := []entity.LineItem{item(math.NaN(), 10, 10, 0, entity.DiscountAmount)}

	assert.True(t, math.IsNaN(GrandTotal(items)))
	assert.True(t, math.IsNaN(Summarize(items).GrandTotal))
}

func TestHasDiscount(t *testing.T) {
	assert.False(t, HasDiscount([]entity.LineItem{item(1, 1, 0, 0, entity.DiscountAmount)}))
	assert.True(t, HasDiscount([]entity.LineItem{item(1, 1, 0, 0, ""), item(1, 1, 0, 1, entity.DiscountPercentage)}))
}
