// Package pricing computes line item and document totals.
//
// All functions are pure and use plain float64 arithmetic. Malformed input
// (NaN, negative discounts larger than the gross) is not rejected: it flows
// through to the totals unchanged.
package pricing

import "github.com/garyjia/quotebook/internal/domain/entity"

// Totals are the aggregate amounts of a sequence of line items
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	TotalDiscount float64 `json:"totalDiscount"`
	TotalTax      float64 `json:"totalTax"`
	GrandTotal    float64 `json:"grandTotal"`
}

// ItemGross returns quantity * unit price
func ItemGross(item entity.LineItem) float64 {
	return item.Quantity * item.UnitPrice
}

// ItemDiscountAmount returns the discount in currency units.
// Amount discounts are returned verbatim, not clamped to the gross.
func ItemDiscountAmount(item entity.LineItem) float64 {
	if item.DiscountType == entity.DiscountPercentage {
		return ItemGross(item) * (item.Discount / 100)
	}
	return item.Discount
}

// ItemNet returns the gross minus the discount. May be negative.
func ItemNet(item entity.LineItem) float64 {
	return ItemGross(item) - ItemDiscountAmount(item)
}

// ItemTax returns the tax on the net amount
func ItemTax(item entity.LineItem) float64 {
	return ItemNet(item) * (item.TaxRate / 100)
}

// ItemRowTotal is the amount printed in a row's total column: the net,
// with tax added only at the document level.
func ItemRowTotal(item entity.LineItem) float64 {
	return ItemNet(item)
}

// Subtotal sums the gross of all items (before discount and tax)
func Subtotal(items []entity.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ItemGross(it)
	}
	return sum
}

// TotalDiscount sums the discount amounts of all items
func TotalDiscount(items []entity.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ItemDiscountAmount(it)
	}
	return sum
}

// TotalTax sums the tax of all items
func TotalTax(items []entity.LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ItemTax(it)
	}
	return sum
}

// GrandTotal is subtotal - total discount + total tax. Zero for no items.
func GrandTotal(items []entity.LineItem) float64 {
	return Subtotal(items) - TotalDiscount(items) + TotalTax(items)
}

// Summarize returns all aggregates. Every renderer goes through here so the
// printed figures match what the editor shows.
func Summarize(items []entity.LineItem) Totals {
	t := Totals{
		Subtotal:      Subtotal(items),
		TotalDiscount: TotalDiscount(items),
		TotalTax:      TotalTax(items),
	}
	t.GrandTotal = t.Subtotal - t.TotalDiscount + t.TotalTax
	return t
}

// HasDiscount reports whether any item carries a positive discount
func HasDiscount(items []entity.LineItem) bool {
	for _, it := range items {
		if it.Discount > 0 {
			return true
		}
	}
	return false
}
