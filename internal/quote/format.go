package quote

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// tomanPrinter groups digits for the shop's single locale.
var tomanPrinter = message.NewPrinter(language.Persian)

// FormatToman renders a monetary total with digit grouping and the currency
// suffix. Values arrive pre-rounded from the service.
func FormatToman(v float64) string {
	return tomanPrinter.Sprintf("%.0f تومان", v)
}

// FormatDuration renders minutes as an hours+minutes string for aggregate
// display ("2h 30m"; under an hour just "45m").
func FormatDuration(minutes float64) string {
	if minutes <= 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return "0m"
	}
	total := int(math.Round(minutes))
	h := total / 60
	m := total % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// AggregateGrams scales a per-unit mass by the displayed quantity. Display
// only: aggregates are never sent to the pricing call.
func AggregateGrams(perUnit float64, qty int) float64 {
	if qty < 1 {
		qty = 1
	}
	return perUnit * float64(qty)
}

// AggregateMinutes scales a per-unit duration by the displayed quantity.
func AggregateMinutes(perUnit float64, qty int) float64 {
	if qty < 1 {
		qty = 1
	}
	return perUnit * float64(qty)
}
