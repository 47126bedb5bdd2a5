package currency

import (
	"math"

	"github.com/Rhymond/go-money"
)

// Format renders an amount as a localized currency string ("$1,234.50",
// "€12,00"). Display formatting only; engines always work on raw floats.
func Format(amount float64, code string) string {
	fraction := 2
	if cur := money.GetCurrency(code); cur != nil {
		fraction = cur.Fraction
	}
	minor := int64(math.Round(amount * math.Pow10(fraction)))
	return money.New(minor, code).Display()
}

// FormatUSD renders an amount as a USD string.
func FormatUSD(amount float64) string {
	return Format(amount, "USD")
}
