package shared

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Claims are billed in rand; the prefix is fixed policy, not configuration.
const currencyPrefix = "R"

var moneyPrinter = message.NewPrinter(language.English)

// FormatAmount renders a monetary value as "R 1,234.56".
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprintf("%s %.2f", currencyPrefix, f)
}

// FormatQuantity renders hours and other non-monetary quantities with two decimals.
func FormatQuantity(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return moneyPrinter.Sprintf("%.2f", f)
}
