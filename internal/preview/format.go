package preview

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"quotebuilder/internal/domain/models"
)

// currencyPrefix is "R$" followed by a non-breaking space, as pt-BR locales print it
const currencyPrefix = "R$\u00a0"

const displayDateLayout = "02/01/2006"

// FormatCurrency renders an amount as Brazilian reais: R$ 1.234,56
func FormatCurrency(amount decimal.Decimal) string {
	amount = amount.Round(2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + currencyPrefix + humanize.FormatFloat("#.###,##", amount.InexactFloat64())
}

// FormatDate turns YYYY-MM-DD into DD/MM/YYYY. An empty date prints as an em
// dash and anything unparseable is shown as typed.
func FormatDate(value string) string {
	if value == "" {
		return "—"
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return value
	}
	return t.Format(displayDateLayout)
}
