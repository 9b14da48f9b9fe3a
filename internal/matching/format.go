package matching

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var spanish = message.NewPrinter(language.Spanish)

// FormatAmount renders an amount the way the product copy shows money:
// "9500,00 €", "12.000,00 €". es-ES only groups thousands from five integer
// digits up.
func FormatAmount(amount float64, currency string) string {
	symbol := currency
	if currency == "" || currency == DefaultCurrency {
		symbol = "€"
	}

	rounded := math.Round(amount*100) / 100
	if math.Abs(rounded) < 10000 {
		return strings.Replace(strconv.FormatFloat(rounded, 'f', 2, 64), ".", ",", 1) + " " + symbol
	}
	return spanish.Sprintf("%.2f %s", rounded, symbol)
}
