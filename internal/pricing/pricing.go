// Package pricing выполняет пересчёт цен в валюту отображения и применение скидки.
package pricing

import (
	"fmt"
	"math"
)

// Currency — код валюты отображения.
type Currency string

// Поддерживаемые валюты. Базовая валюта каталога — USD.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CNY Currency = "CNY"
	PHP Currency = "PHP"
)

var exchangeRates = map[Currency]float64{
	USD: 1,
	EUR: 0.92,
	GBP: 0.79,
	JPY: 149.50,
	CNY: 7.24,
	PHP: 56.50,
}

var currencySymbols = map[Currency]string{
	USD: "$",
	EUR: "€",
	GBP: "£",
	JPY: "¥",
	CNY: "¥",
	PHP: "₱",
}

// Валюты, отображаемые без дробной части.
var zeroDecimal = map[Currency]bool{
	JPY: true,
	CNY: true,
	PHP: true,
}

// ParseCurrency проверяет код валюты, пришедший с внешней границы.
// Пустой код трактуется как базовая валюта.
func ParseCurrency(code string) (Currency, error) {
	if code == "" {
		return USD, nil
	}
	c := Currency(code)
	if _, ok := exchangeRates[c]; !ok {
		return "", fmt.Errorf("unsupported currency %q", code)
	}
	return c, nil
}

// Convert пересчитывает цену из базовой валюты в указанную и форматирует её
// с символом валюты. Для валют без дробной части сумма округляется до целого,
// остальные отображаются с двумя знаками после запятой.
func Convert(priceUSD float64, currency Currency) string {
	converted := priceUSD * exchangeRates[currency]
	symbol := currencySymbols[currency]

	if zeroDecimal[currency] {
		return fmt.Sprintf("%s%d", symbol, int(math.Round(converted)))
	}
	return fmt.Sprintf("%s%.2f", symbol, converted)
}

// Symbol возвращает символ валюты.
func Symbol(currency Currency) string {
	return currencySymbols[currency]
}

// ApplyDiscount применяет долю скидки к цене. Доля должна лежать в [0, 1].
func ApplyDiscount(price, fraction float64) float64 {
	return price * (1 - fraction)
}
