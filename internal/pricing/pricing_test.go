package pricing

import (
	"strconv"
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		currency Currency
		want     string
	}{
		{name: "USD keeps price", price: 9.99, currency: USD, want: "$9.99"},
		{name: "USD two decimals", price: 10, currency: USD, want: "$10.00"},
		{name: "EUR rate applied", price: 10, currency: EUR, want: "€9.20"},
		{name: "GBP rate applied", price: 10, currency: GBP, want: "£7.90"},
		{name: "JPY rounds to integer", price: 10, currency: JPY, want: "¥1495"},
		{name: "CNY rounds to integer", price: 9.99, currency: CNY, want: "¥72"},
		{name: "PHP rounds to integer", price: 9.99, currency: PHP, want: "₱564"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Convert(tt.price, tt.currency); got != tt.want {
				t.Fatalf("Convert(%v, %s) = %q, want %q", tt.price, tt.currency, got, tt.want)
			}
		})
	}
}

func numericValue(t *testing.T, display string, currency Currency) float64 {
	t.Helper()
	stripped := strings.TrimPrefix(display, Symbol(currency))
	v, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		t.Fatalf("parse %q: %v", display, err)
	}
	return v
}

func TestConvertMonotonic(t *testing.T) {
	currencies := []Currency{USD, EUR, GBP, JPY, CNY, PHP}
	prices := []float64{0.99, 1.99, 4.99, 9.99, 19.99, 49.99, 99.99}

	for _, cur := range currencies {
		for i := 1; i < len(prices); i++ {
			lo := numericValue(t, Convert(prices[i-1], cur), cur)
			hi := numericValue(t, Convert(prices[i], cur), cur)
			if lo > hi {
				t.Fatalf("%s: convert(%v)=%v > convert(%v)=%v", cur, prices[i-1], lo, prices[i], hi)
			}
		}
	}
}

func TestApplyDiscount(t *testing.T) {
	prices := []float64{0, 0.99, 9.99, 49.99, 100}

	for _, p := range prices {
		if got := ApplyDiscount(p, 0); got != p {
			t.Fatalf("ApplyDiscount(%v, 0) = %v, want %v", p, got, p)
		}
		if got, want := ApplyDiscount(p, 0.2), p*0.8; got != want {
			t.Fatalf("ApplyDiscount(%v, 0.2) = %v, want %v", p, got, want)
		}
		if got := ApplyDiscount(p, 1); got != 0 {
			t.Fatalf("ApplyDiscount(%v, 1) = %v, want 0", p, got)
		}
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		code    string
		want    Currency
		wantErr bool
	}{
		{code: "", want: USD},
		{code: "USD", want: USD},
		{code: "PHP", want: PHP},
		{code: "RUB", wantErr: true},
		{code: "usd", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCurrency(tt.code)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseCurrency(%q): expected error", tt.code)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseCurrency(%q): %v", tt.code, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCurrency(%q) = %s, want %s", tt.code, got, tt.want)
		}
	}
}
