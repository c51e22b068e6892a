package checkout

import "strings"

// Method — способ оплаты.
type Method string

// Поддерживаемые способы оплаты.
const (
	MethodCard    Method = "card"
	MethodEWallet Method = "ewallet"
	MethodMobile  Method = "mobile"
)

// DefaultEWallet — электронный кошелёк, выбранный по умолчанию.
const DefaultEWallet = "gcash"

// EWallets — поддерживаемые провайдеры электронных кошельков.
var EWallets = []string{"gcash", "paymaya", "coinsph", "paytm", "alipay"}

// MethodDetails — данные, специфичные для способа оплаты. Сеанс хранит
// по одному варианту на способ и показывает только активный.
type MethodDetails interface {
	Method() Method
	ready() bool
}

// CardDetails — реквизиты банковской карты. Поля записываются, но не
// проверяются: симулируемый шлюз их не использует. CVV принимается на вход,
// но наружу никогда не отдаётся.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv,omitempty"`
	Holder string `json:"holder"`
}

// Method возвращает способ оплаты варианта.
func (CardDetails) Method() Method { return MethodCard }

func (CardDetails) ready() bool { return true }

// EWalletDetails — выбранный провайдер электронного кошелька.
type EWalletDetails struct {
	Provider string `json:"provider"`
}

// Method возвращает способ оплаты варианта.
func (EWalletDetails) Method() Method { return MethodEWallet }

func (d EWalletDetails) ready() bool { return d.Provider != "" }

// MobileDetails — данные мобильного платежа.
type MobileDetails struct {
	Phone string `json:"phone"`
}

// Method возвращает способ оплаты варианта.
func (MobileDetails) Method() Method { return MethodMobile }

func (d MobileDetails) ready() bool { return strings.TrimSpace(d.Phone) != "" }

func validEWallet(provider string) bool {
	for _, w := range EWallets {
		if w == provider {
			return true
		}
	}
	return false
}
