// Package checkout реализует пошаговый мастер оплаты пополнения:
// сбор данных получателя, выбор способа оплаты, применение ваучера,
// симулированную обработку платежа и начисление кредитов при успехе.
package checkout

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/topup-system/internal/model"
	"github.com/mmeshcher/topup-system/internal/pricing"
	"github.com/mmeshcher/topup-system/internal/validation"
)

// Step — шаг мастера оплаты.
type Step string

// Шаги мастера в прямом порядке. Обработка платежа — не отдельный шаг,
// а флаг поверх текущего.
const (
	StepGameInfo Step = "gameInfo"
	StepMethod   Step = "method"
	StepEmail    Step = "email"
	StepDetails  Step = "details"
	StepSuccess  Step = "success"
	StepFail     Step = "fail"
)

// VoucherDiscount — фиксированная доля скидки по непустому коду ваучера.
const VoucherDiscount = 0.2

const celebrationWindow = 3 * time.Second

// ErrSessionNotFound возвращается, если сеанс оплаты не найден.
var (
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrPaymentInProgress возвращается при попытке изменить сеанс во время обработки платежа.
	ErrPaymentInProgress = errors.New("payment already in progress")
	// ErrStepNotReady возвращается, если обязательные поля текущего шага не заполнены.
	ErrStepNotReady = errors.New("step requirements not met")
	// ErrInvalidStep возвращается, если действие недопустимо на текущем шаге.
	ErrInvalidStep = errors.New("action not allowed at current step")
	// ErrUnknownMethod возвращается при выборе неизвестного способа оплаты.
	ErrUnknownMethod = errors.New("unknown payment method")
	// ErrUnknownEWallet возвращается при выборе неизвестного провайдера кошелька.
	ErrUnknownEWallet = errors.New("unknown e-wallet provider")
)

// CreditSink описывает приёмник кредитов, начисляемых при успешной оплате.
type CreditSink interface {
	AddCredits(ctx context.Context, amount int) error
}

// Session — переходное состояние одной попытки покупки. Каталожные данные
// сеанс держит по ссылке и никогда не изменяет.
type Session struct {
	mu sync.Mutex

	id   string
	game *model.Game
	pkg  *model.TopUpPackage

	step   Step
	method Method

	playerID string
	server   string
	username string
	email    string

	voucherCode string
	discount    float64

	card    CardDetails
	ewallet EWalletDetails
	mobile  MobileDetails

	processing     bool
	success        bool
	celebrateUntil time.Time

	// generation растёт при каждом сбросе; результат таймера с прежним
	// поколением отбрасывается и не может изменить сброшенный сеанс.
	generation uint64

	accounts CreditSink
	resolver OutcomeResolver
	delay    time.Duration
	logger   *zap.Logger
}

func newSession(id string, game *model.Game, pkg *model.TopUpPackage, accounts CreditSink, resolver OutcomeResolver, delay time.Duration, logger *zap.Logger) *Session {
	s := &Session{
		id:       id,
		game:     game,
		pkg:      pkg,
		accounts: accounts,
		resolver: resolver,
		delay:    delay,
		logger:   logger,
	}
	s.resetLocked()
	return s
}

func (s *Session) resetLocked() {
	s.step = StepGameInfo
	s.method = MethodCard
	s.playerID = ""
	s.server = ""
	s.username = ""
	s.email = ""
	s.voucherCode = ""
	s.discount = 0
	s.card = CardDetails{}
	s.ewallet = EWalletDetails{Provider: DefaultEWallet}
	s.mobile = MobileDetails{}
	s.processing = false
	s.success = true
	s.celebrateUntil = time.Time{}
}

// ID возвращает идентификатор сеанса.
func (s *Session) ID() string { return s.id }

// FieldUpdate описывает изменение введённых полей сеанса; nil-поля не меняются.
type FieldUpdate struct {
	PlayerID *string
	Server   *string
	Username *string
	Email    *string
	Phone    *string
	EWallet  *string
	Card     *CardDetails
}

// UpdateFields применяет изменения введённых полей. Изменения запрещены,
// пока платёж обрабатывается, и на завершающих шагах.
func (s *Session) UpdateFields(u FieldUpdate) error {
	if u.EWallet != nil && !validEWallet(*u.EWallet) {
		return ErrUnknownEWallet
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return ErrPaymentInProgress
	}
	if s.terminalLocked() {
		return ErrInvalidStep
	}

	if u.PlayerID != nil {
		s.playerID = *u.PlayerID
	}
	if u.Server != nil {
		s.server = *u.Server
	}
	if u.Username != nil {
		s.username = *u.Username
	}
	if u.Email != nil {
		s.email = *u.Email
	}
	if u.Phone != nil {
		s.mobile.Phone = *u.Phone
	}
	if u.EWallet != nil {
		s.ewallet.Provider = *u.EWallet
	}
	if u.Card != nil {
		s.card = *u.Card
	}
	return nil
}

// SelectMethod выбирает способ оплаты. Введённые данные других способов
// сохраняются и пригодятся при возврате к ним.
func (s *Session) SelectMethod(m Method) error {
	switch m {
	case MethodCard, MethodEWallet, MethodMobile:
	default:
		return ErrUnknownMethod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return ErrPaymentInProgress
	}
	if s.terminalLocked() {
		return ErrInvalidStep
	}
	s.method = m
	return nil
}

// ApplyVoucher применяет код ваучера: непустой код даёт фиксированную скидку,
// пустой сбрасывает её. Повторное применение не накапливает скидку.
func (s *Session) ApplyVoucher(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return ErrPaymentInProgress
	}
	if s.terminalLocked() {
		return ErrInvalidStep
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	s.voucherCode = code
	if code != "" {
		s.discount = VoucherDiscount
	} else {
		s.discount = 0
	}
	return nil
}

// Advance переводит мастер на следующий шаг, если требования текущего шага
// выполнены. Для карты шаг email завершается отправкой платежа, отдельного
// шага деталей у карты нет.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return ErrPaymentInProgress
	}

	switch s.step {
	case StepGameInfo:
		if !s.gameInfoReadyLocked() {
			return ErrStepNotReady
		}
		s.step = StepMethod
	case StepMethod:
		s.step = StepEmail
	case StepEmail:
		if !s.emailReadyLocked() {
			return ErrStepNotReady
		}
		if s.method == MethodCard {
			return s.submitLocked()
		}
		s.step = StepDetails
	case StepDetails:
		return s.submitLocked()
	default:
		return ErrInvalidStep
	}
	return nil
}

// Back возвращает мастер на предыдущий шаг, сохраняя введённые данные.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.processing {
		return ErrPaymentInProgress
	}

	switch s.step {
	case StepMethod:
		s.step = StepGameInfo
	case StepEmail:
		s.step = StepMethod
	case StepDetails:
		s.step = StepEmail
	default:
		return ErrInvalidStep
	}
	return nil
}

// Retry возвращает мастер с шага неудачи на шаг email для повторной попытки,
// сохраняя все введённые данные.
func (s *Session) Retry() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepFail {
		return ErrInvalidStep
	}
	s.success = true
	s.step = StepEmail
	return nil
}

// Submit запускает симулированную обработку платежа. Повторная отправка
// во время обработки запрещена.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked()
}

func (s *Session) submitLocked() error {
	if s.processing {
		return ErrPaymentInProgress
	}

	switch {
	case s.step == StepEmail && s.method == MethodCard:
	case s.step == StepDetails && s.method != MethodCard:
	default:
		return ErrInvalidStep
	}

	if !s.emailReadyLocked() {
		return ErrStepNotReady
	}

	s.processing = true
	gen := s.generation
	time.AfterFunc(s.delay, func() { s.resolve(gen) })
	return nil
}

// resolve завершает обработку платежа. Результат таймера, пережившего сброс
// сеанса, отбрасывается по несовпадению поколения.
func (s *Session) resolve(gen uint64) {
	ok := s.resolver.Resolve()

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}

	s.processing = false
	if !ok {
		s.success = false
		s.step = StepFail
		return
	}

	// Начисление завершается до того, как шаг успеха станет наблюдаемым:
	// оба действия выполняются под одной блокировкой.
	earned := int(math.Floor(s.finalPriceLocked()))
	if err := s.accounts.AddCredits(context.Background(), earned); err != nil {
		s.logger.Error("persist earned credits",
			zap.Error(err),
			zap.String("session", s.id),
			zap.Int("credits", earned),
		)
	}
	s.success = true
	s.celebrateUntil = time.Now().Add(celebrationWindow)
	s.step = StepSuccess
}

// Close безусловно сбрасывает сеанс к исходному состоянию независимо от
// текущего шага.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.resetLocked()
}

// terminalLocked сообщает, находится ли сеанс на завершающем шаге.
// С шага неудачи допустимы только повтор и закрытие, с шага успеха — только
// закрытие: итоговая цена после успеха не пересчитывается.
func (s *Session) terminalLocked() bool {
	return s.step == StepSuccess || s.step == StepFail
}

func (s *Session) gameInfoReadyLocked() bool {
	if strings.TrimSpace(s.playerID) == "" {
		return false
	}
	if s.game.NeedsServer() && strings.TrimSpace(s.server) == "" {
		return false
	}
	if s.game.RequiresUsername && strings.TrimSpace(s.username) == "" {
		return false
	}
	return true
}

func (s *Session) emailReadyLocked() bool {
	if !validation.IsValidEmail(s.email) {
		return false
	}
	return s.detailsLocked().ready()
}

func (s *Session) detailsLocked() MethodDetails {
	switch s.method {
	case MethodEWallet:
		return s.ewallet
	case MethodMobile:
		return s.mobile
	default:
		return s.card
	}
}

func (s *Session) canAdvanceLocked() bool {
	if s.processing {
		return false
	}
	switch s.step {
	case StepGameInfo:
		return s.gameInfoReadyLocked()
	case StepMethod:
		return true
	case StepEmail, StepDetails:
		return s.emailReadyLocked()
	default:
		return false
	}
}

func (s *Session) finalPriceLocked() float64 {
	return pricing.ApplyDiscount(s.pkg.Price, s.discount)
}

// View — снимок состояния сеанса для слоя представления.
type View struct {
	ID            string      `json:"id"`
	GameID        string      `json:"gameId"`
	GameName      string      `json:"gameName"`
	PackageID     string      `json:"packageId"`
	PackageAmount string      `json:"packageAmount"`
	Step          Step        `json:"step"`
	Method        Method      `json:"method"`
	PlayerID      string      `json:"playerId"`
	Server        string      `json:"server"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	VoucherCode   string      `json:"voucherCode"`
	Discount      float64     `json:"discount"`
	EWallet       string      `json:"ewallet"`
	Phone         string      `json:"phone"`
	Card          CardDetails `json:"card"`
	Processing    bool        `json:"processing"`
	Success       bool        `json:"success"`
	CanAdvance    bool        `json:"canAdvance"`
	FinalPrice    float64     `json:"finalPrice"`
	DisplayPrice  string      `json:"displayPrice"`
	Celebrating   bool        `json:"celebrating"`
}

// View возвращает снимок сеанса с итоговой ценой в указанной валюте отображения.
// CVV карты в снимок не попадает.
func (s *Session) View(currency pricing.Currency) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.card
	card.CVV = ""

	final := s.finalPriceLocked()
	return View{
		ID:            s.id,
		GameID:        s.game.ID,
		GameName:      s.game.Name,
		PackageID:     s.pkg.ID,
		PackageAmount: s.pkg.Amount,
		Step:          s.step,
		Method:        s.method,
		PlayerID:      s.playerID,
		Server:        s.server,
		Username:      s.username,
		Email:         s.email,
		VoucherCode:   s.voucherCode,
		Discount:      s.discount,
		EWallet:       s.ewallet.Provider,
		Phone:         s.mobile.Phone,
		Card:          card,
		Processing:    s.processing,
		Success:       s.success,
		CanAdvance:    s.canAdvanceLocked(),
		FinalPrice:    final,
		DisplayPrice:  pricing.Convert(final, currency),
		Celebrating:   time.Now().Before(s.celebrateUntil),
	}
}
