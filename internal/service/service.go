// Package service реализует бизнес-логику витрины пополнений.
package service

import (
	"context"

	"github.com/mmeshcher/topup-system/internal/account"
	"github.com/mmeshcher/topup-system/internal/catalog"
	"github.com/mmeshcher/topup-system/internal/checkout"
	"github.com/mmeshcher/topup-system/internal/model"
	"github.com/mmeshcher/topup-system/internal/pricing"
	"github.com/mmeshcher/topup-system/internal/recent"
)

// Service объединяет каталог, аккаунт, список просмотров и мастер оплаты.
type Service struct {
	catalog   *catalog.Catalog
	accounts  *account.Store
	recent    *recent.Tracker
	checkouts *checkout.Manager
}

// NewService создаёт сервис с указанными зависимостями.
func NewService(cat *catalog.Catalog, accounts *account.Store, tracker *recent.Tracker, checkouts *checkout.Manager) *Service {
	return &Service{
		catalog:   cat,
		accounts:  accounts,
		recent:    tracker,
		checkouts: checkouts,
	}
}

// Login выполняет вход пользователя под указанным именем.
func (s *Service) Login(ctx context.Context, name string) error {
	return s.accounts.Login(ctx, name)
}

// Logout выполняет выход пользователя и сбрасывает баланс кредитов.
// Открытые сеансы оплаты при этом не затрагиваются.
func (s *Service) Logout(ctx context.Context) error {
	return s.accounts.Logout(ctx)
}

// Account возвращает снимок состояния аккаунта.
func (s *Service) Account() model.AccountState {
	return s.accounts.State()
}

// Games возвращает каталог игр по убыванию популярности.
func (s *Service) Games() []model.Game {
	return s.catalog.Games()
}

// Game возвращает игру и её пакеты пополнения.
func (s *Service) Game(id string) (*model.Game, []model.TopUpPackage, error) {
	game, err := s.catalog.Game(id)
	if err != nil {
		return nil, nil, err
	}
	return game, s.catalog.Packages(id), nil
}

// VisitGame отмечает игру просмотренной в списке недавних.
func (s *Service) VisitGame(ctx context.Context, id string) error {
	if _, err := s.catalog.Game(id); err != nil {
		return err
	}
	return s.recent.Record(ctx, id)
}

// RecentlyVisited возвращает идентификаторы недавно просмотренных игр.
func (s *Service) RecentlyVisited() []string {
	return s.recent.List()
}

// BeginCheckout создаёт сеанс оплаты для выбранного пакета пополнения.
func (s *Service) BeginCheckout(gameID, packageID string, currency pricing.Currency) (checkout.View, error) {
	sess, err := s.checkouts.Begin(gameID, packageID)
	if err != nil {
		return checkout.View{}, err
	}
	return sess.View(currency), nil
}

// Checkout возвращает снимок сеанса оплаты.
func (s *Service) Checkout(id string, currency pricing.Currency) (checkout.View, error) {
	sess, err := s.checkouts.Session(id)
	if err != nil {
		return checkout.View{}, err
	}
	return sess.View(currency), nil
}

// UpdateCheckout изменяет введённые поля сеанса оплаты.
func (s *Service) UpdateCheckout(id string, u checkout.FieldUpdate, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.UpdateFields(u)
	})
}

// SelectMethod выбирает способ оплаты в сеансе.
func (s *Service) SelectMethod(id string, m checkout.Method, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.SelectMethod(m)
	})
}

// ApplyVoucher применяет код ваучера к сеансу.
func (s *Service) ApplyVoucher(id, code string, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.ApplyVoucher(code)
	})
}

// AdvanceCheckout переводит мастер оплаты на следующий шаг.
func (s *Service) AdvanceCheckout(id string, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.Advance()
	})
}

// BackCheckout возвращает мастер оплаты на предыдущий шаг.
func (s *Service) BackCheckout(id string, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.Back()
	})
}

// SubmitCheckout запускает обработку платежа.
func (s *Service) SubmitCheckout(id string, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.Submit()
	})
}

// RetryCheckout возвращает неудавшийся сеанс к шагу email для повторной попытки.
func (s *Service) RetryCheckout(id string, currency pricing.Currency) (checkout.View, error) {
	return s.withSession(id, currency, func(sess *checkout.Session) error {
		return sess.Retry()
	})
}

// CloseCheckout сбрасывает сеанс оплаты и удаляет его.
func (s *Service) CloseCheckout(id string) error {
	return s.checkouts.Close(id)
}

func (s *Service) withSession(id string, currency pricing.Currency, fn func(*checkout.Session) error) (checkout.View, error) {
	sess, err := s.checkouts.Session(id)
	if err != nil {
		return checkout.View{}, err
	}
	if err := fn(sess); err != nil {
		return checkout.View{}, err
	}
	return sess.View(currency), nil
}
