// Package account хранит состояние аккаунта пользователя: признак входа,
// отображаемое имя и накопленный баланс кредитов.
package account

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mmeshcher/topup-system/internal/kv"
	"github.com/mmeshcher/topup-system/internal/model"
)

// Ключи персистентного хранилища.
const (
	keyAuthenticated = "isAuthenticated"
	keyUserName      = "userName"
	keyUserCredits   = "userCredits"
)

// Store владеет состоянием аккаунта и записывает его в хранилище после
// каждой мутации.
type Store struct {
	mu sync.RWMutex
	kv kv.Store

	authenticated bool
	name          string
	credits       int
}

// NewStore создаёт хранилище аккаунта и загружает сохранённое состояние.
// Отсутствующие или нечитаемые значения заменяются значениями по умолчанию.
func NewStore(ctx context.Context, store kv.Store) (*Store, error) {
	s := &Store{kv: store}

	if v, err := store.Get(ctx, keyAuthenticated); err == nil {
		s.authenticated = v == "true"
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if v, err := store.Get(ctx, keyUserName); err == nil {
		s.name = v
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	if v, err := store.Get(ctx, keyUserCredits); err == nil {
		if n, convErr := strconv.Atoi(v); convErr == nil && n >= 0 {
			s.credits = n
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("load account: %w", err)
	}

	return s, nil
}

// Login отмечает пользователя вошедшим и сохраняет имя.
func (s *Store) Login(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticated = true
	s.name = name

	if err := s.kv.Set(ctx, keyAuthenticated, "true"); err != nil {
		return fmt.Errorf("persist auth flag: %w", err)
	}
	if err := s.kv.Set(ctx, keyUserName, name); err != nil {
		return fmt.Errorf("persist user name: %w", err)
	}
	return nil
}

// Logout сбрасывает признак входа, имя и баланс кредитов и удаляет их
// из хранилища.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authenticated = false
	s.name = ""
	s.credits = 0

	if err := s.kv.Delete(ctx, keyAuthenticated, keyUserName, keyUserCredits); err != nil {
		return fmt.Errorf("clear account keys: %w", err)
	}
	return nil
}

// AddCredits увеличивает баланс кредитов и сохраняет новое значение.
// Баланс только накапливается, отрицательные суммы не принимаются.
func (s *Store) AddCredits(ctx context.Context, amount int) error {
	if amount < 0 {
		return errors.New("credits amount must be non-negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.credits += amount
	if err := s.kv.Set(ctx, keyUserCredits, strconv.Itoa(s.credits)); err != nil {
		return fmt.Errorf("persist credits: %w", err)
	}
	return nil
}

// State возвращает снимок состояния аккаунта.
func (s *Store) State() model.AccountState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.AccountState{
		Authenticated: s.authenticated,
		Name:          s.name,
		Credits:       s.credits,
	}
}
