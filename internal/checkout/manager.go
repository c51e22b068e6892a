package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/topup-system/internal/catalog"
)

// DefaultProcessingDelay — длительность симулированной обработки платежа.
const DefaultProcessingDelay = 2 * time.Second

// Manager владеет реестром активных сеансов оплаты.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	catalog  *catalog.Catalog
	accounts CreditSink
	resolver OutcomeResolver
	delay    time.Duration
	logger   *zap.Logger
}

// NewManager создаёт менеджер сеансов оплаты.
func NewManager(cat *catalog.Catalog, accounts CreditSink, resolver OutcomeResolver, delay time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		accounts: accounts,
		resolver: resolver,
		delay:    delay,
		logger:   logger,
	}
}

// Begin создаёт сеанс оплаты для выбранного пакета пополнения.
func (m *Manager) Begin(gameID, packageID string) (*Session, error) {
	game, err := m.catalog.Game(gameID)
	if err != nil {
		return nil, err
	}
	pkg, err := m.catalog.Package(gameID, packageID)
	if err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), game, pkg, m.accounts, m.resolver, m.delay, m.logger)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	return s, nil
}

// Session возвращает сеанс по идентификатору.
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close сбрасывает сеанс и удаляет его из реестра.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}
