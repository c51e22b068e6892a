package checkout

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultSuccessRate — доля успешных исходов симулируемого шлюза.
const DefaultSuccessRate = 0.9

// OutcomeResolver решает исход симулированного платежа. Продакшен-реализация
// заменяется интеграцией с реальным шлюзом; в тестах подставляется
// детерминированная.
type OutcomeResolver interface {
	Resolve() bool
}

// RandomResolver выбирает исход случайно с заданной вероятностью успеха.
type RandomResolver struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	rate float64
}

// NewRandomResolver создаёт резолвер с указанной вероятностью успеха.
func NewRandomResolver(successRate float64) *RandomResolver {
	return &RandomResolver{
		rnd:  rand.New(rand.NewSource(time.Now().UnixNano())),
		rate: successRate,
	}
}

// Resolve возвращает true при успешном исходе платежа.
func (r *RandomResolver) Resolve() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64() < r.rate
}
