package kv

import (
	"context"
	"sync"
)

// MemoryStore хранит значения в памяти процесса. Используется в тестах и при
// запуске без настроенного Redis; состояние не переживает перезапуск.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore создаёт пустое хранилище в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get возвращает значение по ключу.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[schemaPrefix+key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

// Set сохраняет значение по ключу.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[schemaPrefix+key] = value
	return nil
}

// Delete удаляет указанные ключи.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, schemaPrefix+k)
	}
	return nil
}
