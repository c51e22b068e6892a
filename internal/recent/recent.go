// Package recent отслеживает недавно просмотренные игры каталога.
package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/mmeshcher/topup-system/internal/kv"
)

const (
	storageKey = "recentlyVisited"
	maxEntries = 6
)

// Tracker хранит список недавно просмотренных игр, от новых к старым,
// без дубликатов и с ограничением длины.
type Tracker struct {
	mu  sync.RWMutex
	kv  kv.Store
	ids []string
}

// NewTracker создаёт трекер и загружает сохранённый список.
// Нечитаемое значение заменяется пустым списком.
func NewTracker(ctx context.Context, store kv.Store) (*Tracker, error) {
	t := &Tracker{kv: store}

	v, err := store.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return t, nil
		}
		return nil, fmt.Errorf("load recently visited: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(v), &ids); err == nil {
		if len(ids) > maxEntries {
			ids = ids[:maxEntries]
		}
		t.ids = ids
	}

	return t, nil
}

// Record помещает игру в начало списка, убирая существующее вхождение и
// обрезая список до предельной длины, затем сохраняет результат.
func (t *Tracker) Record(ctx context.Context, gameID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	updated := make([]string, 0, len(t.ids)+1)
	updated = append(updated, gameID)
	for _, id := range t.ids {
		if id != gameID {
			updated = append(updated, id)
		}
	}
	if len(updated) > maxEntries {
		updated = updated[:maxEntries]
	}
	t.ids = updated

	data, err := json.Marshal(t.ids)
	if err != nil {
		return fmt.Errorf("marshal recently visited: %w", err)
	}
	if err := t.kv.Set(ctx, storageKey, string(data)); err != nil {
		return fmt.Errorf("persist recently visited: %w", err)
	}
	return nil
}

// List возвращает копию списка, от новых к старым.
func (t *Tracker) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make([]string, len(t.ids))
	copy(res, t.ids)
	return res
}
