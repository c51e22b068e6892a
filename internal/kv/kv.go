// Package kv описывает границу персистентного key-value хранилища.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound возвращается, если ключ отсутствует в хранилище.
var ErrNotFound = errors.New("key not found")

// Префикс версии схемы хранения. При смене формата значений старый префикс
// перестаёт читаться, и состояние откатывается к значениям по умолчанию.
const schemaPrefix = "v1:"

// Store описывает контракт персистентного key-value хранилища.
// Запись выполняется после каждой мутации состояния, транзакций нет.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
