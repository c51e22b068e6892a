// Package model содержит доменные сущности витрины пополнений.
package model

// Game описывает игру в каталоге витрины. Записи каталога создаются при
// старте процесса и не изменяются.
type Game struct {
	ID               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	Image            string `yaml:"image" json:"image"`
	Category         string `yaml:"category" json:"category"`
	Popularity       int    `yaml:"popularity" json:"popularity"`
	Description      string `yaml:"description" json:"description"`
	Discount         string `yaml:"discount,omitempty" json:"discount,omitempty"`
	RequiresServer   *bool  `yaml:"requiresServer,omitempty" json:"requiresServer,omitempty"`
	RequiresUsername bool   `yaml:"requiresUsername,omitempty" json:"requiresUsername,omitempty"`
	IDFieldLabel     string `yaml:"idFieldLabel,omitempty" json:"idFieldLabel,omitempty"`
}

// NeedsServer сообщает, требуется ли при оплате поле сервера/региона.
// Поле обязательно, если в каталоге явно не указано обратное.
func (g *Game) NeedsServer() bool {
	return g.RequiresServer == nil || *g.RequiresServer
}

// TopUpPackage описывает пакет пополнения, принадлежащий ровно одной игре.
// Цена указана в базовой валюте каталога.
type TopUpPackage struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Amount  string  `yaml:"amount" json:"amount"`
	Price   float64 `yaml:"price" json:"price"`
	Bonus   string  `yaml:"bonus,omitempty" json:"bonus,omitempty"`
	Popular bool    `yaml:"popular,omitempty" json:"popular,omitempty"`
}

// AccountState содержит снимок состояния аккаунта пользователя.
type AccountState struct {
	Authenticated bool   `json:"authenticated"`
	Name          string `json:"name"`
	Credits       int    `json:"credits"`
}
