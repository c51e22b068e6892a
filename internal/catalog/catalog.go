// Package catalog содержит статический реестр игр и пакетов пополнения.
// Данные загружаются один раз при старте и далее доступны только для чтения.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/topup-system/internal/model"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ErrGameNotFound возвращается, если игра отсутствует в каталоге.
var (
	ErrGameNotFound = errors.New("game not found")
	// ErrPackageNotFound возвращается, если пакет пополнения отсутствует у игры.
	ErrPackageNotFound = errors.New("package not found")
)

type rawCatalog struct {
	Games    []model.Game                    `yaml:"games"`
	Packages map[string][]model.TopUpPackage `yaml:"packages"`
}

// Catalog предоставляет доступ к играм и пакетам пополнения.
type Catalog struct {
	games    map[string]*model.Game
	ordered  []model.Game
	packages map[string][]model.TopUpPackage
}

// Load читает каталог из файла либо из встроенных данных, если путь пуст.
func Load(path string) (*Catalog, error) {
	data := embeddedCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse разбирает и валидирует данные каталога.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	if err := validate(raw); err != nil {
		return nil, err
	}

	c := &Catalog{
		games:    make(map[string]*model.Game, len(raw.Games)),
		ordered:  make([]model.Game, len(raw.Games)),
		packages: raw.Packages,
	}
	copy(c.ordered, raw.Games)

	// Стабильная сортировка: при равной популярности сохраняется порядок каталога.
	sort.SliceStable(c.ordered, func(i, j int) bool {
		return c.ordered[i].Popularity > c.ordered[j].Popularity
	})

	for i := range raw.Games {
		g := raw.Games[i]
		c.games[g.ID] = &g
	}

	return c, nil
}

func validate(raw rawCatalog) error {
	seen := make(map[string]bool, len(raw.Games))
	for _, g := range raw.Games {
		if g.ID == "" || g.Name == "" {
			return fmt.Errorf("catalog: game with empty id or name")
		}
		if seen[g.ID] {
			return fmt.Errorf("catalog: duplicate game id %q", g.ID)
		}
		if g.Popularity < 0 {
			return fmt.Errorf("catalog: game %q: negative popularity", g.ID)
		}
		seen[g.ID] = true
	}

	for gameID, pkgs := range raw.Packages {
		if !seen[gameID] {
			return fmt.Errorf("catalog: packages for unknown game %q", gameID)
		}
		pkgSeen := make(map[string]bool, len(pkgs))
		for _, p := range pkgs {
			if p.ID == "" || p.Amount == "" {
				return fmt.Errorf("catalog: game %q: package with empty id or amount", gameID)
			}
			if pkgSeen[p.ID] {
				return fmt.Errorf("catalog: game %q: duplicate package id %q", gameID, p.ID)
			}
			if p.Price <= 0 {
				return fmt.Errorf("catalog: package %q: price must be positive", p.ID)
			}
			pkgSeen[p.ID] = true
		}
	}

	return nil
}

// Games возвращает все игры по убыванию популярности.
func (c *Catalog) Games() []model.Game {
	res := make([]model.Game, len(c.ordered))
	copy(res, c.ordered)
	return res
}

// Game возвращает игру по идентификатору.
func (c *Catalog) Game(id string) (*model.Game, error) {
	g, ok := c.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Packages возвращает пакеты пополнения игры в порядке каталога.
// Для неизвестной игры возвращается пустой список.
func (c *Catalog) Packages(gameID string) []model.TopUpPackage {
	pkgs := c.packages[gameID]
	res := make([]model.TopUpPackage, len(pkgs))
	copy(res, pkgs)
	return res
}

// Package возвращает пакет пополнения игры по идентификатору.
func (c *Catalog) Package(gameID, packageID string) (*model.TopUpPackage, error) {
	for _, p := range c.packages[gameID] {
		if p.ID == packageID {
			pkg := p
			return &pkg, nil
		}
	}
	return nil, ErrPackageNotFound
}
