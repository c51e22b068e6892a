package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/topup-system/internal/account"
	"github.com/mmeshcher/topup-system/internal/catalog"
	"github.com/mmeshcher/topup-system/internal/checkout"
	"github.com/mmeshcher/topup-system/internal/kv"
	"github.com/mmeshcher/topup-system/internal/pricing"
	"github.com/mmeshcher/topup-system/internal/recent"
)

const testCatalogYAML = `
games:
  - id: astral-saga
    name: Astral Saga
    category: RPG
    popularity: 90
  - id: arena-blitz
    name: Arena Blitz
    category: MOBA
    popularity: 80
    requiresServer: false
packages:
  astral-saga:
    - { id: as-430, name: Popular, amount: 430 Crystals, price: 9.99 }
  arena-blitz:
    - { id: ab-100, name: Starter, amount: 100 Gems, price: 4.99 }
`

type alwaysSucceed struct{}

func (alwaysSucceed) Resolve() bool { return true }

func newTestService(t *testing.T) (*Service, *account.Store) {
	t.Helper()
	ctx := context.Background()
	store := kv.NewMemoryStore()

	cat, err := catalog.Parse([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("catalog.Parse error: %v", err)
	}
	accounts, err := account.NewStore(ctx, store)
	if err != nil {
		t.Fatalf("account.NewStore error: %v", err)
	}
	tracker, err := recent.NewTracker(ctx, store)
	if err != nil {
		t.Fatalf("recent.NewTracker error: %v", err)
	}
	manager := checkout.NewManager(cat, accounts, alwaysSucceed{}, time.Millisecond, zap.NewNop())

	return NewService(cat, accounts, tracker, manager), accounts
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.Login(ctx, "player1"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	state := svc.Account()
	if !state.Authenticated || state.Name != "player1" {
		t.Fatalf("unexpected account state: %+v", state)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	state = svc.Account()
	if state.Authenticated || state.Name != "" || state.Credits != 0 {
		t.Fatalf("unexpected account state after logout: %+v", state)
	}
}

func TestGamesAndLookup(t *testing.T) {
	svc, _ := newTestService(t)

	games := svc.Games()
	if len(games) != 2 || games[0].ID != "astral-saga" {
		t.Fatalf("unexpected games list: %+v", games)
	}

	game, packages, err := svc.Game("arena-blitz")
	if err != nil {
		t.Fatalf("Game error: %v", err)
	}
	if game.Name != "Arena Blitz" || len(packages) != 1 || packages[0].ID != "ab-100" {
		t.Fatalf("unexpected game payload: %+v %+v", game, packages)
	}

	if _, _, err := svc.Game("no-such-game"); !errors.Is(err, catalog.ErrGameNotFound) {
		t.Fatalf("Game error = %v, want ErrGameNotFound", err)
	}
}

func TestVisitGame(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	if err := svc.VisitGame(ctx, "no-such-game"); !errors.Is(err, catalog.ErrGameNotFound) {
		t.Fatalf("VisitGame error = %v, want ErrGameNotFound", err)
	}
	if got := svc.RecentlyVisited(); len(got) != 0 {
		t.Fatalf("unknown game recorded as visited: %v", got)
	}

	for _, id := range []string{"astral-saga", "arena-blitz", "astral-saga"} {
		if err := svc.VisitGame(ctx, id); err != nil {
			t.Fatalf("VisitGame(%q) error: %v", id, err)
		}
	}
	want := []string{"astral-saga", "arena-blitz"}
	if got := svc.RecentlyVisited(); !reflect.DeepEqual(got, want) {
		t.Fatalf("RecentlyVisited() = %v, want %v", got, want)
	}
}

func TestCheckoutFlowAccruesCredits(t *testing.T) {
	svc, accounts := newTestService(t)

	v, err := svc.BeginCheckout("astral-saga", "as-430", pricing.USD)
	if err != nil {
		t.Fatalf("BeginCheckout error: %v", err)
	}
	id := v.ID

	if _, err := svc.UpdateCheckout(id, checkout.FieldUpdate{
		PlayerID: strPtr("123456789"),
		Server:   strPtr("2001"),
		Email:    strPtr("player@example.com"),
	}, pricing.USD); err != nil {
		t.Fatalf("UpdateCheckout error: %v", err)
	}

	for _, step := range []checkout.Step{checkout.StepMethod, checkout.StepEmail} {
		v, err = svc.AdvanceCheckout(id, pricing.USD)
		if err != nil {
			t.Fatalf("AdvanceCheckout error: %v", err)
		}
		if v.Step != step {
			t.Fatalf("Step = %q, want %q", v.Step, step)
		}
	}

	// Карта отправляет платёж прямо с шага email.
	if _, err := svc.AdvanceCheckout(id, pricing.USD); err != nil {
		t.Fatalf("AdvanceCheckout (submit) error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v, err = svc.Checkout(id, pricing.USD)
		if err != nil {
			t.Fatalf("Checkout error: %v", err)
		}
		if v.Step == checkout.StepSuccess && !v.Processing {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if v.Step != checkout.StepSuccess {
		t.Fatalf("payment never succeeded, view: %+v", v)
	}

	if got := accounts.State().Credits; got != 9 {
		t.Fatalf("Credits = %d, want 9", got)
	}

	if err := svc.CloseCheckout(id); err != nil {
		t.Fatalf("CloseCheckout error: %v", err)
	}
	if _, err := svc.Checkout(id, pricing.USD); !errors.Is(err, checkout.ErrSessionNotFound) {
		t.Fatalf("Checkout after close error = %v, want ErrSessionNotFound", err)
	}
}

func TestCheckoutUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.AdvanceCheckout("no-such-session", pricing.USD); !errors.Is(err, checkout.ErrSessionNotFound) {
		t.Fatalf("AdvanceCheckout error = %v, want ErrSessionNotFound", err)
	}
	if err := svc.CloseCheckout("no-such-session"); !errors.Is(err, checkout.ErrSessionNotFound) {
		t.Fatalf("CloseCheckout error = %v, want ErrSessionNotFound", err)
	}
}

func strPtr(v string) *string { return &v }
