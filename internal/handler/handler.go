// Package handler содержит HTTP-обработчики API витрины пополнений.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/topup-system/internal/catalog"
	"github.com/mmeshcher/topup-system/internal/checkout"
	"github.com/mmeshcher/topup-system/internal/model"
	"github.com/mmeshcher/topup-system/internal/pricing"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Login(ctx context.Context, name string) error
	Logout(ctx context.Context) error
	Account() model.AccountState
	Games() []model.Game
	Game(id string) (*model.Game, []model.TopUpPackage, error)
	VisitGame(ctx context.Context, id string) error
	RecentlyVisited() []string
	BeginCheckout(gameID, packageID string, currency pricing.Currency) (checkout.View, error)
	Checkout(id string, currency pricing.Currency) (checkout.View, error)
	UpdateCheckout(id string, u checkout.FieldUpdate, currency pricing.Currency) (checkout.View, error)
	SelectMethod(id string, m checkout.Method, currency pricing.Currency) (checkout.View, error)
	ApplyVoucher(id, code string, currency pricing.Currency) (checkout.View, error)
	AdvanceCheckout(id string, currency pricing.Currency) (checkout.View, error)
	BackCheckout(id string, currency pricing.Currency) (checkout.View, error)
	SubmitCheckout(id string, currency pricing.Currency) (checkout.View, error)
	RetryCheckout(id string, currency pricing.Currency) (checkout.View, error)
	CloseCheckout(id string) error
}

// Handler реализует HTTP-обработчики API витрины пополнений.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

func (h *Handler) currency(w http.ResponseWriter, r *http.Request) (pricing.Currency, bool) {
	cur, err := pricing.ParseCurrency(r.URL.Query().Get("currency"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return "", false
	}
	return cur, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response", zap.Error(err))
	}
}

func (h *Handler) checkoutError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound),
		errors.Is(err, catalog.ErrGameNotFound),
		errors.Is(err, catalog.ErrPackageNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, checkout.ErrPaymentInProgress),
		errors.Is(err, checkout.ErrStepNotReady),
		errors.Is(err, checkout.ErrInvalidStep):
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	case errors.Is(err, checkout.ErrUnknownMethod),
		errors.Is(err, checkout.ErrUnknownEWallet):
		http.Error(w, http.StatusText(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity)
	default:
		h.logger.Error(msg, zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

type loginRequest struct {
	Name string `json:"name"`
}

// Login выполняет вход пользователя под указанным именем.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.Login(r.Context(), req.Name); err != nil {
		h.logger.Error("login error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Account())
}

// Logout выполняет выход пользователя.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		h.logger.Error("logout error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetAccount возвращает текущее состояние аккаунта.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Account())
}

// ListGames возвращает каталог игр по убыванию популярности.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Games())
}

type packageResponse struct {
	model.TopUpPackage
	DisplayPrice string `json:"displayPrice"`
}

type gameResponse struct {
	Game     *model.Game       `json:"game"`
	Packages []packageResponse `json:"packages"`
}

// GetGame возвращает игру и её пакеты пополнения с ценами в валюте отображения.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	game, packages, err := h.service.Game(chi.URLParam(r, "gameID"))
	if err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("get game error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := gameResponse{
		Game:     game,
		Packages: make([]packageResponse, 0, len(packages)),
	}
	for _, p := range packages {
		resp.Packages = append(resp.Packages, packageResponse{
			TopUpPackage: p,
			DisplayPrice: pricing.Convert(p.Price, cur),
		})
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// VisitGame отмечает игру просмотренной.
func (h *Handler) VisitGame(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VisitGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		if errors.Is(err, catalog.ErrGameNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("visit game error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRecent возвращает идентификаторы недавно просмотренных игр.
func (h *Handler) GetRecent(w http.ResponseWriter, r *http.Request) {
	ids := h.service.RecentlyVisited()
	if len(ids) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.writeJSON(w, http.StatusOK, ids)
}

type beginCheckoutRequest struct {
	GameID    string `json:"gameId"`
	PackageID string `json:"packageId"`
}

// BeginCheckout создаёт сеанс оплаты для выбранного пакета.
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	var req beginCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if req.GameID == "" || req.PackageID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.service.BeginCheckout(req.GameID, req.PackageID, cur)
	if err != nil {
		h.checkoutError(w, err, "begin checkout error")
		return
	}

	h.writeJSON(w, http.StatusCreated, view)
}

// GetCheckout возвращает снимок сеанса оплаты.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	view, err := h.service.Checkout(chi.URLParam(r, "sessionID"), cur)
	if err != nil {
		h.checkoutError(w, err, "get checkout error")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

type updateCheckoutRequest struct {
	PlayerID *string               `json:"playerId"`
	Server   *string               `json:"server"`
	Username *string               `json:"username"`
	Email    *string               `json:"email"`
	Phone    *string               `json:"phone"`
	EWallet  *string               `json:"ewallet"`
	Card     *checkout.CardDetails `json:"card"`
}

// UpdateCheckout изменяет введённые поля сеанса оплаты.
func (h *Handler) UpdateCheckout(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	var req updateCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.service.UpdateCheckout(chi.URLParam(r, "sessionID"), checkout.FieldUpdate{
		PlayerID: req.PlayerID,
		Server:   req.Server,
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		EWallet:  req.EWallet,
		Card:     req.Card,
	}, cur)
	if err != nil {
		h.checkoutError(w, err, "update checkout error")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

type selectMethodRequest struct {
	Method checkout.Method `json:"method"`
}

// SelectMethod выбирает способ оплаты в сеансе.
func (h *Handler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	var req selectMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.service.SelectMethod(chi.URLParam(r, "sessionID"), req.Method, cur)
	if err != nil {
		h.checkoutError(w, err, "select method error")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

type voucherRequest struct {
	Code string `json:"code"`
}

// ApplyVoucher применяет код ваучера к сеансу.
func (h *Handler) ApplyVoucher(w http.ResponseWriter, r *http.Request) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	var req voucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	view, err := h.service.ApplyVoucher(chi.URLParam(r, "sessionID"), req.Code, cur)
	if err != nil {
		h.checkoutError(w, err, "apply voucher error")
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// Advance переводит мастер оплаты на следующий шаг.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.service.AdvanceCheckout, "advance checkout error")
}

// Back возвращает мастер оплаты на предыдущий шаг.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.service.BackCheckout, "back checkout error")
}

// Submit запускает обработку платежа.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.service.SubmitCheckout, "submit checkout error")
}

// Retry возвращает неудавшийся сеанс к шагу email.
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	h.sessionAction(w, r, h.service.RetryCheckout, "retry checkout error")
}

func (h *Handler) sessionAction(w http.ResponseWriter, r *http.Request, fn func(string, pricing.Currency) (checkout.View, error), msg string) {
	cur, ok := h.currency(w, r)
	if !ok {
		return
	}

	view, err := fn(chi.URLParam(r, "sessionID"), cur)
	if err != nil {
		h.checkoutError(w, err, msg)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// CloseCheckout сбрасывает сеанс оплаты и удаляет его.
func (h *Handler) CloseCheckout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseCheckout(chi.URLParam(r, "sessionID")); err != nil {
		h.checkoutError(w, err, "close checkout error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
