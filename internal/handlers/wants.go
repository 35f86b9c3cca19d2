package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/notifications"
	"example.com/peso-tracker/internal/repository"
)

type WantHandler struct {
	Wants    *repository.WantRepository
	Wallets  *repository.WalletRepository
	Notifier *notifications.Hub
}

// NewWantHandler creates the wishlist handler.
func NewWantHandler(wants *repository.WantRepository, wallets *repository.WalletRepository, notifier *notifications.Hub) *WantHandler {
	return &WantHandler{Wants: wants, Wallets: wallets, Notifier: notifier}
}

type WantRequest struct {
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price"`
	Priority int             `json:"priority" validate:"min=1,max=5"`
	Notes    string          `json:"notes" validate:"max=500"`
}

type BuyWantRequest struct {
	WalletID string          `json:"wallet_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
}

// List returns all wishlist items, active first.
func (h *WantHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	wants, err := h.Wants.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, wants)
}

// Create adds a wishlist item.
func (h *WantHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req WantRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}

	want, err := h.Wants.Create(c.Request().Context(), userID, repository.WantInput{
		Name:     req.Name,
		Price:    req.Price,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, want)
}

// Update edits a wishlist item.
func (h *WantHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	wantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid want id")
	}

	var req WantRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}

	want, err := h.Wants.Update(c.Request().Context(), userID, wantID, repository.WantInput{
		Name:     req.Name,
		Price:    req.Price,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "want not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, want)
}

// Buy marks a want as purchased, paying for it from a wallet.
func (h *WantHandler) Buy(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	wantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid want id")
	}

	var req BuyWantRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return badRequest(c, "invalid wallet id")
	}

	want, err := h.Wants.Buy(c.Request().Context(), userID, wantID, walletID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "want not found")
		case errors.Is(err, repository.ErrConflict):
			return conflict(c, "want already bought")
		case errors.Is(err, repository.ErrWalletMissing):
			return notFound(c, "wallet not found")
		case errors.Is(err, repository.ErrInvalidAmount):
			return badRequest(c, "amount must be positive")
		case errors.Is(err, repository.ErrInsufficientFunds):
			return badRequest(c, "insufficient funds")
		default:
			return serverError(c)
		}
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusOK, want)
}

// Delete removes a wishlist item.
func (h *WantHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	wantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid want id")
	}

	if err := h.Wants.Delete(c.Request().Context(), userID, wantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "want not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}
