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

type WalletHandler struct {
	Wallets  *repository.WalletRepository
	Notifier *notifications.Hub
}

// NewWalletHandler creates the wallet handler.
func NewWalletHandler(wallets *repository.WalletRepository, notifier *notifications.Hub) *WalletHandler {
	return &WalletHandler{Wallets: wallets, Notifier: notifier}
}

type CreateWalletRequest struct {
	Name    string          `json:"name" validate:"required,max=100"`
	Balance decimal.Decimal `json:"balance"`
}

type UpdateWalletRequest struct {
	Name    string          `json:"name" validate:"required,max=100"`
	Balance decimal.Decimal `json:"balance"`
}

// List returns all wallets of the user.
func (h *WalletHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	wallets, err := h.Wallets.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, wallets)
}

// Create adds a wallet.
func (h *WalletHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req CreateWalletRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}

	wallet, err := h.Wallets.Create(c.Request().Context(), userID, req.Name, req.Balance)
	if err != nil {
		return serverError(c)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusCreated, wallet)
}

// Update renames a wallet or corrects its balance.
func (h *WalletHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid wallet id")
	}

	var req UpdateWalletRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "name is required")
	}

	wallet, err := h.Wallets.Update(c.Request().Context(), userID, walletID, req.Name, req.Balance)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "wallet not found")
		}
		return serverError(c)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusOK, wallet)
}

// Delete removes a wallet and its transaction history.
func (h *WalletHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid wallet id")
	}

	if err := h.Wallets.Delete(c.Request().Context(), userID, walletID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "wallet not found")
		}
		return serverError(c)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.NoContent(http.StatusNoContent)
}
