package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/models"
	"example.com/peso-tracker/internal/notifications"
	"example.com/peso-tracker/internal/repository"
)

type TransactionHandler struct {
	Transactions *repository.TransactionRepository
	Wallets      *repository.WalletRepository
	Notifier     *notifications.Hub
}

// NewTransactionHandler creates the transaction handler.
func NewTransactionHandler(transactions *repository.TransactionRepository, wallets *repository.WalletRepository, notifier *notifications.Hub) *TransactionHandler {
	return &TransactionHandler{Transactions: transactions, Wallets: wallets, Notifier: notifier}
}

type TransactionRequest struct {
	Date     string          `json:"date" validate:"required"`
	WalletID string          `json:"wallet_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
	Place    string          `json:"place" validate:"required,max=200"`
	Type     string          `json:"type" validate:"required,oneof=income expense"`
}

type UpdateTransactionRequest struct {
	Date       string          `json:"date" validate:"required"`
	WalletID   string          `json:"wallet_id" validate:"required,uuid"`
	ToWalletID *string         `json:"to_wallet_id" validate:"omitempty,uuid"`
	Amount     decimal.Decimal `json:"amount"`
	Place      string          `json:"place" validate:"required,max=200"`
	Type       string          `json:"type" validate:"required,oneof=income expense transfer"`
}

type TransferRequest struct {
	Date         string          `json:"date" validate:"required"`
	FromWalletID string          `json:"from_wallet_id" validate:"required,uuid"`
	ToWalletID   string          `json:"to_wallet_id" validate:"required,uuid"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note" validate:"max=200"`
}

// List returns all transactions of the user, newest first.
func (h *TransactionHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	transactions, err := h.Transactions.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, transactions)
}

// Create records an income or expense.
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TransactionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return badRequest(c, "invalid wallet id")
	}

	transaction, err := h.Transactions.Add(c.Request().Context(), userID, repository.TransactionInput{
		Date:     date,
		WalletID: walletID,
		Amount:   req.Amount,
		Place:    req.Place,
		Type:     models.TransactionType(req.Type),
	})
	if err != nil {
		return h.mapError(c, err)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusCreated, transaction)
}

// Update edits a transaction, reverting the old effect and applying the new
// one.
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	var req UpdateTransactionRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		return badRequest(c, "invalid wallet id")
	}

	var toWalletID *uuid.UUID
	if req.ToWalletID != nil {
		parsed, err := uuid.Parse(*req.ToWalletID)
		if err != nil {
			return badRequest(c, "invalid destination wallet id")
		}
		toWalletID = &parsed
	}

	transaction, err := h.Transactions.Update(c.Request().Context(), userID, id, repository.TransactionInput{
		Date:       date,
		WalletID:   walletID,
		ToWalletID: toWalletID,
		Amount:     req.Amount,
		Place:      req.Place,
		Type:       models.TransactionType(req.Type),
	})
	if err != nil {
		return h.mapError(c, err)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusOK, transaction)
}

// Delete removes a transaction and reverts its effect.
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid transaction id")
	}

	if err := h.Transactions.Delete(c.Request().Context(), userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "transaction not found")
		}
		return serverError(c)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.NoContent(http.StatusNoContent)
}

// Transfer moves funds between two wallets.
func (h *TransactionHandler) Transfer(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	fromWalletID, err := uuid.Parse(req.FromWalletID)
	if err != nil {
		return badRequest(c, "invalid source wallet id")
	}

	toWalletID, err := uuid.Parse(req.ToWalletID)
	if err != nil {
		return badRequest(c, "invalid destination wallet id")
	}

	transaction, err := h.Transactions.AddTransfer(c.Request().Context(), userID, repository.TransferInput{
		Date:         date,
		FromWalletID: fromWalletID,
		ToWalletID:   toWalletID,
		Amount:       req.Amount,
		Note:         req.Note,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.JSON(http.StatusCreated, transaction)
}

func (h *TransactionHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, "transaction not found")
	case errors.Is(err, repository.ErrWalletMissing):
		return notFound(c, "wallet not found")
	case errors.Is(err, repository.ErrInvalidAmount):
		return badRequest(c, "amount must be positive")
	case errors.Is(err, repository.ErrInsufficientFunds):
		return badRequest(c, "insufficient funds")
	case errors.Is(err, repository.ErrInvalid):
		return badRequest(c, "invalid transaction")
	default:
		return serverError(c)
	}
}
