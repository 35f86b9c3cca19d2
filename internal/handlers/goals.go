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

type GoalHandler struct {
	Goals    *repository.GoalRepository
	Wallets  *repository.WalletRepository
	Notifier *notifications.Hub
}

// NewGoalHandler creates the savings-goal handler.
func NewGoalHandler(goals *repository.GoalRepository, wallets *repository.WalletRepository, notifier *notifications.Hub) *GoalHandler {
	return &GoalHandler{Goals: goals, Wallets: wallets, Notifier: notifier}
}

type GoalRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	FundingWalletID *string         `json:"funding_wallet_id" validate:"omitempty,uuid"`
}

type ContributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type ContributeResponse struct {
	Applied decimal.Decimal `json:"applied"`
	Goal    models.Goal     `json:"goal"`
}

// List returns all goals of the user.
func (h *GoalHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goals, err := h.Goals.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, goals)
}

// Create adds a savings goal.
func (h *GoalHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if !req.TargetAmount.IsPositive() {
		return badRequest(c, "target amount must be positive")
	}

	fundingWalletID, err := parseOptionalUUID(req.FundingWalletID)
	if err != nil {
		return badRequest(c, "invalid funding wallet id")
	}

	goal, err := h.Goals.Create(c.Request().Context(), userID, req.Name, req.TargetAmount, fundingWalletID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, goal)
}

// Update edits goal fields.
func (h *GoalHandler) Update(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	var req GoalRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if !req.TargetAmount.IsPositive() {
		return badRequest(c, "target amount must be positive")
	}

	fundingWalletID, err := parseOptionalUUID(req.FundingWalletID)
	if err != nil {
		return badRequest(c, "invalid funding wallet id")
	}

	goal, err := h.Goals.Update(c.Request().Context(), userID, goalID, req.Name, req.TargetAmount, fundingWalletID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, goal)
}

// Contribute moves money from the funding wallet into the goal.
func (h *GoalHandler) Contribute(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	var req ContributeRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	goal, applied, err := h.Goals.Contribute(c.Request().Context(), userID, goalID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "goal not found")
		case errors.Is(err, repository.ErrWalletMissing):
			return badRequest(c, "goal has no funding wallet")
		case errors.Is(err, repository.ErrInvalidAmount):
			return badRequest(c, "amount must be positive")
		case errors.Is(err, repository.ErrInsufficientFunds):
			return badRequest(c, "insufficient funds")
		default:
			return serverError(c)
		}
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	if goal.SavedAmount.GreaterThanOrEqual(goal.TargetAmount) {
		publishGoalReached(h.Notifier, userID, goal.ID, goal.Name)
	}

	return c.JSON(http.StatusOK, ContributeResponse{Applied: applied, Goal: goal})
}

// Delete removes a goal without refunding contributions.
func (h *GoalHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid goal id")
	}

	if err := h.Goals.Delete(c.Request().Context(), userID, goalID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "goal not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseOptionalUUID(value *string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	parsed, err := uuid.Parse(*value)
	if err != nil {
		return nil, err
	}

	return &parsed, nil
}
