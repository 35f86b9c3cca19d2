package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/ledger"
	"example.com/peso-tracker/internal/models"
	"example.com/peso-tracker/internal/notifications"
	"example.com/peso-tracker/internal/repository"
)

type InstallmentHandler struct {
	Installments *repository.InstallmentRepository
	Wallets      *repository.WalletRepository
	Notifier     *notifications.Hub
}

// NewInstallmentHandler creates the pay-later handler.
func NewInstallmentHandler(installments *repository.InstallmentRepository, wallets *repository.WalletRepository, notifier *notifications.Hub) *InstallmentHandler {
	return &InstallmentHandler{Installments: installments, Wallets: wallets, Notifier: notifier}
}

type InstallmentRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount"`
	Months          int             `json:"months" validate:"required,min=1"`
	WantID          *string         `json:"want_id" validate:"omitempty,uuid"`
	WeeklyStartDate *string         `json:"weekly_start_date"`
}

type PayInstallmentRequest struct {
	WalletID string          `json:"wallet_id" validate:"required,uuid"`
	Amount   decimal.Decimal `json:"amount"`
}

type StartDateRequest struct {
	WeeklyStartDate string `json:"weekly_start_date" validate:"required"`
}

type InstallmentResponse struct {
	models.Installment
	CurrentWeek int  `json:"current_week"`
	Completed   bool `json:"completed"`
}

type PayInstallmentResponse struct {
	Applied     decimal.Decimal     `json:"applied"`
	Completed   bool                `json:"completed"`
	Installment InstallmentResponse `json:"installment"`
}

// List returns all plans with their derived week number.
func (h *InstallmentHandler) List(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	installments, err := h.Installments.List(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	response := make([]InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		response = append(response, toInstallmentResponse(inst))
	}

	return c.JSON(http.StatusOK, response)
}

// Create adds a pay-later plan.
func (h *InstallmentHandler) Create(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req InstallmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	wantID, err := parseOptionalUUID(req.WantID)
	if err != nil {
		return badRequest(c, "invalid want id")
	}

	var startDate *time.Time
	if req.WeeklyStartDate != nil && *req.WeeklyStartDate != "" {
		parsed, err := parseDate(*req.WeeklyStartDate)
		if err != nil {
			return badRequest(c, "invalid start date")
		}
		startDate = &parsed
	}

	inst, err := h.Installments.Create(c.Request().Context(), userID, repository.InstallmentInput{
		Name:            req.Name,
		MonthlyAmount:   req.MonthlyAmount,
		Months:          req.Months,
		WantID:          wantID,
		WeeklyStartDate: startDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidAmount):
			return badRequest(c, "monthly amount and months must be positive")
		case errors.Is(err, repository.ErrInvalid):
			return badRequest(c, "name is required")
		default:
			return serverError(c)
		}
	}

	return c.JSON(http.StatusCreated, toInstallmentResponse(inst))
}

// Pay applies a payment to a plan from a wallet.
func (h *InstallmentHandler) Pay(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	instID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid installment id")
	}

	var req PayInstallmentRequest
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

	result, err := h.Installments.Pay(c.Request().Context(), userID, instID, walletID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return notFound(c, "installment not found")
		case errors.Is(err, repository.ErrAlreadyPaid):
			return conflict(c, "installment already paid off")
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
	if result.Completed {
		publishPlanSettled(h.Notifier, userID, result.Installment.ID, result.Installment.Name)
	}

	return c.JSON(http.StatusOK, PayInstallmentResponse{
		Applied:     result.Applied,
		Completed:   result.Completed,
		Installment: toInstallmentResponse(result.Installment),
	})
}

// UpdateStartDate sets the start of the weekly payment cycle.
func (h *InstallmentHandler) UpdateStartDate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	instID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid installment id")
	}

	var req StartDateRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err = c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	start, err := parseDate(req.WeeklyStartDate)
	if err != nil {
		return badRequest(c, "invalid start date")
	}

	inst, err := h.Installments.UpdateStartDate(c.Request().Context(), userID, instID, start)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "installment not found")
		}
		return serverError(c)
	}

	return c.JSON(http.StatusOK, toInstallmentResponse(inst))
}

// Delete removes a plan.
func (h *InstallmentHandler) Delete(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	instID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid installment id")
	}

	if err := h.Installments.Delete(c.Request().Context(), userID, instID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "installment not found")
		}
		return serverError(c)
	}

	return c.NoContent(http.StatusNoContent)
}

func toInstallmentResponse(inst models.Installment) InstallmentResponse {
	week, _ := ledger.CurrentWeek(inst.WeeklyStartDate, time.Now().UTC())
	return InstallmentResponse{
		Installment: inst,
		CurrentWeek: week,
		Completed:   inst.PaidAmount.GreaterThanOrEqual(inst.Total),
	}
}
