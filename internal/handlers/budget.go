package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/models"
	"example.com/peso-tracker/internal/repository"
)

type BudgetHandler struct {
	Budgets *repository.BudgetRepository
}

// NewBudgetHandler creates the budget-settings handler.
func NewBudgetHandler(budgets *repository.BudgetRepository) *BudgetHandler {
	return &BudgetHandler{Budgets: budgets}
}

type FixedExpenseRequest struct {
	ID     string          `json:"id"`
	Name   string          `json:"name" validate:"required,max=100"`
	Amount decimal.Decimal `json:"amount"`
}

type WeeklyBudgetRequest struct {
	AllowanceAmount decimal.Decimal       `json:"allowanceAmount"`
	FixedExpenses   []FixedExpenseRequest `json:"fixedExpenses" validate:"dive"`
}

type MonthlyBudgetRequest struct {
	FixedExpenses []FixedExpenseRequest `json:"fixedExpenses" validate:"dive"`
}

// Get returns the budget settings, defaults included.
func (h *BudgetHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budget, err := h.Budgets.Get(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, budget)
}

// SaveWeekly replaces the weekly section.
func (h *BudgetHandler) SaveWeekly(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req WeeklyBudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if req.AllowanceAmount.IsNegative() {
		return badRequest(c, "allowance cannot be negative")
	}

	budget, err := h.Budgets.SaveWeekly(c.Request().Context(), userID, models.WeeklyBudget{
		AllowanceAmount: req.AllowanceAmount,
		FixedExpenses:   toFixedExpenses(req.FixedExpenses),
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, budget)
}

// SaveMonthly replaces the monthly section.
func (h *BudgetHandler) SaveMonthly(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req MonthlyBudgetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	budget, err := h.Budgets.SaveMonthly(c.Request().Context(), userID, models.MonthlyBudget{
		FixedExpenses: toFixedExpenses(req.FixedExpenses),
	})
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, budget)
}

func toFixedExpenses(items []FixedExpenseRequest) []models.FixedExpense {
	out := make([]models.FixedExpense, 0, len(items))
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = newFixedExpenseID()
		}
		out = append(out, models.FixedExpense{
			ID:     id,
			Name:   item.Name,
			Amount: item.Amount,
		})
	}
	return out
}
