package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/repository"
)

type ReportHandler struct {
	Stats *repository.StatsRepository
}

// NewReportHandler creates the reporting handler.
func NewReportHandler(stats *repository.StatsRepository) *ReportHandler {
	return &ReportHandler{Stats: stats}
}

type OverviewResponse struct {
	TotalBalance  decimal.Decimal `json:"total_balance"`
	WalletCount   int             `json:"wallet_count"`
	SpentToday    decimal.Decimal `json:"spent_today"`
	SpentThisWeek decimal.Decimal `json:"spent_this_week"`
	SpentMonth    decimal.Decimal `json:"spent_this_month"`
	IncomeWeek    decimal.Decimal `json:"income_this_week"`
}

type WalletActivityResponse struct {
	WalletID uuid.UUID       `json:"wallet_id"`
	Name     string          `json:"name"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
}

type RangeReportResponse struct {
	From    string                   `json:"from"`
	To      string                   `json:"to"`
	Income  decimal.Decimal          `json:"income"`
	Expense decimal.Decimal          `json:"expense"`
	Net     decimal.Decimal          `json:"net"`
	Wallets []WalletActivityResponse `json:"wallets"`
}

// Overview returns the spending summary for the dashboard.
func (h *ReportHandler) Overview(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	stats, err := h.Stats.Overview(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, OverviewResponse{
		TotalBalance:  stats.TotalBalance,
		WalletCount:   stats.WalletCount,
		SpentToday:    stats.SpentToday,
		SpentThisWeek: stats.SpentThisWeek,
		SpentMonth:    stats.SpentMonth,
		IncomeWeek:    stats.IncomeWeek,
	})
}

// Range returns income and expense totals between two dates from the query
// string, with a per-wallet breakdown. Defaults to the last 30 days.
func (h *ReportHandler) Range(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now

	if value := c.QueryParam("from"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return badRequest(c, "invalid from date")
		}
		from = parsed
	}
	if value := c.QueryParam("to"); value != "" {
		parsed, err := parseDate(value)
		if err != nil {
			return badRequest(c, "invalid to date")
		}
		to = parsed
	}

	report, err := h.Stats.Range(c.Request().Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "invalid date range")
		}
		return serverError(c)
	}

	wallets := make([]WalletActivityResponse, 0, len(report.Wallets))
	for _, w := range report.Wallets {
		wallets = append(wallets, WalletActivityResponse{
			WalletID: w.WalletID,
			Name:     w.Name,
			Income:   w.Income,
			Expense:  w.Expense,
		})
	}

	return c.JSON(http.StatusOK, RangeReportResponse{
		From:    report.From.Format(dateLayout),
		To:      report.To.Format(dateLayout),
		Income:  report.Income,
		Expense: report.Expense,
		Net:     report.Net,
		Wallets: wallets,
	})
}
