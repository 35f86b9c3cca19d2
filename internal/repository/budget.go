package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/models"
)

type BudgetRepository struct {
	db *pgxpool.Pool
}

// NewBudgetRepository creates the budget-settings repository.
func NewBudgetRepository(db *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{db: db}
}

func defaultBudget() models.Budget {
	now := time.Now().UTC()
	return models.Budget{
		Weekly: models.WeeklyBudget{
			AllowanceAmount: decimal.Zero,
			FixedExpenses:   []models.FixedExpense{},
			CreatedAt:       now,
		},
		Monthly: models.MonthlyBudget{
			FixedExpenses: []models.FixedExpense{},
			CreatedAt:     now,
		},
	}
}

// Get returns the user's budget settings, or empty defaults when none have
// been saved yet.
func (r *BudgetRepository) Get(ctx context.Context, userID uuid.UUID) (models.Budget, error) {
	var budget models.Budget

	err := r.db.QueryRow(ctx,
		`SELECT weekly, monthly
		 FROM budgets
		 WHERE user_id = $1`,
		userID,
	).Scan(&budget.Weekly, &budget.Monthly)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return defaultBudget(), nil
		}
		return budget, err
	}

	if budget.Weekly.FixedExpenses == nil {
		budget.Weekly.FixedExpenses = []models.FixedExpense{}
	}
	if budget.Monthly.FixedExpenses == nil {
		budget.Monthly.FixedExpenses = []models.FixedExpense{}
	}

	return budget, nil
}

// SaveWeekly replaces the weekly section and leaves monthly untouched. The
// section keeps its original createdAt once set.
func (r *BudgetRepository) SaveWeekly(ctx context.Context, userID uuid.UUID, weekly models.WeeklyBudget) (models.Budget, error) {
	budget, err := r.Get(ctx, userID)
	if err != nil {
		return budget, err
	}

	if !budget.Weekly.CreatedAt.IsZero() {
		weekly.CreatedAt = budget.Weekly.CreatedAt
	} else if weekly.CreatedAt.IsZero() {
		weekly.CreatedAt = time.Now().UTC()
	}
	if weekly.FixedExpenses == nil {
		weekly.FixedExpenses = []models.FixedExpense{}
	}
	budget.Weekly = weekly

	return budget, r.save(ctx, userID, budget)
}

// SaveMonthly replaces the monthly section and leaves weekly untouched.
func (r *BudgetRepository) SaveMonthly(ctx context.Context, userID uuid.UUID, monthly models.MonthlyBudget) (models.Budget, error) {
	budget, err := r.Get(ctx, userID)
	if err != nil {
		return budget, err
	}

	if !budget.Monthly.CreatedAt.IsZero() {
		monthly.CreatedAt = budget.Monthly.CreatedAt
	} else if monthly.CreatedAt.IsZero() {
		monthly.CreatedAt = time.Now().UTC()
	}
	if monthly.FixedExpenses == nil {
		monthly.FixedExpenses = []models.FixedExpense{}
	}
	budget.Monthly = monthly

	return budget, r.save(ctx, userID, budget)
}

func (r *BudgetRepository) save(ctx context.Context, userID uuid.UUID, budget models.Budget) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO budgets (user_id, weekly, monthly)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET weekly = EXCLUDED.weekly, monthly = EXCLUDED.monthly`,
		userID, budget.Weekly, budget.Monthly,
	)
	return err
}
