package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/ledger"
	"example.com/peso-tracker/internal/models"
)

type GoalRepository struct {
	db *pgxpool.Pool
}

// NewGoalRepository creates the savings-goal repository.
func NewGoalRepository(db *pgxpool.Pool) *GoalRepository {
	return &GoalRepository{db: db}
}

// Create adds a goal with nothing saved yet.
func (r *GoalRepository) Create(ctx context.Context, userID uuid.UUID, name string, targetAmount decimal.Decimal, fundingWalletID *uuid.UUID) (models.Goal, error) {
	goal := models.Goal{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            strings.TrimSpace(name),
		TargetAmount:    targetAmount,
		FundingWalletID: fundingWalletID,
		SavedAmount:     decimal.Zero,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO goals (id, user_id, name, target_amount, funding_wallet_id, saved_amount)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.FundingWalletID, goal.SavedAmount,
	).Scan(&goal.CreatedAt)
	if err != nil {
		return goal, err
	}

	return goal, nil
}

// Contribute moves money from the funding wallet into the goal. Checks run
// in order before any write: goal exists, funding wallet exists, amount is
// positive, wallet can cover it. The amount is then capped to what the goal
// still needs, and in one commit the goal grows, the wallet shrinks and a
// matching expense transaction is logged. Returns the updated goal and the
// applied amount so the caller can report truncation.
func (r *GoalRepository) Contribute(ctx context.Context, userID, goalID uuid.UUID, amount decimal.Decimal) (models.Goal, decimal.Decimal, error) {
	var goal models.Goal

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return goal, decimal.Zero, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	goal, err = getGoalForUpdate(ctx, tx, userID, goalID)
	if err != nil {
		return goal, decimal.Zero, err
	}

	if goal.FundingWalletID == nil {
		return goal, decimal.Zero, ErrWalletMissing
	}
	wallet, err := getWalletForUpdate(ctx, tx, userID, *goal.FundingWalletID)
	if err != nil {
		return goal, decimal.Zero, err
	}

	if !amount.IsPositive() {
		return goal, decimal.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(wallet.Balance) {
		return goal, decimal.Zero, ErrInsufficientFunds
	}

	applied := ledger.CapToRemaining(amount, goal.TargetAmount.Sub(goal.SavedAmount))

	_, err = tx.Exec(ctx,
		`UPDATE goals
		 SET saved_amount = saved_amount + $3
		 WHERE id = $1 AND user_id = $2`,
		goalID, userID, applied,
	)
	if err != nil {
		return goal, decimal.Zero, err
	}

	record := models.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Date:     todayDate(),
		WalletID: wallet.ID,
		Amount:   applied,
		Place:    "Goal: " + goal.Name,
		Type:     models.TransactionExpense,
	}
	if _, err := insertTransaction(ctx, tx, record); err != nil {
		return goal, decimal.Zero, err
	}

	if err := applyEntries(ctx, tx, userID, ledger.Effects(record), true); err != nil {
		return goal, decimal.Zero, err
	}

	goal.SavedAmount = goal.SavedAmount.Add(applied)
	return goal, applied, tx.Commit(ctx)
}

// Update edits goal fields. The saved amount is owned by Contribute and
// never touched here.
func (r *GoalRepository) Update(ctx context.Context, userID, goalID uuid.UUID, name string, targetAmount decimal.Decimal, fundingWalletID *uuid.UUID) (models.Goal, error) {
	var goal models.Goal

	err := r.db.QueryRow(ctx,
		`UPDATE goals
		 SET name = $3, target_amount = $4, funding_wallet_id = $5
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, target_amount, funding_wallet_id, saved_amount, created_at`,
		goalID, userID, strings.TrimSpace(name), targetAmount, fundingWalletID,
	).Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.FundingWalletID, &goal.SavedAmount, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal, ErrNotFound
		}
		return goal, err
	}

	return goal, nil
}

// Delete removes the goal document only. Contributed funds were spent from
// the wallet when they were made and are not refunded.
func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM goals
		 WHERE id = $1 AND user_id = $2`,
		goalID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all goals of the user, oldest first.
func (r *GoalRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Goal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, target_amount, funding_wallet_id, saved_amount, created_at
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := make([]models.Goal, 0)
	for rows.Next() {
		var goal models.Goal
		err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.FundingWalletID, &goal.SavedAmount, &goal.CreatedAt)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return goals, nil
}

func getGoalForUpdate(ctx context.Context, tx pgx.Tx, userID, goalID uuid.UUID) (models.Goal, error) {
	var goal models.Goal

	err := tx.QueryRow(ctx,
		`SELECT id, user_id, name, target_amount, funding_wallet_id, saved_amount, created_at
		 FROM goals
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		goalID, userID,
	).Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.FundingWalletID, &goal.SavedAmount, &goal.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return goal, ErrNotFound
		}
		return goal, err
	}

	return goal, nil
}
