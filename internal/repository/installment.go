package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/ledger"
	"example.com/peso-tracker/internal/models"
)

// autoWantNotes marks wishlist items created implicitly by a pay-later plan.
const autoWantNotes = "Auto-created from PayLater"

type InstallmentRepository struct {
	db *pgxpool.Pool
}

type InstallmentInput struct {
	Name            string
	MonthlyAmount   decimal.Decimal
	Months          int
	WantID          *uuid.UUID
	WeeklyStartDate *time.Time
}

// PaymentResult reports what a payment actually did: the capped amount that
// was applied and whether the plan is now fully settled.
type PaymentResult struct {
	Installment models.Installment
	Applied     decimal.Decimal
	Completed   bool
}

// NewInstallmentRepository creates the pay-later repository.
func NewInstallmentRepository(db *pgxpool.Pool) *InstallmentRepository {
	return &InstallmentRepository{db: db}
}

// Create adds a pay-later plan. Total and the suggested weekly payment are
// derived from the monthly amount. The plan links to a want so the item can
// be tracked as "being paid off": an explicit want id wins, otherwise an
// unbought want with the same name (case-insensitive) is reused, otherwise
// one is auto-created priced at the plan total. Plan and want land in the
// same commit.
func (r *InstallmentRepository) Create(ctx context.Context, userID uuid.UUID, in InstallmentInput) (models.Installment, error) {
	var inst models.Installment

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return inst, ErrInvalid
	}
	if !in.MonthlyAmount.IsPositive() || in.Months <= 0 {
		return inst, ErrInvalidAmount
	}

	inst = models.Installment{
		ID:              uuid.New(),
		UserID:          userID,
		Name:            name,
		MonthlyAmount:   in.MonthlyAmount,
		Months:          in.Months,
		Total:           ledger.InstallmentTotal(in.MonthlyAmount, in.Months),
		WeeklySuggested: ledger.WeeklySuggested(in.MonthlyAmount),
		PaidAmount:      decimal.Zero,
		WantID:          in.WantID,
		WeeklyStartDate: in.WeeklyStartDate,
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return inst, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if inst.WantID == nil {
		wantID, err := findOrCreateWant(ctx, tx, userID, name, inst.Total)
		if err != nil {
			return inst, err
		}
		inst.WantID = &wantID
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO installments (id, user_id, name, monthly_amount, months, total, weekly_suggested, paid_amount, want_id, weekly_start_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		inst.ID, inst.UserID, inst.Name, inst.MonthlyAmount, inst.Months, inst.Total,
		inst.WeeklySuggested, inst.PaidAmount, inst.WantID, inst.WeeklyStartDate,
	).Scan(&inst.CreatedAt)
	if err != nil {
		return inst, err
	}

	return inst, tx.Commit(ctx)
}

// Pay applies a payment from a wallet. Checks run in order before any
// write: plan exists, plan is not already settled, wallet exists, amount is
// positive, wallet can cover it. The amount is then capped to the remaining
// balance of the plan, and in one commit paid_amount grows, the wallet is
// debited and a matching expense transaction is logged.
func (r *InstallmentRepository) Pay(ctx context.Context, userID, instID, walletID uuid.UUID, amount decimal.Decimal) (PaymentResult, error) {
	var result PaymentResult

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return result, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	inst, err := getInstallmentForUpdate(ctx, tx, userID, instID)
	if err != nil {
		return result, err
	}
	if inst.PaidAmount.GreaterThanOrEqual(inst.Total) {
		return result, ErrAlreadyPaid
	}

	wallet, err := getWalletForUpdate(ctx, tx, userID, walletID)
	if err != nil {
		return result, err
	}
	if !amount.IsPositive() {
		return result, ErrInvalidAmount
	}
	if amount.GreaterThan(wallet.Balance) {
		return result, ErrInsufficientFunds
	}

	applied := ledger.CapToRemaining(amount, inst.Total.Sub(inst.PaidAmount))

	_, err = tx.Exec(ctx,
		`UPDATE installments
		 SET paid_amount = paid_amount + $3
		 WHERE id = $1 AND user_id = $2`,
		instID, userID, applied,
	)
	if err != nil {
		return result, err
	}

	record := models.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Date:     todayDate(),
		WalletID: wallet.ID,
		Amount:   applied,
		Place:    "Installment: " + inst.Name,
		Type:     models.TransactionExpense,
	}
	if _, err := insertTransaction(ctx, tx, record); err != nil {
		return result, err
	}
	if err := applyEntries(ctx, tx, userID, ledger.Effects(record), true); err != nil {
		return result, err
	}

	inst.PaidAmount = inst.PaidAmount.Add(applied)
	result = PaymentResult{
		Installment: inst,
		Applied:     applied,
		Completed:   inst.PaidAmount.GreaterThanOrEqual(inst.Total),
	}

	return result, tx.Commit(ctx)
}

// UpdateStartDate sets the start of the weekly payment cycle. The current
// week number is always derived from it, never stored.
func (r *InstallmentRepository) UpdateStartDate(ctx context.Context, userID, instID uuid.UUID, start time.Time) (models.Installment, error) {
	var inst models.Installment

	err := r.db.QueryRow(ctx,
		`UPDATE installments
		 SET weekly_start_date = $3
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, monthly_amount, months, total, weekly_suggested, paid_amount, want_id, weekly_start_date, created_at`,
		instID, userID, start,
	).Scan(&inst.ID, &inst.UserID, &inst.Name, &inst.MonthlyAmount, &inst.Months, &inst.Total,
		&inst.WeeklySuggested, &inst.PaidAmount, &inst.WantID, &inst.WeeklyStartDate, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inst, ErrNotFound
		}
		return inst, err
	}

	return inst, nil
}

// Delete removes a plan. Payments already made stay in the transaction log.
func (r *InstallmentRepository) Delete(ctx context.Context, userID, instID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM installments
		 WHERE id = $1 AND user_id = $2`,
		instID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all plans of the user, oldest first.
func (r *InstallmentRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Installment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, monthly_amount, months, total, weekly_suggested, paid_amount, want_id, weekly_start_date, created_at
		 FROM installments
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	installments := make([]models.Installment, 0)
	for rows.Next() {
		var inst models.Installment
		err := rows.Scan(&inst.ID, &inst.UserID, &inst.Name, &inst.MonthlyAmount, &inst.Months, &inst.Total,
			&inst.WeeklySuggested, &inst.PaidAmount, &inst.WantID, &inst.WeeklyStartDate, &inst.CreatedAt)
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return installments, nil
}

func getInstallmentForUpdate(ctx context.Context, tx pgx.Tx, userID, instID uuid.UUID) (models.Installment, error) {
	var inst models.Installment

	err := tx.QueryRow(ctx,
		`SELECT id, user_id, name, monthly_amount, months, total, weekly_suggested, paid_amount, want_id, weekly_start_date, created_at
		 FROM installments
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		instID, userID,
	).Scan(&inst.ID, &inst.UserID, &inst.Name, &inst.MonthlyAmount, &inst.Months, &inst.Total,
		&inst.WeeklySuggested, &inst.PaidAmount, &inst.WantID, &inst.WeeklyStartDate, &inst.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inst, ErrNotFound
		}
		return inst, err
	}

	return inst, nil
}

func findOrCreateWant(ctx context.Context, tx pgx.Tx, userID uuid.UUID, name string, price decimal.Decimal) (uuid.UUID, error) {
	var wantID uuid.UUID

	err := tx.QueryRow(ctx,
		`SELECT id
		 FROM wants
		 WHERE user_id = $1 AND bought_at IS NULL AND LOWER(name) = LOWER($2)
		 ORDER BY created_at
		 LIMIT 1`,
		userID, name,
	).Scan(&wantID)
	if err == nil {
		return wantID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return wantID, err
	}

	wantID = uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO wants (id, user_id, name, price, priority, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		wantID, userID, name, price, 3, autoWantNotes,
	)
	return wantID, err
}
