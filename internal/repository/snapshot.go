package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/peso-tracker/internal/models"
)

type SnapshotRepository struct {
	db *pgxpool.Pool
}

// Snapshot is the full per-user dataset as one document, used for backup
// and restore.
type Snapshot struct {
	Wallets      []models.Wallet      `json:"wallets"`
	Transactions []models.Transaction `json:"transactions"`
	Wants        []models.Want        `json:"wants"`
	Budgets      models.Budget        `json:"budgets"`
	Goals        []models.Goal        `json:"goals"`
	Installments []models.Installment `json:"installments"`
}

// NewSnapshotRepository creates the backup repository.
func NewSnapshotRepository(db *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Export collects everything the user owns into one snapshot.
func (r *SnapshotRepository) Export(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	var err error

	wallets := NewWalletRepository(r.db)
	transactions := NewTransactionRepository(r.db)
	wants := NewWantRepository(r.db)
	budgets := NewBudgetRepository(r.db)
	goals := NewGoalRepository(r.db)
	installments := NewInstallmentRepository(r.db)

	if snap.Wallets, err = wallets.List(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Transactions, err = transactions.List(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Wants, err = wants.List(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Budgets, err = budgets.Get(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Goals, err = goals.List(ctx, userID); err != nil {
		return snap, err
	}
	if snap.Installments, err = installments.List(ctx, userID); err != nil {
		return snap, err
	}

	return snap, nil
}

// Restore replaces the user's entire dataset with the snapshot in one
// commit. Rows are written as-is, balances included, so a snapshot taken
// with Export restores to exactly the same state.
func (r *SnapshotRepository) Restore(ctx context.Context, userID uuid.UUID, snap Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, table := range []string{"transactions", "installments", "goals", "wants", "wallets", "budgets"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return err
		}
	}

	for _, w := range snap.Wallets {
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO wallets (id, user_id, name, balance, created_at)
			 VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5::timestamptz, '0001-01-01'::timestamptz), NOW()))`,
			w.ID, userID, w.Name, w.Balance, w.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	for _, t := range snap.Transactions {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO transactions (id, user_id, date, wallet_id, to_wallet_id, amount, place, type, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE(NULLIF($9::timestamptz, '0001-01-01'::timestamptz), NOW()))`,
			t.ID, userID, t.Date, t.WalletID, t.ToWalletID, t.Amount, t.Place, t.Type, t.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	for _, w := range snap.Wants {
		if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO wants (id, user_id, name, price, priority, notes, bought_at, actual_price, bought_from_wallet, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE(NULLIF($10::timestamptz, '0001-01-01'::timestamptz), NOW()))`,
			w.ID, userID, w.Name, w.Price, w.Priority, w.Notes, w.BoughtAt, w.ActualPrice, w.BoughtFromWallet, w.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	for _, g := range snap.Goals {
		if g.ID == uuid.Nil {
			g.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO goals (id, user_id, name, target_amount, funding_wallet_id, saved_amount, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, COALESCE(NULLIF($7::timestamptz, '0001-01-01'::timestamptz), NOW()))`,
			g.ID, userID, g.Name, g.TargetAmount, g.FundingWalletID, g.SavedAmount, g.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	for _, inst := range snap.Installments {
		if inst.ID == uuid.Nil {
			inst.ID = uuid.New()
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO installments (id, user_id, name, monthly_amount, months, total, weekly_suggested, paid_amount, want_id, weekly_start_date, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, COALESCE(NULLIF($11::timestamptz, '0001-01-01'::timestamptz), NOW()))`,
			inst.ID, userID, inst.Name, inst.MonthlyAmount, inst.Months, inst.Total,
			inst.WeeklySuggested, inst.PaidAmount, inst.WantID, inst.WeeklyStartDate, inst.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO budgets (user_id, weekly, monthly)
		 VALUES ($1, $2, $3)`,
		userID, snap.Budgets.Weekly, snap.Budgets.Monthly,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
