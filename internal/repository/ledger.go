package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"example.com/peso-tracker/internal/ledger"
	"example.com/peso-tracker/internal/models"
)

// applyEntries adds each ledger delta to its wallet inside the supplied
// transaction. When required is true a missing wallet aborts with
// ErrWalletMissing; otherwise the entry is skipped, matching the reversion
// paths where the wallet may have been deleted since the row was written.
func applyEntries(ctx context.Context, tx pgx.Tx, userID uuid.UUID, entries []ledger.Entry, required bool) error {
	for _, entry := range entries {
		cmd, err := tx.Exec(ctx,
			`UPDATE wallets
			 SET balance = balance + $3
			 WHERE id = $1 AND user_id = $2`,
			entry.WalletID, userID, entry.Delta,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 && required {
			return ErrWalletMissing
		}
	}
	return nil
}

// insertTransaction writes a transaction row inside an open database
// transaction. Every balance effect in this package goes through the same
// commit as its transaction row.
func insertTransaction(ctx context.Context, tx pgx.Tx, t models.Transaction) (models.Transaction, error) {
	err := tx.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, date, wallet_id, to_wallet_id, amount, place, type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		t.ID, t.UserID, t.Date, t.WalletID, t.ToWalletID, t.Amount, t.Place, t.Type,
	).Scan(&t.CreatedAt)
	return t, err
}

func todayDate() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
