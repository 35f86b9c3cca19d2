package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/models"
)

type WalletRepository struct {
	db *pgxpool.Pool
}

// NewWalletRepository creates the wallet repository.
func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// Create adds a wallet with a starting balance.
func (r *WalletRepository) Create(ctx context.Context, userID uuid.UUID, name string, balance decimal.Decimal) (models.Wallet, error) {
	wallet := models.Wallet{
		ID:      uuid.New(),
		UserID:  userID,
		Name:    strings.TrimSpace(name),
		Balance: balance,
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO wallets (id, user_id, name, balance)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		wallet.ID, wallet.UserID, wallet.Name, wallet.Balance,
	).Scan(&wallet.CreatedAt)
	if err != nil {
		return wallet, err
	}

	return wallet, nil
}

// Update renames a wallet and sets its balance directly. The balance write
// is a manual correction and deliberately bypasses the transaction log.
func (r *WalletRepository) Update(ctx context.Context, userID, walletID uuid.UUID, name string, balance decimal.Decimal) (models.Wallet, error) {
	var wallet models.Wallet

	err := r.db.QueryRow(ctx,
		`UPDATE wallets
		 SET name = $3, balance = $4
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, balance, created_at`,
		walletID, userID, strings.TrimSpace(name), balance,
	).Scan(&wallet.ID, &wallet.UserID, &wallet.Name, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet, ErrNotFound
		}
		return wallet, err
	}

	return wallet, nil
}

// Delete removes a wallet and, in the same commit, every transaction that
// references it as source or destination, and detaches goals funded by it.
// Surviving wallets keep the balances transfers already gave them.
func (r *WalletRepository) Delete(ctx context.Context, userID, walletID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	cmd, err := tx.Exec(ctx,
		`DELETE FROM wallets
		 WHERE id = $1 AND user_id = $2`,
		walletID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM transactions
		 WHERE user_id = $2 AND (wallet_id = $1 OR to_wallet_id = $1)`,
		walletID, userID,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE goals
		 SET funding_wallet_id = NULL
		 WHERE user_id = $2 AND funding_wallet_id = $1`,
		walletID, userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Get returns one wallet of the user.
func (r *WalletRepository) Get(ctx context.Context, userID, walletID uuid.UUID) (models.Wallet, error) {
	var wallet models.Wallet

	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, balance, created_at
		 FROM wallets
		 WHERE id = $1 AND user_id = $2`,
		walletID, userID,
	).Scan(&wallet.ID, &wallet.UserID, &wallet.Name, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet, ErrNotFound
		}
		return wallet, err
	}

	return wallet, nil
}

// List returns all wallets of the user, oldest first.
func (r *WalletRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, balance, created_at
		 FROM wallets
		 WHERE user_id = $1
		 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallets := make([]models.Wallet, 0)
	for rows.Next() {
		var wallet models.Wallet
		err := rows.Scan(&wallet.ID, &wallet.UserID, &wallet.Name, &wallet.Balance, &wallet.CreatedAt)
		if err != nil {
			return nil, err
		}
		wallets = append(wallets, wallet)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wallets, nil
}

// TotalBalance sums every wallet balance of the user.
func (r *WalletRepository) TotalBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance), 0)
		 FROM wallets
		 WHERE user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
