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

type TransactionRepository struct {
	db *pgxpool.Pool
}

type TransactionInput struct {
	Date       time.Time
	WalletID   uuid.UUID
	ToWalletID *uuid.UUID
	Amount     decimal.Decimal
	Place      string
	Type       models.TransactionType
}

type TransferInput struct {
	Date         time.Time
	FromWalletID uuid.UUID
	ToWalletID   uuid.UUID
	Amount       decimal.Decimal
	Note         string
}

// NewTransactionRepository creates the transaction repository.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Add writes an income or expense row and its wallet effect in one commit.
// Transfers go through AddTransfer, which validates both legs.
func (r *TransactionRepository) Add(ctx context.Context, userID uuid.UUID, in TransactionInput) (models.Transaction, error) {
	var t models.Transaction

	if in.Type != models.TransactionIncome && in.Type != models.TransactionExpense {
		return t, ErrInvalid
	}
	place := strings.TrimSpace(in.Place)
	if place == "" {
		return t, ErrInvalid
	}
	if !in.Amount.IsPositive() {
		return t, ErrInvalidAmount
	}

	t = models.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Date:     in.Date,
		WalletID: in.WalletID,
		Amount:   in.Amount,
		Place:    place,
		Type:     in.Type,
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	t, err = insertTransaction(ctx, tx, t)
	if err != nil {
		return t, err
	}

	if err := applyEntries(ctx, tx, userID, ledger.Effects(t), true); err != nil {
		return t, err
	}

	return t, tx.Commit(ctx)
}

// Update edits a transaction's financial fields. In one commit it reverts
// the original effect on the original wallet(s), including both legs of a
// transfer, then applies the new effect on the possibly different
// wallet(s) and writes the merged row. A crash can never leave the edit
// half applied.
func (r *TransactionRepository) Update(ctx context.Context, userID, id uuid.UUID, in TransactionInput) (models.Transaction, error) {
	var updated models.Transaction

	place := strings.TrimSpace(in.Place)
	if place == "" {
		return updated, ErrInvalid
	}
	if !in.Amount.IsPositive() {
		return updated, ErrInvalidAmount
	}
	if in.Type == models.TransactionTransfer {
		if in.ToWalletID == nil || *in.ToWalletID == in.WalletID {
			return updated, ErrInvalid
		}
	} else {
		in.ToWalletID = nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return updated, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	old, err := getTransactionForUpdate(ctx, tx, userID, id)
	if err != nil {
		return updated, err
	}

	// Reversion tolerates wallets deleted since the row was written.
	if err := applyEntries(ctx, tx, userID, ledger.Inverse(ledger.Effects(old)), false); err != nil {
		return updated, err
	}

	updated = old
	updated.Date = in.Date
	updated.WalletID = in.WalletID
	updated.ToWalletID = in.ToWalletID
	updated.Amount = in.Amount
	updated.Place = place
	updated.Type = in.Type

	if err := applyEntries(ctx, tx, userID, ledger.Effects(updated), true); err != nil {
		return updated, err
	}

	_, err = tx.Exec(ctx,
		`UPDATE transactions
		 SET date = $3, wallet_id = $4, to_wallet_id = $5, amount = $6, place = $7, type = $8
		 WHERE id = $1 AND user_id = $2`,
		id, userID, updated.Date, updated.WalletID, updated.ToWalletID, updated.Amount, updated.Place, updated.Type,
	)
	if err != nil {
		return updated, err
	}

	return updated, tx.Commit(ctx)
}

// Delete removes a transaction and reverts its balance effect in one commit.
func (r *TransactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	t, err := getTransactionForUpdate(ctx, tx, userID, id)
	if err != nil {
		return err
	}

	if err := applyEntries(ctx, tx, userID, ledger.Inverse(ledger.Effects(t)), false); err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM transactions
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// AddTransfer moves funds between two wallets. Every check runs before any
// write and aborts on the first failure: distinct wallets, positive amount,
// source exists, destination exists, sufficient source balance.
func (r *TransactionRepository) AddTransfer(ctx context.Context, userID uuid.UUID, in TransferInput) (models.Transaction, error) {
	var t models.Transaction

	if in.FromWalletID == in.ToWalletID {
		return t, ErrInvalid
	}
	if !in.Amount.IsPositive() {
		return t, ErrInvalidAmount
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return t, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	source, err := getWalletForUpdate(ctx, tx, userID, in.FromWalletID)
	if err != nil {
		return t, err
	}
	if _, err := getWalletForUpdate(ctx, tx, userID, in.ToWalletID); err != nil {
		return t, err
	}
	if source.Balance.LessThan(in.Amount) {
		return t, ErrInsufficientFunds
	}

	place := strings.TrimSpace(in.Note)
	if place == "" {
		place = "Transfer"
	}

	toWalletID := in.ToWalletID
	t = models.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Date:       in.Date,
		WalletID:   in.FromWalletID,
		ToWalletID: &toWalletID,
		Amount:     in.Amount,
		Place:      place,
		Type:       models.TransactionTransfer,
	}

	t, err = insertTransaction(ctx, tx, t)
	if err != nil {
		return t, err
	}

	if err := applyEntries(ctx, tx, userID, ledger.Effects(t), true); err != nil {
		return t, err
	}

	return t, tx.Commit(ctx)
}

// List returns all transactions of the user, newest first.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, date, wallet_id, to_wallet_id, amount, place, type, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY date DESC, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Date, &t.WalletID, &t.ToWalletID, &t.Amount, &t.Place, &t.Type, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transactions, nil
}

func getTransactionForUpdate(ctx context.Context, tx pgx.Tx, userID, id uuid.UUID) (models.Transaction, error) {
	var t models.Transaction

	err := tx.QueryRow(ctx,
		`SELECT id, user_id, date, wallet_id, to_wallet_id, amount, place, type, created_at
		 FROM transactions
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		id, userID,
	).Scan(&t.ID, &t.UserID, &t.Date, &t.WalletID, &t.ToWalletID, &t.Amount, &t.Place, &t.Type, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, ErrNotFound
		}
		return t, err
	}

	return t, nil
}

func getWalletForUpdate(ctx context.Context, tx pgx.Tx, userID, walletID uuid.UUID) (models.Wallet, error) {
	var wallet models.Wallet

	err := tx.QueryRow(ctx,
		`SELECT id, user_id, name, balance, created_at
		 FROM wallets
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		walletID, userID,
	).Scan(&wallet.ID, &wallet.UserID, &wallet.Name, &wallet.Balance, &wallet.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return wallet, ErrWalletMissing
		}
		return wallet, err
	}

	return wallet, nil
}
