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

type WantRepository struct {
	db *pgxpool.Pool
}

type WantInput struct {
	Name     string
	Price    decimal.Decimal
	Priority int
	Notes    string
}

// NewWantRepository creates the wishlist repository.
func NewWantRepository(db *pgxpool.Pool) *WantRepository {
	return &WantRepository{db: db}
}

// Create adds a wishlist item.
func (r *WantRepository) Create(ctx context.Context, userID uuid.UUID, in WantInput) (models.Want, error) {
	want := models.Want{
		ID:       uuid.New(),
		UserID:   userID,
		Name:     strings.TrimSpace(in.Name),
		Price:    in.Price,
		Priority: in.Priority,
		Notes:    strings.TrimSpace(in.Notes),
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO wants (id, user_id, name, price, priority, notes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		want.ID, want.UserID, want.Name, want.Price, want.Priority, want.Notes,
	).Scan(&want.CreatedAt)
	if err != nil {
		return want, err
	}

	return want, nil
}

// Update edits a wishlist item's descriptive fields.
func (r *WantRepository) Update(ctx context.Context, userID, wantID uuid.UUID, in WantInput) (models.Want, error) {
	var want models.Want

	err := r.db.QueryRow(ctx,
		`UPDATE wants
		 SET name = $3, price = $4, priority = $5, notes = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, name, price, priority, notes, bought_at, actual_price, bought_from_wallet, created_at`,
		wantID, userID, strings.TrimSpace(in.Name), in.Price, in.Priority, strings.TrimSpace(in.Notes),
	).Scan(&want.ID, &want.UserID, &want.Name, &want.Price, &want.Priority, &want.Notes,
		&want.BoughtAt, &want.ActualPrice, &want.BoughtFromWallet, &want.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return want, ErrNotFound
		}
		return want, err
	}

	return want, nil
}

// Buy marks a want as purchased and logs the matching expense in one
// commit: the want gets its bought fields, the wallet is debited, and a
// "Bought: <name>" transaction dated today is written.
func (r *WantRepository) Buy(ctx context.Context, userID, wantID, walletID uuid.UUID, amount decimal.Decimal) (models.Want, error) {
	var want models.Want

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return want, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = tx.QueryRow(ctx,
		`SELECT id, user_id, name, price, priority, notes, bought_at, actual_price, bought_from_wallet, created_at
		 FROM wants
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE`,
		wantID, userID,
	).Scan(&want.ID, &want.UserID, &want.Name, &want.Price, &want.Priority, &want.Notes,
		&want.BoughtAt, &want.ActualPrice, &want.BoughtFromWallet, &want.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return want, ErrNotFound
		}
		return want, err
	}
	if want.BoughtAt != nil {
		return want, ErrConflict
	}

	wallet, err := getWalletForUpdate(ctx, tx, userID, walletID)
	if err != nil {
		return want, err
	}
	if !amount.IsPositive() {
		return want, ErrInvalidAmount
	}
	if amount.GreaterThan(wallet.Balance) {
		return want, ErrInsufficientFunds
	}

	boughtAt := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE wants
		 SET bought_at = $3, actual_price = $4, bought_from_wallet = $5
		 WHERE id = $1 AND user_id = $2`,
		wantID, userID, boughtAt, amount, wallet.Name,
	)
	if err != nil {
		return want, err
	}

	record := models.Transaction{
		ID:       uuid.New(),
		UserID:   userID,
		Date:     todayDate(),
		WalletID: wallet.ID,
		Amount:   amount,
		Place:    "Bought: " + want.Name,
		Type:     models.TransactionExpense,
	}
	if _, err := insertTransaction(ctx, tx, record); err != nil {
		return want, err
	}
	if err := applyEntries(ctx, tx, userID, ledger.Effects(record), true); err != nil {
		return want, err
	}

	want.BoughtAt = &boughtAt
	want.ActualPrice = &amount
	walletName := wallet.Name
	want.BoughtFromWallet = &walletName

	return want, tx.Commit(ctx)
}

// Delete removes a wishlist item (active or bought history entry).
func (r *WantRepository) Delete(ctx context.Context, userID, wantID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM wants
		 WHERE id = $1 AND user_id = $2`,
		wantID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns all wants of the user: unbought first by priority, then
// bought history, newest purchases first.
func (r *WantRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Want, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, price, priority, notes, bought_at, actual_price, bought_from_wallet, created_at
		 FROM wants
		 WHERE user_id = $1
		 ORDER BY bought_at NULLS FIRST, priority, created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wants := make([]models.Want, 0)
	for rows.Next() {
		var want models.Want
		err := rows.Scan(&want.ID, &want.UserID, &want.Name, &want.Price, &want.Priority, &want.Notes,
			&want.BoughtAt, &want.ActualPrice, &want.BoughtFromWallet, &want.CreatedAt)
		if err != nil {
			return nil, err
		}
		wants = append(wants, want)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return wants, nil
}
