package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome   TransactionType = "income"
	TransactionExpense  TransactionType = "expense"
	TransactionTransfer TransactionType = "transfer"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	ReplacedBy *uuid.UUID `json:"replaced_by,omitempty"`
}

// Wallet is a named pool of funds. Balance is a running total kept
// consistent with the transaction history by the repository layer.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is a dated money movement. For transfers WalletID is the
// source and ToWalletID the destination; Amount is always positive.
type Transaction struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Date       time.Time       `json:"date_iso"`
	WalletID   uuid.UUID       `json:"wallet_id"`
	ToWalletID *uuid.UUID      `json:"to_wallet_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Place      string          `json:"place"`
	Type       TransactionType `json:"type"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Want is a wishlist item. Buying it sets the bought fields and logs a
// matching expense transaction.
type Want struct {
	ID               uuid.UUID        `json:"id"`
	UserID           uuid.UUID        `json:"user_id"`
	Name             string           `json:"name"`
	Price            decimal.Decimal  `json:"price"`
	Priority         int              `json:"priority"`
	Notes            string           `json:"notes"`
	BoughtAt         *time.Time       `json:"bought_at,omitempty"`
	ActualPrice      *decimal.Decimal `json:"actual_price,omitempty"`
	BoughtFromWallet *string          `json:"bought_from_wallet,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Goal is a savings target funded incrementally from one wallet.
// Contributions are one-way: deleting a goal never refunds SavedAmount.
type Goal struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	FundingWalletID *uuid.UUID      `json:"funding_wallet_id,omitempty"`
	SavedAmount     decimal.Decimal `json:"saved_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Installment is a pay-later plan: a fixed total paid down in capped
// increments, each logged as an expense transaction.
type Installment struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Name            string          `json:"name"`
	MonthlyAmount   decimal.Decimal `json:"monthly_amount"`
	Months          int             `json:"months"`
	Total           decimal.Decimal `json:"total"`
	WeeklySuggested decimal.Decimal `json:"weekly_suggested"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	WantID          *uuid.UUID      `json:"want_id,omitempty"`
	WeeklyStartDate *time.Time      `json:"weekly_start_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type FixedExpense struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type WeeklyBudget struct {
	AllowanceAmount decimal.Decimal `json:"allowanceAmount"`
	FixedExpenses   []FixedExpense  `json:"fixedExpenses"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type MonthlyBudget struct {
	FixedExpenses []FixedExpense `json:"fixedExpenses"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// Budget is the single per-user settings document. It carries no
// cross-entity invariant.
type Budget struct {
	Weekly  WeeklyBudget  `json:"weekly"`
	Monthly MonthlyBudget `json:"monthly"`
}
