// Package ledger holds the pure balance math behind every wallet mutation.
// Repositories apply these deltas inside a single database transaction, so
// a transaction document can never exist without its balance effect.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/models"
)

// Entry is one signed balance adjustment against one wallet.
type Entry struct {
	WalletID uuid.UUID
	Delta    decimal.Decimal
}

// Effects returns the balance adjustments a transaction applies when it is
// created: income credits its wallet, expense debits it, and a transfer
// debits the source and credits the destination.
func Effects(t models.Transaction) []Entry {
	switch t.Type {
	case models.TransactionIncome:
		return []Entry{{WalletID: t.WalletID, Delta: t.Amount}}
	case models.TransactionExpense:
		return []Entry{{WalletID: t.WalletID, Delta: t.Amount.Neg()}}
	case models.TransactionTransfer:
		entries := []Entry{{WalletID: t.WalletID, Delta: t.Amount.Neg()}}
		if t.ToWalletID != nil {
			entries = append(entries, Entry{WalletID: *t.ToWalletID, Delta: t.Amount})
		}
		return entries
	default:
		return nil
	}
}

// Inverse negates a set of entries. Editing or deleting a transaction first
// applies the inverse of its original effects.
func Inverse(entries []Entry) []Entry {
	inverted := make([]Entry, len(entries))
	for i, e := range entries {
		inverted[i] = Entry{WalletID: e.WalletID, Delta: e.Delta.Neg()}
	}
	return inverted
}

// CapToRemaining truncates a requested contribution or payment to whatever
// is still owed. Over-asking is silently capped, never rejected.
func CapToRemaining(requested, remaining decimal.Decimal) decimal.Decimal {
	if requested.GreaterThan(remaining) {
		return remaining
	}
	return requested
}

// InstallmentTotal is the full obligation of a pay-later plan.
func InstallmentTotal(monthlyAmount decimal.Decimal, months int) decimal.Decimal {
	return monthlyAmount.Mul(decimal.NewFromInt(int64(months)))
}

// WeeklySuggested is the recommended weekly payment: a quarter of the
// monthly amount, rounded to two decimal places.
func WeeklySuggested(monthlyAmount decimal.Decimal) decimal.Decimal {
	return monthlyAmount.DivRound(decimal.NewFromInt(4), 2)
}

// CurrentWeek reports which weekly cycle an installment is in:
// floor((today-start)/7)+1. It returns false when no start date is set or
// the start date is still in the future.
func CurrentWeek(start *time.Time, today time.Time) (int, bool) {
	if start == nil {
		return 0, false
	}
	startDay := start.Truncate(24 * time.Hour)
	todayDay := today.Truncate(24 * time.Hour)
	if startDay.After(todayDay) {
		return 0, false
	}
	days := int(todayDay.Sub(startDay).Hours() / 24)
	return days/7 + 1, true
}
