package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

type OverviewStats struct {
	TotalBalance  decimal.Decimal
	WalletCount   int
	SpentToday    decimal.Decimal
	SpentThisWeek decimal.Decimal
	SpentMonth    decimal.Decimal
	IncomeWeek    decimal.Decimal
}

type WalletActivity struct {
	WalletID uuid.UUID
	Name     string
	Income   decimal.Decimal
	Expense  decimal.Decimal
}

type RangeReport struct {
	From    time.Time
	To      time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Wallets []WalletActivity
}

// NewStatsRepository creates the reporting repository.
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Overview returns the spending summary. Transfers never count as income or
// expense, they only move money between wallets.
func (r *StatsRepository) Overview(ctx context.Context, userID uuid.UUID) (OverviewStats, error) {
	var stats OverviewStats

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(balance), 0),
		        COUNT(*)
		 FROM wallets
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalBalance, &stats.WalletCount)
	if err != nil {
		return stats, err
	}

	err = r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND date >= CURRENT_DATE), 0),
		        COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND date >= date_trunc('week', CURRENT_DATE)), 0),
		        COALESCE(SUM(amount) FILTER (WHERE type = 'expense' AND date >= date_trunc('month', CURRENT_DATE)), 0),
		        COALESCE(SUM(amount) FILTER (WHERE type = 'income' AND date >= date_trunc('week', CURRENT_DATE)), 0)
		 FROM transactions
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.SpentToday, &stats.SpentThisWeek, &stats.SpentMonth, &stats.IncomeWeek)
	if err != nil {
		return stats, err
	}

	return stats, nil
}

// Range returns income and expense totals between two dates, inclusive,
// with a per-wallet breakdown. Transfers are excluded from both sides.
func (r *StatsRepository) Range(ctx context.Context, userID uuid.UUID, from, to time.Time) (RangeReport, error) {
	report := RangeReport{From: from, To: to}
	if to.Before(from) {
		return report, ErrInvalid
	}

	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		        COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		 FROM transactions
		 WHERE user_id = $1 AND type <> 'transfer' AND date >= $2 AND date <= $3`,
		userID, from, to,
	).Scan(&report.Income, &report.Expense)
	if err != nil {
		return report, err
	}
	report.Net = report.Income.Sub(report.Expense)

	rows, err := r.db.Query(ctx,
		`SELECT w.id, w.name,
		        COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'income'), 0) AS income,
		        COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'expense'), 0) AS expense
		 FROM wallets w
		 LEFT JOIN transactions t
		        ON t.wallet_id = w.id
		       AND t.type <> 'transfer'
		       AND t.date >= $2 AND t.date <= $3
		 WHERE w.user_id = $1
		 GROUP BY w.id, w.name
		 ORDER BY w.created_at`,
		userID, from, to,
	)
	if err != nil {
		return report, err
	}
	defer rows.Close()

	report.Wallets = make([]WalletActivity, 0)
	for rows.Next() {
		var row WalletActivity
		if err := rows.Scan(&row.WalletID, &row.Name, &row.Income, &row.Expense); err != nil {
			return report, err
		}
		report.Wallets = append(report.Wallets, row)
	}

	if err := rows.Err(); err != nil {
		return report, err
	}

	return report, nil
}
