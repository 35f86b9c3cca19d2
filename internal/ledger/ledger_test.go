package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"example.com/peso-tracker/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// apply mirrors what the repositories do inside a database transaction:
// add each delta to its wallet's balance.
func apply(balances map[uuid.UUID]decimal.Decimal, entries []Entry) {
	for _, e := range entries {
		balances[e.WalletID] = balances[e.WalletID].Add(e.Delta)
	}
}

// TestEffectsIncomeExpense checks the sign of single-wallet effects.
func TestEffectsIncomeExpense(t *testing.T) {
	wallet := uuid.New()

	income := Effects(models.Transaction{Type: models.TransactionIncome, WalletID: wallet, Amount: dec("500")})
	if len(income) != 1 || !income[0].Delta.Equal(dec("500")) {
		t.Fatalf("expected single +500 entry, got %v", income)
	}

	expense := Effects(models.Transaction{Type: models.TransactionExpense, WalletID: wallet, Amount: dec("200")})
	if len(expense) != 1 || !expense[0].Delta.Equal(dec("-200")) {
		t.Fatalf("expected single -200 entry, got %v", expense)
	}
}

// TestEffectsTransfer checks both legs of a transfer.
func TestEffectsTransfer(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()

	entries := Effects(models.Transaction{
		Type:       models.TransactionTransfer,
		WalletID:   src,
		ToWalletID: &dst,
		Amount:     dec("100"),
	})
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].WalletID != src || !entries[0].Delta.Equal(dec("-100")) {
		t.Fatalf("unexpected source leg: %v", entries[0])
	}
	if entries[1].WalletID != dst || !entries[1].Delta.Equal(dec("100")) {
		t.Fatalf("unexpected destination leg: %v", entries[1])
	}
}

// TestTransferRoundTrip verifies balances after a transfer of 100 A→B.
func TestTransferRoundTrip(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	balances := map[uuid.UUID]decimal.Decimal{a: dec("250"), b: dec("40")}

	apply(balances, Effects(models.Transaction{
		Type: models.TransactionTransfer, WalletID: a, ToWalletID: &b, Amount: dec("100"),
	}))

	if !balances[a].Equal(dec("150")) {
		t.Fatalf("expected source 150, got %s", balances[a])
	}
	if !balances[b].Equal(dec("140")) {
		t.Fatalf("expected destination 140, got %s", balances[b])
	}
}

// TestEditReappliesEffect covers editing an expense of 50 into an income of
// 30 on the same wallet: revert -(−50) then apply +30, a net +80 change.
func TestEditReappliesEffect(t *testing.T) {
	wallet := uuid.New()
	balances := map[uuid.UUID]decimal.Decimal{wallet: dec("1000")}

	old := models.Transaction{Type: models.TransactionExpense, WalletID: wallet, Amount: dec("50")}
	apply(balances, Effects(old))
	if !balances[wallet].Equal(dec("950")) {
		t.Fatalf("expected 950 after expense, got %s", balances[wallet])
	}

	edited := models.Transaction{Type: models.TransactionIncome, WalletID: wallet, Amount: dec("30")}
	apply(balances, Inverse(Effects(old)))
	apply(balances, Effects(edited))

	if !balances[wallet].Equal(dec("1030")) {
		t.Fatalf("expected 1030 after edit, got %s", balances[wallet])
	}
}

// TestEditMovesWallet covers an edit that also changes the wallet: the old
// wallet is made whole and the new wallet takes the new effect.
func TestEditMovesWallet(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	balances := map[uuid.UUID]decimal.Decimal{a: dec("500"), b: dec("500")}

	old := models.Transaction{Type: models.TransactionExpense, WalletID: a, Amount: dec("120")}
	apply(balances, Effects(old))

	edited := models.Transaction{Type: models.TransactionExpense, WalletID: b, Amount: dec("120")}
	apply(balances, Inverse(Effects(old)))
	apply(balances, Effects(edited))

	if !balances[a].Equal(dec("500")) {
		t.Fatalf("expected original wallet restored to 500, got %s", balances[a])
	}
	if !balances[b].Equal(dec("380")) {
		t.Fatalf("expected new wallet at 380, got %s", balances[b])
	}
}

// TestLedgerScenario walks the add/transfer/delete sequence: start at 1000,
// expense 200, income 500, transfer 300 to an empty wallet, then delete the
// expense.
func TestLedgerScenario(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	balances := map[uuid.UUID]decimal.Decimal{a: dec("1000"), b: dec("0")}

	expense := models.Transaction{Type: models.TransactionExpense, WalletID: a, Amount: dec("200")}
	apply(balances, Effects(expense))
	if !balances[a].Equal(dec("800")) {
		t.Fatalf("after expense expected 800, got %s", balances[a])
	}

	income := models.Transaction{Type: models.TransactionIncome, WalletID: a, Amount: dec("500")}
	apply(balances, Effects(income))
	if !balances[a].Equal(dec("1300")) {
		t.Fatalf("after income expected 1300, got %s", balances[a])
	}

	transfer := models.Transaction{Type: models.TransactionTransfer, WalletID: a, ToWalletID: &b, Amount: dec("300")}
	apply(balances, Effects(transfer))
	if !balances[a].Equal(dec("1000")) || !balances[b].Equal(dec("300")) {
		t.Fatalf("after transfer expected 1000/300, got %s/%s", balances[a], balances[b])
	}

	apply(balances, Inverse(Effects(expense)))
	if !balances[a].Equal(dec("1200")) {
		t.Fatalf("after deleting expense expected 1200, got %s", balances[a])
	}
}

// TestBalanceEqualsNetOfHistory replays a random-ish sequence of adds,
// edits and deletes and checks the final balance equals the creation
// balance plus the net effect of the surviving transactions.
func TestBalanceEqualsNetOfHistory(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	start := map[uuid.UUID]decimal.Decimal{a: dec("1000"), b: dec("500")}
	balances := map[uuid.UUID]decimal.Decimal{a: start[a], b: start[b]}

	live := map[int]models.Transaction{}
	add := func(key int, tx models.Transaction) {
		live[key] = tx
		apply(balances, Effects(tx))
	}
	edit := func(key int, tx models.Transaction) {
		apply(balances, Inverse(Effects(live[key])))
		live[key] = tx
		apply(balances, Effects(tx))
	}
	remove := func(key int) {
		apply(balances, Inverse(Effects(live[key])))
		delete(live, key)
	}

	add(1, models.Transaction{Type: models.TransactionExpense, WalletID: a, Amount: dec("75.25")})
	add(2, models.Transaction{Type: models.TransactionIncome, WalletID: b, Amount: dec("210.10")})
	add(3, models.Transaction{Type: models.TransactionTransfer, WalletID: a, ToWalletID: &b, Amount: dec("50")})
	edit(1, models.Transaction{Type: models.TransactionExpense, WalletID: b, Amount: dec("99.99")})
	add(4, models.Transaction{Type: models.TransactionIncome, WalletID: a, Amount: dec("12.34")})
	remove(2)
	edit(3, models.Transaction{Type: models.TransactionTransfer, WalletID: b, ToWalletID: &a, Amount: dec("25")})
	remove(4)

	expected := map[uuid.UUID]decimal.Decimal{a: start[a], b: start[b]}
	for _, tx := range live {
		apply(expected, Effects(tx))
	}

	for _, w := range []uuid.UUID{a, b} {
		if !balances[w].Equal(expected[w]) {
			t.Fatalf("wallet %s drifted: balance %s, net of history %s", w, balances[w], expected[w])
		}
	}
}

// TestCapToRemaining checks over-contributions are truncated exactly.
func TestCapToRemaining(t *testing.T) {
	if got := CapToRemaining(dec("500"), dec("120")); !got.Equal(dec("120")) {
		t.Fatalf("expected cap to 120, got %s", got)
	}
	if got := CapToRemaining(dec("100"), dec("120")); !got.Equal(dec("100")) {
		t.Fatalf("expected 100 untouched, got %s", got)
	}
	if got := CapToRemaining(dec("120"), dec("120")); !got.Equal(dec("120")) {
		t.Fatalf("expected exact remaining to pass, got %s", got)
	}
}

// TestInstallmentMath covers the 1200×5 plan: total 6000, weekly 300, four
// payments of 300, then a 5000 payment capped to the remaining 4800.
func TestInstallmentMath(t *testing.T) {
	monthly := dec("1200")
	total := InstallmentTotal(monthly, 5)
	if !total.Equal(dec("6000")) {
		t.Fatalf("expected total 6000, got %s", total)
	}

	weekly := WeeklySuggested(monthly)
	if !weekly.Equal(dec("300")) {
		t.Fatalf("expected weekly 300, got %s", weekly)
	}

	paid := decimal.Zero
	for i := 0; i < 4; i++ {
		paid = paid.Add(CapToRemaining(dec("300"), total.Sub(paid)))
	}
	if !paid.Equal(dec("1200")) {
		t.Fatalf("expected 1200 paid after four payments, got %s", paid)
	}
	if paid.GreaterThanOrEqual(total) {
		t.Fatal("plan must not be completed yet")
	}

	applied := CapToRemaining(dec("5000"), total.Sub(paid))
	if !applied.Equal(dec("4800")) {
		t.Fatalf("expected final payment capped to 4800, got %s", applied)
	}
	paid = paid.Add(applied)
	if !paid.Equal(total) {
		t.Fatalf("expected paid == total, got %s", paid)
	}
}

// TestWeeklySuggestedRounding checks the two-decimal rounding of monthly/4.
func TestWeeklySuggestedRounding(t *testing.T) {
	if got := WeeklySuggested(dec("999.99")); !got.Equal(dec("250.00")) {
		t.Fatalf("expected 250.00, got %s", got)
	}
	if got := WeeklySuggested(dec("0.1")); !got.Equal(dec("0.03")) {
		t.Fatalf("expected 0.03, got %s", got)
	}
}

// TestCurrentWeek checks the derived weekly-cycle number.
func TestCurrentWeek(t *testing.T) {
	today := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

	if _, ok := CurrentWeek(nil, today); ok {
		t.Fatal("expected no week without a start date")
	}

	future := today.AddDate(0, 0, 3)
	if _, ok := CurrentWeek(&future, today); ok {
		t.Fatal("expected no week for a future start date")
	}

	sameDay := today
	if week, ok := CurrentWeek(&sameDay, today); !ok || week != 1 {
		t.Fatalf("expected week 1 on the start date, got %d (%v)", week, ok)
	}

	sixDays := today.AddDate(0, 0, -6)
	if week, _ := CurrentWeek(&sixDays, today); week != 1 {
		t.Fatalf("expected week 1 at six days, got %d", week)
	}

	sevenDays := today.AddDate(0, 0, -7)
	if week, _ := CurrentWeek(&sevenDays, today); week != 2 {
		t.Fatalf("expected week 2 at seven days, got %d", week)
	}

	thirtyDays := today.AddDate(0, 0, -30)
	if week, _ := CurrentWeek(&thirtyDays, today); week != 5 {
		t.Fatalf("expected week 5 at thirty days, got %d", week)
	}
}
