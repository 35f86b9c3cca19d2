package handlers

import "testing"

func TestParseDateCalendar(t *testing.T) {
	parsed, err := parseDate("2025-03-14")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if parsed.Format(dateLayout) != "2025-03-14" {
		t.Fatalf("unexpected date: %s", parsed.Format(dateLayout))
	}
}

func TestParseDateRFC3339(t *testing.T) {
	parsed, err := parseDate("2025-03-14T10:30:00Z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if parsed.Hour() != 10 {
		t.Fatalf("unexpected hour: %d", parsed.Hour())
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := parseDate("14/03/2025"); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestNormalizeName(t *testing.T) {
	if normalizeName(nil) != nil {
		t.Fatal("expected nil for nil input")
	}

	blank := "   "
	if normalizeName(&blank) != nil {
		t.Fatal("expected nil for blank input")
	}

	padded := "  Maria  "
	got := normalizeName(&padded)
	if got == nil || *got != "Maria" {
		t.Fatalf("expected trimmed name, got %v", got)
	}
}

func TestToFixedExpensesAssignsIDs(t *testing.T) {
	out := toFixedExpenses([]FixedExpenseRequest{
		{ID: "keep-me", Name: "Rent"},
		{Name: "Internet"},
	})

	if out[0].ID != "keep-me" {
		t.Fatalf("expected existing id to survive, got %s", out[0].ID)
	}
	if out[1].ID == "" {
		t.Fatal("expected generated id for missing one")
	}
}
