package handlers

import (
	"testing"

	"example.com/peso-tracker/internal/models"
	"example.com/peso-tracker/internal/repository"
)

func TestHasKnownCollectionsEmptyPayload(t *testing.T) {
	if hasKnownCollections(repository.Snapshot{}) {
		t.Fatal("expected a payload without core collections to be rejected")
	}
}

func TestHasKnownCollectionsUnknownKeysOnly(t *testing.T) {
	snapshot := repository.Snapshot{
		Wants:        []models.Want{{Name: "Headphones"}},
		Installments: []models.Installment{{Name: "Phone"}},
	}

	if hasKnownCollections(snapshot) {
		t.Fatal("expected wants and installments alone not to qualify")
	}
}

func TestHasKnownCollectionsEmptyWalletList(t *testing.T) {
	snapshot := repository.Snapshot{Wallets: []models.Wallet{}}

	if !hasKnownCollections(snapshot) {
		t.Fatal("expected a present wallets list to qualify even when empty")
	}
}

func TestHasKnownCollectionsTransactions(t *testing.T) {
	snapshot := repository.Snapshot{Transactions: []models.Transaction{{Place: "Market"}}}

	if !hasKnownCollections(snapshot) {
		t.Fatal("expected transactions to qualify")
	}
}

func TestHasKnownCollectionsGoals(t *testing.T) {
	snapshot := repository.Snapshot{Goals: []models.Goal{{Name: "Vacation"}}}

	if !hasKnownCollections(snapshot) {
		t.Fatal("expected goals to qualify")
	}
}
