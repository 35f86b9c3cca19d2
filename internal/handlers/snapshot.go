package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/peso-tracker/internal/auth"
	"example.com/peso-tracker/internal/notifications"
	"example.com/peso-tracker/internal/repository"
)

type SnapshotHandler struct {
	Snapshots *repository.SnapshotRepository
	Wallets   *repository.WalletRepository
	Notifier  *notifications.Hub
}

// NewSnapshotHandler creates the backup handler.
func NewSnapshotHandler(snapshots *repository.SnapshotRepository, wallets *repository.WalletRepository, notifier *notifications.Hub) *SnapshotHandler {
	return &SnapshotHandler{Snapshots: snapshots, Wallets: wallets, Notifier: notifier}
}

// Export downloads the user's full dataset as a JSON file.
func (h *SnapshotHandler) Export(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	snapshot, err := h.Snapshots.Export(c.Request().Context(), userID)
	if err != nil {
		return serverError(c)
	}

	filename := "peso-tracker-" + time.Now().UTC().Format(dateLayout) + ".json"
	c.Response().Header().Set(echo.HeaderContentType, "application/json")
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, snapshot)
}

// Restore replaces the user's dataset with an uploaded snapshot.
func (h *SnapshotHandler) Restore(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var snapshot repository.Snapshot
	if err := c.Bind(&snapshot); err != nil {
		return badRequest(c, "invalid snapshot")
	}
	if !hasKnownCollections(snapshot) {
		return badRequest(c, "snapshot has no recognizable data")
	}

	if err := h.Snapshots.Restore(c.Request().Context(), userID, snapshot); err != nil {
		return serverError(c)
	}

	publishLedgerUpdate(c.Request().Context(), h.Notifier, h.Wallets, userID)
	return c.NoContent(http.StatusNoContent)
}

// hasKnownCollections tells whether the payload carried at least one of the
// core collections. A wallets, transactions or goals key that decoded to an
// empty list still counts; a body without any of them would wipe the
// dataset and restore nothing, so Restore refuses it.
func hasKnownCollections(snapshot repository.Snapshot) bool {
	return snapshot.Wallets != nil || snapshot.Transactions != nil || snapshot.Goals != nil
}
