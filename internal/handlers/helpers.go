package handlers

import (
	"time"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func newFixedExpenseID() string {
	return uuid.NewString()
}
