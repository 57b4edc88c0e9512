package app

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

func newID() string {
	return uuid.NewString()
}

// newOrderNumber builds the externally visible order number. Uniqueness is
// what matters, not the shape: a UTC timestamp plus a random suffix, backed
// by a unique constraint in the store.
func newOrderNumber(now time.Time) string {
	suffix, _, _ := strings.Cut(uuid.NewString(), "-")
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + strings.ToUpper(suffix)
}
