package util

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewSessionID generates a new ULID string used as an interview session
// identifier. Session IDs are opaque to clients; ULIDs keep them sortable
// by creation time which helps when eyeballing logs.
func NewSessionID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
