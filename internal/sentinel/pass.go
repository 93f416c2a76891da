package sentinel

import "github.com/google/uuid"

// PassTokenGenerator generates unique tokens correlating the issues of one
// validation pass. Implemented by UUIDv7Generator (production) and
// testutil.FixedPassGenerator (tests).
type PassTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 pass tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort
// by pass creation time, which keeps issue-sink history naturally ordered.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
