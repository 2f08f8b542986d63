package ids

import "github.com/google/uuid"

// New returns a fresh item id. UUIDv7 puts a millisecond timestamp in front
// of 74 random bits, so ids minted in the same millisecond still differ.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
