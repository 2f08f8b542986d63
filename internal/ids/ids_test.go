package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew_UniqueWithinBurst(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s after %d ids", id, i)
		seen[id] = struct{}{}
	}
}

func TestNew_IsTimeOrderedUUID(t *testing.T) {
	id, err := uuid.Parse(New())
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), id.Version())
}
