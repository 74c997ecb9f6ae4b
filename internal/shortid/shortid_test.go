package shortid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ShapeAndAlphabet(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := New()
		require.Len(t, id, Length)
		for _, c := range id {
			require.True(t, strings.ContainsRune(Alphabet, c),
				"unexpected character %q in id %s", c, id)
		}
		require.True(t, Valid(id))
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := New()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"valid id", "hDpKqvvcxSN3hbQvZFjEjW", true},
		{"too short", "hDpKqvvcxSN3hbQvZFjEj", false},
		{"too long", "hDpKqvvcxSN3hbQvZFjEjWW", false},
		{"excluded character zero", "0DpKqvvcxSN3hbQvZFjEjW", false},
		{"excluded character l", "lDpKqvvcxSN3hbQvZFjEjW", false},
		{"path traversal", "../../../../../../etc/", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.id))
		})
	}
}

func TestEncode_ZeroPadsToFullLength(t *testing.T) {
	id := encode(make([]byte, 16))
	require.Len(t, id, Length)
	require.Equal(t, strings.Repeat(string(Alphabet[0]), Length), id)
}
