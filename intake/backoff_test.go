package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitterBackoff(t *testing.T) {
	base := 100 * time.Millisecond
	capDur := time.Second

	require.Equal(t, base, jitterBackoff(0, base, capDur))
	require.Equal(t, DefaultRetryBackoff, jitterBackoff(0, 0, capDur))
	require.Equal(t, 50*time.Millisecond, jitterBackoff(0, base, 50*time.Millisecond))

	prev := base
	for range 50 {
		next := jitterBackoff(prev, base, capDur)
		require.GreaterOrEqual(t, next, base)
		require.LessOrEqual(t, next, capDur)
		prev = next
	}
}

func TestSanitizeConsumerName(t *testing.T) {
	tests := map[string]string{
		"leadroute-intake": "leadroute-intake",
		"lead.intake":      "lead_intake",
		"leads.>":          "leads__",
		"a b\tc":           "a_b_c",
		"path/to\\x":       "path_to_x",
		"star*":            "star_",
	}

	for in, want := range tests {
		require.Equal(t, want, sanitizeConsumerName(in), in)
	}
}
