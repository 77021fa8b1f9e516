package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedgerEligibility(t *testing.T) {
	t.Run("unknown account is eligible", func(t *testing.T) {
		l := New(nil)
		assert.True(t, l.Eligible("jdoe", "2026-03-10"))
	})

	t.Run("eligibility check is idempotent", func(t *testing.T) {
		l := New(Entries{"jdoe": "2026-03-09"})
		first := l.Eligible("jdoe", "2026-03-10")
		second := l.Eligible("jdoe", "2026-03-10")
		assert.Equal(t, first, second)
		assert.True(t, first)
	})

	t.Run("marking suppresses same day only", func(t *testing.T) {
		l := New(nil)
		l.MarkNotified("jdoe", "2026-03-10")

		assert.False(t, l.Eligible("jdoe", "2026-03-10"))
		assert.True(t, l.Eligible("jdoe", "2026-03-11"))
		assert.True(t, l.Eligible("jdoe", "2026-03-09"))
	})

	t.Run("marking one account leaves others eligible", func(t *testing.T) {
		l := New(nil)
		l.MarkNotified("jdoe", "2026-03-10")
		assert.True(t, l.Eligible("asmith", "2026-03-10"))
	})

	t.Run("re-marking upserts a single entry", func(t *testing.T) {
		l := New(Entries{"jdoe": "2026-03-09"})
		l.MarkNotified("jdoe", "2026-03-10")
		assert.Equal(t, 1, l.Len())
		assert.Equal(t, "2026-03-10", l.Entries()["jdoe"])
	})
}
