package logging

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "hello", truncate("hello", discordMessageLimit))
		assert.Equal(t, "", truncate("", discordMessageLimit))
	})

	t.Run("long ascii is cut to the limit", func(t *testing.T) {
		long := strings.Repeat("a", discordMessageLimit+50)
		got := truncate(long, discordMessageLimit)
		assert.Len(t, got, discordMessageLimit)
	})

	t.Run("multibyte runes are never split", func(t *testing.T) {
		// Each é is two bytes, so a byte-indexed cut at the limit
		// would land mid-sequence.
		long := strings.Repeat("é", discordMessageLimit+10)
		got := truncate(long, discordMessageLimit)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, discordMessageLimit, utf8.RuneCountInString(got))
	})

	t.Run("cut respects rune count not bytes", func(t *testing.T) {
		got := truncate("héllo", 3)
		assert.Equal(t, "hél", got)
	})
}
