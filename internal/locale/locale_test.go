package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		vars map[string]string
		want string
	}{
		{
			name: "english with variable",
			lang: "en",
			key:  "gameLine",
			vars: map[string]string{"game": "Super Metroid"},
			want: "Game: Super Metroid",
		},
		{
			name: "french with variable",
			lang: "fr",
			key:  "gameLine",
			vars: map[string]string{"game": "Super Metroid"},
			want: "Jeu : Super Metroid",
		},
		{
			name: "unknown language falls back to english",
			lang: "de",
			key:  "congrats",
			want: "Congratulations!",
		},
		{
			name: "unknown key falls back to raw key",
			lang: "en",
			key:  "doesNotExist",
			want: "doesNotExist",
		},
		{
			name: "repeated variable",
			lang: "en",
			key:  "lastSeenTitle",
			vars: map[string]string{"username": "Scott"},
			want: "Last activity of Scott",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.lang, tt.key, tt.vars))
		})
	}
}

func TestLangs(t *testing.T) {
	langs := Langs()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "fr")
}
