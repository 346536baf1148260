// Package locale provides the translated strings used in notifications
// and command replies. Tables are embedded JSON, one file per language.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
)

//go:embed locales/*.json
var localeFiles embed.FS

// DefaultLang is the fallback language for missing keys and unknown tags
const DefaultLang = "en"

var translations = mustLoad()

func mustLoad() map[string]map[string]string {
	out := make(map[string]map[string]string)

	entries, err := fs.ReadDir(localeFiles, "locales")
	if err != nil {
		panic(fmt.Sprintf("locale: reading embedded locales: %v", err))
	}

	for _, entry := range entries {
		lang := strings.TrimSuffix(entry.Name(), ".json")
		data, err := localeFiles.ReadFile("locales/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("locale: reading %s: %v", entry.Name(), err))
		}

		table := make(map[string]string)
		if err := json.Unmarshal(data, &table); err != nil {
			panic(fmt.Sprintf("locale: parsing %s: %v", entry.Name(), err))
		}
		out[lang] = table
	}

	return out
}

// Langs returns the supported language tags
func Langs() []string {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	return langs
}

// T resolves a key for a language, substituting {name} placeholders from
// vars. Misses fall back to the default language, then to the raw key.
func T(lang, key string, vars map[string]string) string {
	table, ok := translations[lang]
	if !ok {
		table = translations[DefaultLang]
	}

	text, ok := table[key]
	if !ok {
		text, ok = translations[DefaultLang][key]
		if !ok {
			text = key
		}
	}

	for name, value := range vars {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
