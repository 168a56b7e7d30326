package spellcheck

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/jeandeaual/go-locale"
)

// DefaultLanguage is used when no other language can be determined.
const DefaultLanguage = "en_US"

// LanguageFromAffix derives the language code from the affix file's base
// name. It returns fallback when the name is empty, and DefaultLanguage
// when fallback is empty too.
func LanguageFromAffix(affPath, fallback string) string {
	base := filepath.Base(strings.TrimSpace(affPath))
	lang := strings.TrimSuffix(base, filepath.Ext(base))
	if lang == "" || lang == "." || lang == string(filepath.Separator) {
		lang = fallback
	}
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// NormalizeLanguageCode converts locale tags such as "en-US" or
// "en_US.UTF-8" into dictionary file names such as "en_US".
func NormalizeLanguageCode(tag string) string {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == '-' || r == '_' })
	if len(parts) == 0 {
		return ""
	}
	code := strings.ToLower(parts[0])
	if len(parts) > 1 {
		code += "_" + strings.ToUpper(parts[1])
	}
	return code
}

// SystemLanguage returns the user's locale as a dictionary language code,
// or DefaultLanguage if the locale cannot be read.
func SystemLanguage() string {
	tag, err := locale.GetLocale()
	if err != nil {
		log.Printf("[Spell] Could not read system locale: %v", err)
		return DefaultLanguage
	}
	if code := NormalizeLanguageCode(tag); code != "" && code != "c" && code != "posix" {
		return code
	}
	return DefaultLanguage
}
