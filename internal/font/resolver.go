// Package font selects the report font for a language and registers it for
// rendering.
package font

import (
	"fmt"
	"strings"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// DefaultLanguage is the fonts sheet row used when a language has no font of its own.
const DefaultLanguage = "default"

// Resolve returns the fonts sheet row for language, falling back to the
// "default" row. The auto-translation marker is ignored when matching.
func Resolve(rows []domain.FontRow, language string) (domain.FontRow, error) {
	language = strings.TrimSpace(strings.ReplaceAll(language, domain.AutoTranslationSuffix, ""))

	if row, ok := find(rows, language); ok {
		return row, nil
	}
	if row, ok := find(rows, DefaultLanguage); ok {
		return row, nil
	}
	return domain.FontRow{}, domain.ErrNoDefaultFont
}

func find(rows []domain.FontRow, language string) (domain.FontRow, bool) {
	for _, r := range rows {
		if strings.TrimSpace(r.Language) == language {
			return domain.FontRow{
				Language: language,
				File:     strings.TrimSpace(r.File),
				Font:     strings.TrimSpace(r.Font),
			}, true
		}
	}
	return domain.FontRow{}, false
}

// Registrar makes a resolved font current.
type Registrar interface {
	Register(row domain.FontRow) (domain.Font, error)
}

// ResolveAndRegister resolves the font for language and makes it the current
// font of the registry.
func ResolveAndRegister(reg Registrar, rows []domain.FontRow, language string) (domain.Font, error) {
	row, err := Resolve(rows, language)
	if err != nil {
		return domain.Font{}, fmt.Errorf("resolve font for %s: %w", language, err)
	}
	return reg.Register(row)
}
