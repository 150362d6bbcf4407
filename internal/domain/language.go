package domain

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "English"

// AutoTranslationSuffix marks languages whose phrases were machine translated.
// Fonts are shared with the untranslated language.
const AutoTranslationSuffix = " (Auto-translation)"

// LanguageTable is the "languages" sheet of the configuration workbook: one row
// per city, one column per language, cells holding the city's name in that
// language or empty when no report is prepared in it.
type LanguageTable struct {
	Languages []string
	Cities    []string
	Names     map[string]map[string]string // city -> language -> local name
}

// LocalName returns the city's name in language, or "" if none is recorded.
func (t LanguageTable) LocalName(city, language string) string {
	return t.Names[city][language]
}

// LanguageGroup lists the cities whose reports are produced in one language.
type LanguageGroup struct {
	Language string
	Cities   []string
}

// LanguageGroups is an ordered set of language groups.
type LanguageGroups []LanguageGroup

// Get returns the group for language.
func (g LanguageGroups) Get(language string) (LanguageGroup, bool) {
	for _, group := range g {
		if group.Language == language {
			return group, true
		}
	}
	return LanguageGroup{}, false
}

// Languages returns the group languages in order.
func (g LanguageGroups) Languages() []string {
	out := make([]string, len(g))
	for i, group := range g {
		out[i] = group.Language
	}
	return out
}

// FontRow is a row of the "fonts" sheet.
type FontRow struct {
	Language string
	File     string
	Font     string
}

// Font is a font resolved for a language and registered for rendering.
type Font struct {
	Language string
	File     string
	Name     string // display name from the fonts sheet
	Family   string // family name read from the font file
}
