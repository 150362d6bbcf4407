// Package language decides which languages reports are produced in and which
// cities belong to each.
package language

import (
	"fmt"
	"slices"
	"strings"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// Resolve groups the requested cities by report language.
//
// With auto off, a single group named language (or English when empty) holds
// the cities in request order. With auto on, each requested city found in the
// table is grouped under every language for which it has a local name; groups
// are ordered by language name and cities follow table row order. Cities absent
// from the table, and languages with no name for any requested city, are
// skipped without error.
func Resolve(table domain.LanguageTable, cities []string, language string, auto bool) domain.LanguageGroups {
	if language == "" {
		language = domain.DefaultLanguage
	}
	if !auto {
		return domain.LanguageGroups{{Language: language, Cities: slices.Clone(cities)}}
	}

	members := make(map[string][]string)
	for _, city := range table.Cities {
		if !slices.Contains(cities, city) {
			continue
		}
		for _, lang := range table.Languages {
			if strings.TrimSpace(table.LocalName(city, lang)) == "" {
				continue
			}
			members[lang] = append(members[lang], city)
		}
	}

	languages := make([]string, 0, len(members))
	for lang := range members {
		languages = append(languages, lang)
	}
	slices.Sort(languages)

	groups := make(domain.LanguageGroups, 0, len(languages))
	for _, lang := range languages {
		groups = append(groups, domain.LanguageGroup{Language: lang, Cities: members[lang]})
	}
	return groups
}

// Select returns the groups to process. A non-default language restricts the
// run to that language's group, which must exist.
func Select(groups domain.LanguageGroups, language string) ([]domain.LanguageGroup, error) {
	if language == "" || language == domain.DefaultLanguage {
		return groups, nil
	}
	group, ok := groups.Get(language)
	if !ok {
		return nil, fmt.Errorf("%w: no cities grouped under %q", domain.ErrUnknownLanguage, language)
	}
	return []domain.LanguageGroup{group}, nil
}
