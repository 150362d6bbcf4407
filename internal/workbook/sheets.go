package workbook

import (
	"fmt"
	"slices"
	"strings"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// languageIndexColumn names the city column of the languages sheet. When the
// header lacks it, the first column is the index.
const languageIndexColumn = "name"

// Languages reads the languages sheet. Columns after the city index column
// are languages.
func (w *Workbook) Languages() (domain.LanguageTable, error) {
	header, err := w.Header(SheetLanguages)
	if err != nil {
		return domain.LanguageTable{}, err
	}
	if len(header) == 0 {
		return domain.LanguageTable{}, fmt.Errorf("sheet %q is empty", SheetLanguages)
	}
	rows, err := w.Rows(SheetLanguages)
	if err != nil {
		return domain.LanguageTable{}, err
	}

	idx := slices.Index(header, languageIndexColumn)
	if idx < 0 {
		idx = 0
	}
	index := header[idx]

	table := domain.LanguageTable{Names: make(map[string]map[string]string)}
	for _, h := range header[idx+1:] {
		if h != "" {
			table.Languages = append(table.Languages, h)
		}
	}
	for _, row := range rows {
		city := row[index]
		if city == "" {
			continue
		}
		if _, dup := table.Names[city]; !dup {
			table.Cities = append(table.Cities, city)
		}
		names := make(map[string]string, len(table.Languages))
		for _, lang := range table.Languages {
			if v := row[lang]; v != "" {
				names[lang] = v
			}
		}
		table.Names[city] = names
	}
	return table, nil
}

// Fonts reads the fonts sheet.
func (w *Workbook) Fonts() ([]domain.FontRow, error) {
	header, err := w.Header(SheetFonts)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"Language", "File", "Font"} {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("sheet %q: %w: %q", SheetFonts, domain.ErrMissingColumn, col)
		}
	}
	rows, err := w.Rows(SheetFonts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FontRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.FontRow{Language: r["Language"], File: r["File"], Font: r["Font"]})
	}
	return out, nil
}

// Phrases returns the phrases of language prepared for city. The phrases
// sheet holds one row per phrase ("name" column) and one column per
// language. City details and the city's local name are added, and "{key}"
// placeholders referring to them are filled in.
func (w *Workbook) Phrases(city, language string) (domain.Phrases, error) {
	header, err := w.Header(SheetPhrases)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(header, language) {
		return nil, fmt.Errorf("%w: no %q column in sheet %q", domain.ErrMissingPhrase, language, SheetPhrases)
	}
	rows, err := w.Rows(SheetPhrases)
	if err != nil {
		return nil, err
	}

	vars := map[string]string{
		"city":     city,
		"language": language,
	}
	if w.HasSheet(SheetLanguages) {
		table, err := w.Languages()
		if err != nil {
			return nil, err
		}
		if local := table.LocalName(city, language); local != "" {
			vars["city"] = local
		}
	}
	if w.HasSheet(SheetCityDetails) {
		details, err := w.Rows(SheetCityDetails)
		if err != nil {
			return nil, err
		}
		for _, d := range details {
			if d["City"] != city {
				continue
			}
			for k, v := range d {
				if k != "City" && v != "" {
					vars[k] = v
				}
			}
		}
	}

	oldnew := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		oldnew = append(oldnew, "{"+k+"}", v)
	}
	fill := strings.NewReplacer(oldnew...)

	phrases := make(domain.Phrases, len(rows)+len(vars))
	for k, v := range vars {
		phrases[k] = v
	}
	for _, r := range rows {
		key := r["name"]
		if key == "" {
			continue
		}
		text := r[language]
		if text == "" {
			text = r[domain.DefaultLanguage]
		}
		phrases[key] = fill.Replace(text)
	}
	return phrases, nil
}
