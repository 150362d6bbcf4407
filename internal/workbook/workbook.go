// Package workbook reads the report configuration workbook: languages, fonts,
// phrases and template layout sheets.
package workbook

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SheetLanguages   = "languages"
	SheetFonts       = "fonts"
	SheetPhrases     = "phrases"
	SheetCityDetails = "city_details"
)

// Workbook is an opened configuration workbook. Sheet rows are read once and
// cached.
type Workbook struct {
	path   string
	file   *excelize.File
	sheets []string

	mu    sync.Mutex
	cache map[string][]Row
}

// Row is a sheet row keyed by header name.
type Row map[string]string

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{
		path:   path,
		file:   f,
		sheets: f.GetSheetList(),
		cache:  make(map[string][]Row),
	}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Path returns the workbook file path.
func (w *Workbook) Path() string {
	return w.path
}

// HasSheet reports whether the workbook contains sheet.
func (w *Workbook) HasSheet(sheet string) bool {
	return slices.Contains(w.sheets, sheet)
}

// RequireSheets returns an error naming the first missing sheet.
func (w *Workbook) RequireSheets(sheets ...string) error {
	for _, s := range sheets {
		if !w.HasSheet(s) {
			return fmt.Errorf("%w: %q in %s", domain.ErrMissingSheet, s, w.path)
		}
	}
	return nil
}

// Header returns the first row of sheet.
func (w *Workbook) Header(sheet string) ([]string, error) {
	all, err := w.raw(sheet)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return trimAll(all[0]), nil
}

// Rows returns the data rows of sheet keyed by the header row.
func (w *Workbook) Rows(sheet string) ([]Row, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if rows, ok := w.cache[sheet]; ok {
		return rows, nil
	}

	all, err := w.rawLocked(sheet)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if len(all) > 0 {
		header := trimAll(all[0])
		rows = make([]Row, 0, len(all)-1)
		for _, cells := range all[1:] {
			row := make(Row, len(header))
			empty := true
			for i, h := range header {
				if h == "" || i >= len(cells) {
					continue
				}
				v := strings.TrimSpace(cells[i])
				row[h] = v
				if v != "" {
					empty = false
				}
			}
			if !empty {
				rows = append(rows, row)
			}
		}
	}
	w.cache[sheet] = rows
	return rows, nil
}

func (w *Workbook) raw(sheet string) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rawLocked(sheet)
}

func (w *Workbook) rawLocked(sheet string) ([][]string, error) {
	if !slices.Contains(w.sheets, sheet) {
		return nil, fmt.Errorf("%w: %q in %s", domain.ErrMissingSheet, sheet, w.path)
	}
	all, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return all, nil
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
