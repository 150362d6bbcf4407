package scorecard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

// Element types.
const (
	ElementText  = "text"
	ElementImage = "image"
)

// Element is one positioned item of a template sheet. Positions and sizes
// are in millimetres; Size is the font size in points.
type Element struct {
	Page    int
	Name    string
	Type    string
	X, Y    float64
	W, H    float64
	Size    float64
	Content string
}

// parseTemplate converts template sheet rows into elements ordered by page.
func parseTemplate(sheet string, rows []workbook.Row) ([]Element, error) {
	elements := make([]Element, 0, len(rows))
	for i, r := range rows {
		e, err := parseElement(r)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
		elements = append(elements, e)
	}
	slices.SortStableFunc(elements, func(a, b Element) int { return a.Page - b.Page })
	return elements, nil
}

func parseElement(r workbook.Row) (Element, error) {
	e := Element{
		Page:    1,
		Name:    r["name"],
		Type:    strings.ToLower(strings.TrimSpace(r["type"])),
		Content: r["content"],
	}
	if e.Type == "" {
		e.Type = ElementText
	}
	if e.Type != ElementText && e.Type != ElementImage {
		return Element{}, fmt.Errorf("element %q: unknown type %q", e.Name, e.Type)
	}
	if p := strings.TrimSpace(r["page"]); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return Element{}, fmt.Errorf("element %q: invalid page %q", e.Name, p)
		}
		e.Page = n
	}

	fields := []struct {
		col      string
		dst      *float64
		fallback float64
	}{
		{"x", &e.X, 0},
		{"y", &e.Y, 0},
		{"w", &e.W, 0},
		{"h", &e.H, 0},
		{"size", &e.Size, 10},
	}
	for _, f := range fields {
		s := strings.TrimSpace(r[f.col])
		if s == "" {
			*f.dst = f.fallback
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Element{}, fmt.Errorf("element %q: invalid %s %q", e.Name, f.col, s)
		}
		*f.dst = v
	}
	return e, nil
}

// LoadTemplate reads and parses the template sheet.
func LoadTemplate(src TemplateSource, sheet string) ([]Element, error) {
	rows, err := src.Rows(sheet)
	if err != nil {
		return nil, err
	}
	return parseTemplate(sheet, rows)
}
