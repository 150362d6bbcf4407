// Package dataset reads the study data files: city-indexed CSV tables, the
// thresholds CSV, the policy lookup and the city details JSON.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/carlhiggs/global-scorecards/internal/domain"
)

// IndexColumn is the city key column of every city-indexed CSV.
const IndexColumn = "City"

// record is a parsed CSV row with field values keyed by header name.
type record struct {
	line   int
	fields map[string]string
}

func readRecords(path string) ([]string, []record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	all, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read %s: no header row", path)
	}

	header := make([]string, len(all[0]))
	for i, h := range all[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rows := make([]record, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			}
		}
		rows = append(rows, record{line: i + 2, fields: fields})
	}
	return header, rows, nil
}

// ReadTable reads a CSV indexed by the City column into a numeric table.
// Columns listed in skip are left out. Empty or non-numeric cells are NaN.
func ReadTable(path string, skip ...string) (domain.Table, error) {
	header, rows, err := readRecords(path)
	if err != nil {
		return domain.Table{}, err
	}
	if !slices.Contains(header, IndexColumn) {
		return domain.Table{}, fmt.Errorf("%s: %w: %q", path, domain.ErrMissingColumn, IndexColumn)
	}

	columns := make([]string, 0, len(header))
	for _, h := range header {
		if h == IndexColumn || h == "" || slices.Contains(skip, h) {
			continue
		}
		columns = append(columns, h)
	}

	tbl := domain.NewTable(columns...)
	for _, rec := range rows {
		city := rec.fields[IndexColumn]
		if city == "" {
			continue
		}
		values := make(map[string]float64, len(columns))
		for _, c := range columns {
			values[c] = parseFloat(rec.fields[c])
		}
		tbl.AddRow(city, values)
	}
	return tbl, nil
}

// ReadThresholds reads the thresholds CSV (Scenario, Metric, Threshold).
func ReadThresholds(path string) ([]domain.ThresholdRow, error) {
	header, rows, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"Scenario", "Metric", "Threshold"} {
		if !slices.Contains(header, col) {
			return nil, fmt.Errorf("%s: %w: %q", path, domain.ErrMissingColumn, col)
		}
	}

	out := make([]domain.ThresholdRow, 0, len(rows))
	for _, rec := range rows {
		v, err := strconv.ParseFloat(rec.fields["Threshold"], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid threshold %q", path, rec.line, rec.fields["Threshold"])
		}
		out = append(out, domain.ThresholdRow{
			Scenario:  rec.fields["Scenario"],
			Metric:    rec.fields["Metric"],
			Threshold: v,
		})
	}
	return out, nil
}

// readColumn returns the string values of column keyed by city.
func readColumn(path, column string) (map[string]string, error) {
	header, rows, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(header, column) {
		return nil, fmt.Errorf("%s: %w: %q", path, domain.ErrMissingColumn, column)
	}
	out := make(map[string]string, len(rows))
	for _, rec := range rows {
		if city := rec.fields[IndexColumn]; city != "" {
			out[city] = rec.fields[column]
		}
	}
	return out, nil
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
