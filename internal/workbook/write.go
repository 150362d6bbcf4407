package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is a sheet to write: the first row is the header.
type Sheet struct {
	Name string
	Rows [][]string
}

// Write creates a workbook at path holding sheets in order.
func Write(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", s.Name, err)
		}
		for r, row := range s.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.Name, cell, &cells); err != nil {
				return fmt.Errorf("write sheet %q: %w", s.Name, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
