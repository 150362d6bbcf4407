package domain

import "errors"

var (
	// ErrCityNotFound is returned when a city is absent from a city-indexed table.
	ErrCityNotFound = errors.New("city not found")

	// ErrMissingColumn is returned when a required column is absent from a table.
	ErrMissingColumn = errors.New("missing column")

	// ErrEmptyColumn is returned when a column holds no numeric values.
	ErrEmptyColumn = errors.New("column has no values")

	// ErrMissingSheet is returned when the configuration workbook lacks a sheet.
	ErrMissingSheet = errors.New("missing workbook sheet")

	// ErrNoDefaultFont is returned when the fonts sheet has no "default" row.
	ErrNoDefaultFont = errors.New("no default font configured")

	// ErrUnknownLanguage is returned when no cities are grouped under a requested language.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrMissingPhrase is returned when phrases are not available for a language.
	ErrMissingPhrase = errors.New("missing phrase")
)
