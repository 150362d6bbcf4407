package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carlhiggs/global-scorecards/internal/config"
	"github.com/carlhiggs/global-scorecards/internal/dataset"
	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/font"
	"github.com/carlhiggs/global-scorecards/internal/indicator"
	"github.com/carlhiggs/global-scorecards/internal/language"
	"github.com/carlhiggs/global-scorecards/internal/pipeline"
	"github.com/carlhiggs/global-scorecards/internal/policy"
	"github.com/carlhiggs/global-scorecards/internal/render/scorecard"
	"github.com/carlhiggs/global-scorecards/internal/threshold"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

var validateFlags reportFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration workbook and study data before a run",
	Long: `Load every input a report run needs and report PASS or FAIL per phase:
workbook sheets, fonts and templates; study data tables; and, for each
selected city, indicators, walkability and phrases.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		wb, err := workbook.Open(flags.configuration)
		if err != nil {
			return err
		}
		defer wb.Close()

		src := dataset.NewSource(dataPaths(cfg))
		if code := runValidation(cmd.Context(), cmd.OutOrStdout(), wb, src, validateFlags.runOptions()); code != 0 {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().AddFlagSet(selectionFlags(&validateFlags))
}

// inputWorkbook is the part of the configuration workbook validation reads.
type inputWorkbook interface {
	pipeline.Configuration
	scorecard.TemplateSource
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// studyData is what the study data phase loaded, for the city phase.
type studyData struct {
	indicators  *indicator.Store
	walkability domain.Table
}

func runValidation(ctx context.Context, w io.Writer, wb inputWorkbook, src pipeline.DataSource, opts pipeline.RunOptions) int {
	fmt.Fprintln(w, "=== Scorecard Input Validation ===")
	fmt.Fprintln(w)

	wbPhase := validateWorkbook(wb, opts)
	dataPhase, data := validateStudyData(ctx, src)
	phases := []*phase{wbPhase, dataPhase, validateCities(wb, data, opts)}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-30s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

func validateWorkbook(wb inputWorkbook, opts pipeline.RunOptions) *phase {
	p := &phase{name: "Configuration workbook"}

	sheets := []string{workbook.SheetFonts, workbook.SheetPhrases}
	if opts.AutoLanguage {
		sheets = append(sheets, workbook.SheetLanguages)
	}
	for _, t := range opts.Templates {
		sheets = append(sheets, domain.TemplateSheet(t))
	}
	if err := wb.RequireSheets(sheets...); err != nil {
		p.errorf("%v", err)
		return p
	}

	rows, err := wb.Fonts()
	if err != nil {
		p.errorf("fonts: %v", err)
	} else {
		if _, err := font.Resolve(rows, font.DefaultLanguage); err != nil {
			p.errorf("fonts: %v", err)
		}
		reg := font.NewRegistry()
		for _, r := range rows {
			if _, err := reg.Register(r); err != nil {
				p.errorf("font for %s: %v", r.Language, err)
			}
		}
	}

	for _, t := range opts.Templates {
		if _, err := scorecard.LoadTemplate(wb, domain.TemplateSheet(t)); err != nil {
			p.errorf("%v", err)
		}
	}
	return p
}

func validateStudyData(ctx context.Context, src pipeline.DataSource) (*phase, studyData) {
	p := &phase{name: "Study data"}
	var data studyData

	raw, err := src.LoadIndicators(ctx)
	if err != nil {
		p.errorf("indicators: %v", err)
	} else if data.indicators, err = indicator.NewStore(raw); err != nil {
		p.errorf("%v", err)
	}

	if extrema, err := src.LoadExtrema(ctx); err != nil {
		p.errorf("extrema: %v", err)
	} else if metrics, err := threshold.Ranges(threshold.DefaultLookup(), extrema); err != nil {
		p.errorf("threshold ranges: %v", err)
	} else if rows, err := src.LoadThresholds(ctx); err != nil {
		p.errorf("thresholds: %v", err)
	} else if _, err := threshold.Setup(metrics, rows); err != nil {
		p.errorf("thresholds: %v", err)
	}

	if pd, err := src.LoadPolicy(ctx); err != nil {
		p.errorf("policy: %v", err)
	} else if _, err := policy.New(pd); err != nil {
		p.errorf("policy: %v", err)
	}

	if data.walkability, err = src.LoadWalkability(ctx); err != nil {
		p.errorf("walkability: %v", err)
	} else if !data.walkability.HasColumn(domain.WalkabilityColumn) {
		p.errorf("walkability: %v: %s", domain.ErrMissingColumn, domain.WalkabilityColumn)
	}

	if _, err := src.LoadCities(ctx); err != nil {
		p.errorf("cities: %v", err)
	}
	return p, data
}

func validateCities(wb inputWorkbook, data studyData, opts pipeline.RunOptions) *phase {
	p := &phase{name: "City coverage"}

	var table domain.LanguageTable
	if opts.AutoLanguage {
		var err error
		if table, err = wb.Languages(); err != nil {
			p.errorf("languages: %v", err)
			return p
		}
	}
	groups, err := language.Select(language.Resolve(table, opts.Cities, opts.Language, opts.AutoLanguage), opts.Language)
	if err != nil {
		p.errorf("%v", err)
		return p
	}

	for _, g := range groups {
		for _, city := range g.Cities {
			if data.indicators != nil {
				if _, err := data.indicators.ForCity(city); err != nil {
					p.errorf("%s: indicators: %v", city, err)
				}
			}
			if data.walkability.HasColumn(domain.WalkabilityColumn) {
				if _, err := data.walkability.Lookup(city, domain.WalkabilityColumn); err != nil {
					p.errorf("%s: walkability: %v", city, err)
				}
			}
			if _, err := wb.Phrases(city, g.Language); err != nil {
				p.errorf("%s (%s): phrases: %v", city, g.Language, err)
			}
		}
	}
	return p
}
