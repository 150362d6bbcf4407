package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	httpadapter "github.com/carlhiggs/global-scorecards/internal/adapter/http"
	kafkaadapter "github.com/carlhiggs/global-scorecards/internal/adapter/kafka"
	"github.com/carlhiggs/global-scorecards/internal/adapter/ledger"
	"github.com/carlhiggs/global-scorecards/internal/adapter/mapbox"
	"github.com/carlhiggs/global-scorecards/internal/config"
	"github.com/carlhiggs/global-scorecards/internal/dataset"
	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/font"
	"github.com/carlhiggs/global-scorecards/internal/observability"
	"github.com/carlhiggs/global-scorecards/internal/pipeline"
	"github.com/carlhiggs/global-scorecards/internal/render/resources"
	"github.com/carlhiggs/global-scorecards/internal/render/scorecard"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

// studyCities are the 25 cities of the global scorecards study.
const studyCities = "Maiduguri,Mexico City,Baltimore,Phoenix,Seattle,Sao Paulo,Hong Kong,Chennai,Bangkok,Hanoi," +
	"Graz,Ghent,Bern,Olomouc,Cologne,Odense,Barcelona,Valencia,Vic,Belfast,Lisbon,Adelaide,Melbourne,Sydney,Auckland"

// reportFlags holds the report selection flags.
type reportFlags struct {
	cities            string
	generateResources bool
	language          string
	autoLanguage      bool
	byCity            bool
	byLanguage        bool
	templates         string
	configuration     string
}

var flags reportFlags

var rootCmd = &cobra.Command{
	Use:   "scorecards",
	Short: "Generate city scorecard reports",
	Long: `Generate PDF scorecards for each city in each language.

Study data locations, output directories and optional integrations
(metrics, Kafka outcome events, SQLite ledger, Mapbox basemaps) are
configured through environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runReports,
}

// Execute runs the root command and exits non-zero on a fatal error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configuration, "configuration", "_report_configuration.xlsx", "Report configuration workbook")
	rootCmd.Flags().AddFlagSet(selectionFlags(&flags))

	rootCmd.AddCommand(validateCmd, fixturesCmd, historyCmd)
	rootCmd.SetGlobalNormalizationFunc(underscoreFlags)
}

// selectionFlags builds the city, language and template selection flags.
func selectionFlags(f *reportFlags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("selection", pflag.ContinueOnError)
	fs.StringVar(&f.cities, "cities", studyCities, "Comma-separated list of cities")
	fs.BoolVar(&f.generateResources, "generate_resources", false, "Generate charts and basemaps before rendering")
	fs.StringVar(&f.language, "language", domain.DefaultLanguage, "Report language")
	fs.BoolVar(&f.autoLanguage, "auto_language", false, "Group cities by the languages configured for them")
	fs.BoolVar(&f.byCity, "by_city", true, "Write scorecards into a directory per city")
	fs.BoolVar(&f.byLanguage, "by_language", true, "Write scorecards into a directory per language")
	fs.StringVar(&f.templates, "templates", "web", "Comma-separated list of templates")
	return fs
}

// underscoreFlags accepts dashed spellings of the underscored flag names.
func underscoreFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

// splitList splits a comma-separated flag value, trimming blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f reportFlags) runOptions() pipeline.RunOptions {
	return pipeline.RunOptions{
		Cities:            splitList(f.cities),
		Language:          strings.TrimSpace(f.language),
		AutoLanguage:      f.autoLanguage,
		GenerateResources: f.generateResources,
		ByCity:            f.byCity,
		ByLanguage:        f.byLanguage,
		Templates:         splitList(f.templates),
	}
}

func dataPaths(cfg *config.Config) dataset.Paths {
	return dataset.Paths{
		CityIndicators: cfg.CityIndicators,
		HexIndicators:  cfg.HexIndicators,
		Thresholds:     cfg.Thresholds,
		Walkability:    cfg.Walkability,
		PolicyLookup:   cfg.PolicyLookup,
		CityData:       cfg.CityData,
	}
}

func runReports(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	opts := flags.runOptions()

	wb, err := workbook.Open(flags.configuration)
	if err != nil {
		return err
	}
	defer wb.Close()

	registry := font.NewRegistry()

	// Resource generation is optional; basemaps additionally need Mapbox.
	var generator pipeline.ResourceGenerator
	if opts.GenerateResources {
		var basemaps resources.BasemapFetcher
		if cfg.MapboxEnabled {
			client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger)
			basemaps = mapbox.NewCachedFetcher(client, cfg.MapboxCacheSize, metrics)
			logger.Info("mapbox basemaps enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
		} else {
			logger.Info("mapbox basemaps disabled")
		}
		generator = resources.NewGenerator(cfg.ResourcesDir, basemaps, logger)
	}

	var (
		sinks   []pipeline.OutcomeSink
		records *ledger.Ledger
	)
	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
	}
	if cfg.LedgerPath != "" {
		l, err := ledger.Open(cfg.LedgerPath, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := l.Close(); err != nil {
				logger.Error("ledger close error", "error", err)
			}
		}()
		sinks = append(sinks, l)
		records = l
	}

	orch := pipeline.New(pipeline.Deps{
		Data:      dataset.NewSource(dataPaths(cfg)),
		Config:    wb,
		Fonts:     registry,
		Resources: generator,
		Renderer:  scorecard.NewRenderer(wb, registry, cfg.OutputDir, cfg.ResourcesDir, logger),
		Sinks:     sinks,
		Out:       cmd.OutOrStdout(),
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, orch, orch, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	report, runErr := orch.Run(ctx, opts)
	if runErr != nil {
		logger.Error("report run failed", "error", runErr)
	}

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, "scorecards"); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}

	logSummary(logger, report)
	if records != nil && report.RunID != "" {
		logLedgerSummary(context.Background(), logger, records, report.RunID)
	}
	return runErr
}

func logSummary(logger *slog.Logger, report domain.RunReport) {
	for _, s := range report.Languages {
		logger.Info("language summary", "language", s.Language, "succeeded", s.Succeeded, "total", s.Total)
	}
}
