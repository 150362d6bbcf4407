package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	DataDir        string
	CityIndicators string
	HexIndicators  string
	Thresholds     string
	Walkability    string
	PolicyLookup   string
	CityData       string

	OutputDir    string
	ResourcesDir string

	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	PushgatewayURL  string
	ShutdownTimeout time.Duration

	// Outcome publishing; disabled when no brokers are set.
	KafkaBrokers      []string
	KafkaOutcomeTopic string

	// Mapbox basemap configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	LedgerPath string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	mapboxCacheSize, err := parseMapboxCacheSize()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	dataDir := sharedcfg.EnvOrDefault("DATA_DIR", "data")
	inData := func(key, name string) string {
		return sharedcfg.EnvOrDefault(key, filepath.Join(dataDir, name))
	}

	cfg := &Config{
		DataDir:        dataDir,
		CityIndicators: inData("CITY_INDICATORS_CSV", "city_indicators.csv"),
		HexIndicators:  inData("HEX_INDICATORS_CSV", "hex_indicators.csv"),
		Thresholds:     inData("THRESHOLDS_CSV", "thresholds.csv"),
		Walkability:    inData("WALKABILITY_CSV", "walkability.csv"),
		PolicyLookup:   inData("POLICY_LOOKUP", "policy_lookup.yaml"),
		CityData:       inData("CITY_DATA_JSON", "cities.json"),

		OutputDir:    sharedcfg.EnvOrDefault("OUTPUT_DIR", "scorecards"),
		ResourcesDir: sharedcfg.EnvOrDefault("RESOURCES_DIR", "resources"),

		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:      sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaOutcomeTopic: sharedcfg.EnvOrDefault("KAFKA_OUTCOME_TOPIC", "scorecard-outcomes"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		LedgerPath: os.Getenv("LEDGER_PATH"),
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether outcome events should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parseMapboxCacheSize() (int, error) {
	s := os.Getenv("MAPBOX_CACHE_SIZE")
	if s == "" {
		return 100, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("invalid MAPBOX_CACHE_SIZE: must be a positive integer")
	}
	return n, nil
}
