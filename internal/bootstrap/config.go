package bootstrap

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
)

const serviceName = "media-scan"

// LoadConfig loads and validates the configuration at path. An empty path
// falls back to CONFIG_PATH, then config.yml.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.Path("config.yml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// CreateLogger creates the service logger. Debug forces the debug level.
func CreateLogger(cfg *config.Config, version string) (logger.Logger, error) {
	logCfg := cfg.Logging
	if cfg.Debug {
		logCfg.Level = "debug"
		logCfg.Development = true
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		logger.String("service", serviceName),
		logger.String("version", version),
	), nil
}

// ReportFormats parses the configured archive formats.
func ReportFormats(names []string) ([]report.Format, error) {
	formats := make([]report.Format, 0, len(names))
	seen := make(map[report.Format]bool, len(names))
	for _, name := range names {
		f, err := report.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("reports.formats: %w", err)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}
