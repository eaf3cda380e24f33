// Package cmd implements the media-scan command-line interface.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/north-cloud/media-scan/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/media-scan/internal/config"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

const envPrefix = "MEDIA_SCAN"

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Flags are bound through viper so
// MEDIA_SCAN_CONFIG and MEDIA_SCAN_DEBUG work as well.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "media-scan",
		Short:         "Media monitoring dashboard backend",
		Long:          `media-scan serves the media monitoring dashboard API and generates its reports.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().String("config", "", "config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	_ = v.BindPFlag("config", root.PersistentFlags().Lookup("config"))
	_ = v.BindPFlag("debug", root.PersistentFlags().Lookup("debug"))

	root.AddCommand(
		newServeCommand(v),
		newReportCommand(v),
		newMediasCommand(v),
		newTokenCommand(v),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "media-scan version %s\n", Version)
		},
	}
}

// loadConfig reads the configuration selected by --config.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := bootstrap.LoadConfig(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if v.GetBool("debug") {
		cfg.Debug = true
	}
	return cfg, nil
}

// newCLIApp builds the component graph with logs on stderr so command
// output stays clean.
func newCLIApp(ctx context.Context, v *viper.Viper) (*bootstrap.App, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}
	cfg.Logging.OutputPaths = []string{"stderr"}
	if !cfg.Debug && cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}

	log, err := bootstrap.CreateLogger(cfg, Version)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(ctx, cfg, log, Version)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return app, nil
}

func closeCLIApp(app *bootstrap.App) {
	app.Close()
	if err := app.Logger.Sync(); err != nil {
		app.Logger.Debug("Logger sync failed", logger.Error(err))
	}
}
