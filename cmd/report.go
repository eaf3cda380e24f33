package cmd

import (
	"fmt"

	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const formatAll = "all"

func newReportCommand(v *viper.Viper) *cobra.Command {
	var (
		period string
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a PDF and/or Excel report",
		Example: `  media-scan report --period weekly --format all --out ./reports
  media-scan report --period daily --format pdf`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := report.ParsePeriod(period)
			if err != nil {
				return err
			}
			formats, err := reportFormats(format)
			if err != nil {
				return err
			}

			app, err := newCLIApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeCLIApp(app)

			if outDir == "" {
				outDir = app.Config.Reports.OutputDir
			}
			paths, err := app.Reports.WriteFiles(cmd.Context(), p, formats, outDir)
			for _, path := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&period, "period", string(report.Weekly), "report period: daily or weekly")
	cmd.Flags().StringVar(&format, "format", formatAll, "output format: pdf, xlsx or all")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (default reports.output_dir)")
	return cmd
}

func reportFormats(name string) ([]report.Format, error) {
	if name == formatAll {
		return []report.Format{report.FormatPDF, report.FormatExcel}, nil
	}
	f, err := report.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return []report.Format{f}, nil
}
