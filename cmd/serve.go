package cmd

import (
	"github.com/jonesrussell/north-cloud/media-scan/internal/bootstrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context(), v.GetString("config"), v.GetBool("debug"), Version)
		},
	}
}
