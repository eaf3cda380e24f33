package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/media-scan/internal/auth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultTokenTTL = 24 * time.Hour

var errNoSecret = errors.New("auth.jwt_secret is not configured")

func newTokenCommand(v *viper.Viper) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errNoSecret
			}
			token, err := auth.IssueToken(cfg.Auth.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", defaultTokenTTL, "token lifetime")
	return cmd
}
