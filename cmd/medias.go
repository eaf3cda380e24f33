package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const collectLayout = "02/01/2006 15:04"

func newMediasCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medias",
		Short: "Inspect monitored medias",
	}
	cmd.AddCommand(newMediasListCommand(v))
	return cmd
}

func newMediasListCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every monitored media",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newCLIApp(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeCLIApp(app)

			medias, err := app.Queries.Medias(cmd.Context())
			if err != nil {
				return fmt.Errorf("list medias: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Nom", "URL", "Type", "Actif", "Dernière collecte"})
			for _, m := range medias {
				t.AppendRow(table.Row{m.ID, m.Nom, m.URL, m.TypeSite, activeLabel(m.Actif), lastCollect(m)})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d médias", len(medias))})
			t.Render()
			return nil
		},
	}
}

func activeLabel(active bool) string {
	if active {
		return "oui"
	}
	return "non"
}

func lastCollect(m models.Media) string {
	if m.DerniereCollecte == nil || m.DerniereCollecte.IsZero() {
		return "-"
	}
	return m.DerniereCollecte.Format(collectLayout)
}
