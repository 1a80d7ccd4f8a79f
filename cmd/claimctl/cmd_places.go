package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teerapatzza/travel-claim/internal/container"
)

var placesJSON bool

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "List the named places usable as origin or destination",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := container.ProvideCatalog(cfg.Catalog.Path, zap.NewNop())
		if err != nil {
			return err
		}
		places := catalog.List()

		if placesJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(places)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLAT\tLNG")
		for _, p := range places {
			fmt.Fprintf(w, "%s\t%s\t%.6f\t%.6f\n", p.ID, p.Name, p.Location.Lat, p.Location.Lng)
		}
		return w.Flush()
	},
}

func init() {
	placesCmd.Flags().BoolVar(&placesJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(placesCmd)
}
