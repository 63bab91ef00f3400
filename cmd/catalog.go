package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-quality-stats/internal/config"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Prints the repositories and base branches polled by run",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("catalog")
		catalog, err := config.LoadCatalog(path)
		if err != nil {
			return err
		}
		for _, r := range catalog.Repositories {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, strings.Join(r.BaseBranches(), ","))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().String("catalog", "", "Repository catalog YAML (default: built-in catalog)")
}
