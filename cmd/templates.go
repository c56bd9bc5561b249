package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/defect-pipeline/batchsend/internal/batch"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var templatesOutput string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the ticket templates batches are built from",
	Long:  `Prints the fixed ticket templates in the order they are cycled through. Severity is shown here but is not part of the published tickets.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates := batch.Templates()
		out := cmd.OutOrStdout()

		switch templatesOutput {
		case "table":
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tSEVERITY\tTITLE")
			for i, t := range templates {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i, t.Severity, t.Title)
			}
			return w.Flush()
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(templates); err != nil {
				return fmt.Errorf("encoding templates: %w", err)
			}
			return nil
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(templates); err != nil {
				return fmt.Errorf("encoding templates: %w", err)
			}
			return enc.Close()
		default:
			return fmt.Errorf("unsupported output format %q (use table, json or yaml)", templatesOutput)
		}
	},
}

func init() {
	templatesCmd.Flags().StringVarP(&templatesOutput, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(templatesCmd)
}
