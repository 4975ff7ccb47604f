// exportpilot is the offline CLI: it runs the diagnosis, lab matching and
// document generation flows directly on local inputs, without the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	marketFlag string
	jsonOut    bool
)

var rootCmd = &cobra.Command{
	Use:   "exportpilot",
	Short: "Export compliance assistant for the RT100 autonomous tractor",
	Long: `exportpilot evaluates the compliance checklist, matches test labs and
assembles export document packages from local file names. Results are
deterministic: the same inputs always produce the same output.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&marketFlag, "market", "EU", "target market (EU or US)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit raw JSON")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(labsCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
