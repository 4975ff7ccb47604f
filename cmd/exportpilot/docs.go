package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/docs"
)

var inputBindings []string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Assemble the export document package from bound inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		market := constants.SafeMarket(marketFlag)

		bound := make(map[string]string, len(inputBindings))
		for _, b := range inputBindings {
			id, name, ok := strings.Cut(b, "=")
			if !ok || id == "" || name == "" {
				return common.InvalidInputf("--input must be <requirement-id>=<file-name>, got %q", b)
			}
			bound[id] = name
		}
		if !docs.CanStart(bound) {
			return common.InvalidInputf("at least one input document must be bound")
		}

		rep := docs.Generate(market, bound)
		if jsonOut {
			return printJSON(rep)
		}

		fmt.Printf("Market: %s\nStatus: %s\n", rep.Market, rep.Status)
		if warn := docs.MissingSummary(rep.Missing); warn != "" {
			fmt.Println(warn)
		}
		fmt.Println("\nInputs:")
		for _, req := range docs.ConfigFor(market).Inputs() {
			name := rep.Inputs[req.ID]
			if name == "" {
				name = "-"
			}
			fmt.Printf("  %s: %s\n", req.Name, name)
		}
		fmt.Println("\nOutputs:")
		for _, out := range rep.Outputs {
			fmt.Printf("  [%s] %s — %s\n", out.Type, out.Name, out.Desc)
		}
		for _, line := range rep.Logs {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	docsCmd.Flags().StringArrayVar(&inputBindings, "input", nil, "bind an input as <requirement-id>=<file-name> (repeatable)")
}
