package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"export-pilot/constants"
	"export-pilot/internal/diagnosis"
	"export-pilot/internal/entity"
	"export-pilot/internal/schema"
)

var (
	bomPath string
	cadPath string
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Evaluate the compliance checklist against BOM/CAD inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		master, err := schema.Load()
		if err != nil {
			return err
		}
		market := constants.SafeMarket(marketFlag)

		in := diagnosis.Inputs{}
		if bomPath != "" {
			in.BOM = &entity.FileRecord{Name: filepath.Base(bomPath)}
		}
		if cadPath != "" {
			in.CAD = &entity.FileRecord{Name: filepath.Base(cadPath)}
		}

		rep := diagnosis.NewReport(master, market, in)
		if jsonOut {
			return printJSON(rep)
		}

		fmt.Printf("Market: %s\n", rep.Market)
		fmt.Printf("Pass: %d  Fail: %d\n\n", rep.Summary.Pass, rep.Summary.Fail)
		for _, item := range master.Items() {
			res, ok := rep.Results[item.ID]
			if !ok {
				continue
			}
			mark := "O"
			if res.Status == constants.CheckFail {
				mark = "X"
			}
			fmt.Printf("[%s] %s %s\n", mark, item.ID, item.Title)
			if res.Reason != "" {
				fmt.Printf("     reason: %s\n", res.Reason)
			}
			if res.Status == constants.CheckFail && res.Guide != "" {
				fmt.Printf("     %s\n", res.Guide)
			}
		}
		if len(rep.ActionItems) > 0 {
			fmt.Printf("\nAction items (%d):\n", len(rep.ActionItems))
			for _, it := range rep.ActionItems {
				fmt.Printf("  [%s] (%s) %s\n", it.Priority, it.Type, it.Task)
			}
		}
		return nil
	},
}

func init() {
	diagnoseCmd.Flags().StringVar(&bomPath, "bom", "", "BOM file bound to the upload slot")
	diagnoseCmd.Flags().StringVar(&cadPath, "cad", "", "CAD file bound to the upload slot")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
