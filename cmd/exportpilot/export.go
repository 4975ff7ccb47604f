package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/diagnosis"
	"export-pilot/internal/docs"
	"export-pilot/internal/entity"
	"export-pilot/internal/export"
	"export-pilot/internal/schema"
)

var outPath string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write analysis results to an XLSX workbook",
}

var exportChecklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Export the checklist verdicts workbook",
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

		data, err := export.NewService(nil).ChecklistXLSX(master, &rep)
		if err != nil {
			return err
		}
		return writeOut(data, "checklist_results.xlsx")
	},
}

var exportPackageCmd = &cobra.Command{
	Use:   "package",
	Short: "Export the generated document package manifest",
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
		rep := docs.Generate(market, bound)

		data, err := export.NewService(nil).PackageXLSX(&rep)
		if err != nil {
			return err
		}
		return writeOut(data, "document_package.xlsx")
	},
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "", "output path (defaults next to cwd)")
	exportChecklistCmd.Flags().StringVar(&bomPath, "bom", "", "BOM file bound to the upload slot")
	exportChecklistCmd.Flags().StringVar(&cadPath, "cad", "", "CAD file bound to the upload slot")
	exportPackageCmd.Flags().StringArrayVar(&inputBindings, "input", nil, "bind an input as <requirement-id>=<file-name> (repeatable)")
	exportCmd.AddCommand(exportChecklistCmd)
	exportCmd.AddCommand(exportPackageCmd)
}

func writeOut(data []byte, fallback string) error {
	path := outPath
	if path == "" {
		path = fallback
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
	return nil
}
