package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"export-pilot/constants"
	"export-pilot/internal/labs"
)

var labsCmd = &cobra.Command{
	Use:   "labs",
	Short: "Recommend test labs with normalized scoring",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := labs.LoadCatalog()
		if err != nil {
			return err
		}
		rep := labs.NewReport(catalog, constants.SafeMarket(marketFlag))
		if jsonOut {
			return printJSON(rep)
		}

		fmt.Printf("Market: %s  (cost gauge max %.0f만원, lead gauge max %.0f일)\n\n",
			rep.Market, rep.GaugeMax.Cost, rep.GaugeMax.LeadDays)
		for _, lab := range rep.Labs {
			marker := " "
			if lab.BestMatch {
				marker = "*"
			}
			fmt.Printf("%s %s — %s\n", marker, lab.ID, lab.Name)
			fmt.Printf("    composite %d | cost %d | lead %d | success %d | field %d\n",
				lab.Score.Composite, lab.Score.Cost, lab.Score.LeadTime, lab.Score.Success, lab.Score.FieldFit)
		}
		return nil
	},
}
