package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ptzctl/internal/driver"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported camera models",
	Run: func(cmd *cobra.Command, args []string) {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MODEL\tTALLY\tPRESETS\tRTSP STREAMS")
		fmt.Fprintln(w, "-----\t-----\t-------\t------------")

		for _, name := range driver.Names() {
			def, err := driver.Lookup(name)
			if err != nil {
				continue
			}
			tally := "no"
			if def.HasTally {
				tally = "yes"
			}
			presets := "no"
			if def.PresetPath != nil {
				presets = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", name, tally, presets, len(def.RTSPURLs))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
