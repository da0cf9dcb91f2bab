package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tallyEnableCmd = &cobra.Command{
	Use:   "tally_enable",
	Short: "Turn the camera tally light on",
	Run: func(cmd *cobra.Command, args []string) {
		runTally(true)
	},
}

var tallyDisableCmd = &cobra.Command{
	Use:   "tally_disable",
	Short: "Turn the camera tally light off",
	Run: func(cmd *cobra.Command, args []string) {
		runTally(false)
	},
}

func runTally(on bool) {
	drv, cam := setupCamera()

	// Mixed fleets route tally commands to every camera; a model without
	// a light just ignores the command instead of failing the run.
	if !drv.Def.HasTally {
		log.Warn().Msgf("model %s has no tally light, nothing to do", drv.Def.Name)
		return
	}

	if err := cam.SetTally(on); err != nil {
		fmt.Printf("Error switching tally: %v\n", err)
		os.Exit(1)
	}

	state := "off"
	if on {
		state = "on"
	}
	fmt.Printf("Tally light %s.\n", state)
}

func init() {
	rootCmd.AddCommand(tallyEnableCmd)
	rootCmd.AddCommand(tallyDisableCmd)
}
