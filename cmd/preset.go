package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var presetCallCmd = &cobra.Command{
	Use:     "preset_call <id>",
	Short:   "Recall a stored pan-tilt-zoom preset",
	Example: `  ptzctl --ip 10.0.0.20 --model panasonic-aw-he40 preset_call 7`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, cam := setupCamera()

		// The driver validates the id (numeric, vendor range) before
		// any request goes out.
		if err := cam.CallPreset(args[0]); err != nil {
			fmt.Printf("Error recalling preset: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Preset %s recalled.\n", strings.TrimSpace(args[0]))
	},
}

func init() {
	rootCmd.AddCommand(presetCallCmd)
}
