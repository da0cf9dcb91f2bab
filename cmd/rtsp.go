package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listRTSPCmd = &cobra.Command{
	Use:   "list_rtsp_urls",
	Short: "Print the camera's RTSP stream URLs",
	Run: func(cmd *cobra.Command, args []string) {
		drv, _ := setupCamera()

		urls := drv.RTSP()
		if len(urls) == 0 {
			fmt.Printf("Model %s declares no RTSP stream.\n", drv.Def.Name)
			return
		}
		for _, u := range urls {
			fmt.Println(u)
		}
	},
}

func init() {
	rootCmd.AddCommand(listRTSPCmd)
}
