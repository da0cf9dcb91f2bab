package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ptzctl/internal/client"
	"ptzctl/internal/config"
	"ptzctl/internal/driver"
)

var (
	cfgFile string
	verbose bool
	log     zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ptzctl",
	Short: "Send control commands to network PTZ cameras",
	Long: `Control network PTZ cameras from multiple vendors over their HTTP
API: switch the tally light, recall presets and print RTSP stream URLs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ptzctl.yaml)")
	rootCmd.PersistentFlags().String("ip", "", "camera IP address or hostname")
	rootCmd.PersistentFlags().String("model", "", "camera model, one of: "+strings.Join(driver.Names(), ", "))
	rootCmd.PersistentFlags().StringP("user", "u", "", "camera username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "camera password")
	rootCmd.PersistentFlags().String("auth", "auto", "authentication scheme: auto, basic or digest")
	rootCmd.PersistentFlags().Float64("timeout", 5, "request timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	// Bind to viper so the config file and PTZCTL_* env can supply
	// credentials and defaults.
	for _, name := range []string{"ip", "model", "user", "password", "auth", "timeout"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// setupCamera validates the target flags, resolves the selected model and
// returns the bound driver plus a ready camera client. Validation failures
// terminate the process; nothing here touches the network.
func setupCamera() (*driver.Driver, *client.CameraClient) {
	ip := viper.GetString("ip")
	model := viper.GetString("model")
	if ip == "" || model == "" {
		fmt.Println("Error: --ip and --model are required.")
		os.Exit(1)
	}

	def, err := driver.Lookup(model)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	auth := viper.GetString("auth")
	switch auth {
	case "auto", string(driver.AuthBasic), string(driver.AuthDigest):
	default:
		fmt.Printf("Error: invalid --auth value %q (expected auto, basic or digest).\n", auth)
		os.Exit(1)
	}

	drv := def.Resolve(ip)
	cam := client.New(drv, client.Options{
		Username: viper.GetString("user"),
		Password: viper.GetString("password"),
		Auth:     auth,
		Timeout:  time.Duration(viper.GetFloat64("timeout") * float64(time.Second)),
	}, log)

	return drv, cam
}
