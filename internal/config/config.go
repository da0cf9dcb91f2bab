package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// InitConfig reads in config file and ENV variables if set. Credentials and
// connection defaults can live in the config file so they do not have to be
// repeated on every invocation.
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".ptzctl" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ptzctl")
	}

	// Environment overrides, e.g. PTZCTL_PASSWORD.
	viper.SetEnvPrefix("PTZCTL")
	viper.AutomaticEnv()

	// Missing config file is fine; flags and env cover everything.
	_ = viper.ReadInConfig()
}
