package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "agentctl",
	Short: "Node agent control command",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		viper.SetConfigName("agentctl.yaml")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("/etc/gantry/")
		viper.AddConfigPath("$HOME/.config/gantry")
		viper.AddConfigPath(".")
		viper.ReadInConfig()

		viper.SetEnvPrefix("gantry")
		viper.AutomaticEnv()

		config, err := ParseConfig()
		if err != nil {
			log.Fatal(err)
		}
		configData = *config
	},
}

var configData = ControlConfig{}

func main() {
	rootCmd.PersistentFlags().StringP("agent-uri", "a", "tcp://localhost:9090", "Node agent service URI")
	viper.BindPFlag("agent_uri", rootCmd.PersistentFlags().Lookup("agent-uri"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
