package main

import (
	"fmt"
	"os"

	"github.com/fentz26/taskkeep/internal/client"
	"github.com/fentz26/taskkeep/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "taskkeep",
	Short: "taskkeep - task and user record manager",
	Long: `taskkeep keeps task and user records behind an HTTP API.
Completed tasks are locked until they are reopened.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr string
	cfgFile string

	v   *viper.Viper
	cfg *config.Config
	api *client.Client
)

// flagAliases maps flag names onto config keys where they differ.
var flagAliases = map[string]string{
	"log-level":     config.KeyLogLevel,
	"log-format":    config.KeyLogFormat,
	"read-timeout":  config.KeyReadTimeout,
	"write-timeout": config.KeyWriteTimeout,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:7466", "API server address")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.taskkeep/config.yaml)")

	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves flags, environment and config file before any
// subcommand runs.
func loadConfig(cmd *cobra.Command, args []string) error {
	v = config.New()
	if err := config.BindFlags(v, cmd.Flags(), flagAliases); err != nil {
		return err
	}

	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	apiAddr = c.API
	api = client.New(apiAddr)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
