package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/fentz26/taskkeep/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive TUI",
	RunE:  runTUI,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the daemon's health",
	RunE: func(cmd *cobra.Command, args []string) error {
		health, err := api.CheckHealth()
		if health != nil {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK:      %v\n", health.OK)
			fmt.Fprintf(out, "DB:      %s\n", health.DB)
			fmt.Fprintf(out, "Version: %s\n", health.Version)
			fmt.Fprintf(out, "Time:    %s\n", health.Time)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isDaemonRunning() {
		fmt.Println("taskkeep daemon not running. Starting background service...")
		if err := startDaemon(); err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}
	}

	app := tui.New(api)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func isDaemonRunning() bool {
	health, err := api.CheckHealth()
	return err == nil && health.OK
}

// startDaemon runs "taskkeep daemon" detached, forwarding the config file,
// and waits for the API to answer.
func startDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	daemonArgs := []string{"daemon"}
	if cfgFile != "" {
		daemonArgs = append(daemonArgs, "--config", cfgFile)
	}
	cmd := exec.Command(exe, daemonArgs...)
	configureDaemonProc(cmd)

	// Keep daemon output off the TUI screen.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	fmt.Print("   Waiting for daemon...")
	for i := 0; i < 20; i++ { // Wait up to 5 seconds
		if isDaemonRunning() {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("daemon started but API not reachable at %s", api.BaseURL())
}
