// Package cmd contains the CLI commands for hwctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Used for flags
	verbose bool
	output  string
)

// defaultDBPath is the default database path, can be overridden via HWPORTAL_DB_PATH env var
var defaultDBPath = "data/hwportal.db"

func init() {
	if envPath := os.Getenv("HWPORTAL_DB_PATH"); envPath != "" {
		defaultDBPath = envPath
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hwctl",
	Short: "hwctl - Hardware Portal admin tool",
	Long: `hwctl manages the hardware portal database directly, outside
of the REST API. It is intended for system administrators.

Examples:
  # List all users
  hwctl user list

  # Create an admin user
  hwctl user create --username admin --email admin@example.com --admin

  # List hardware pools
  hwctl pool list

  # Add a hardware pool
  hwctl pool create --name HWSET3 --capacity 100`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help by default
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
}

// GetOutput returns the output format.
func GetOutput() string {
	return output
}

// PrintVerbose prints a message only if verbose mode is enabled.
func PrintVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Printf(format+"\n", args...)
	}
}
