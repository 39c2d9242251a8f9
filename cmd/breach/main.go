// breach is a headless driver of the breach game: the player cube dodges
// incoming walls of boxes by slipping through their single hole.
//
// Usage:
//
//	breach run               - Play rounds with the autopilot and record the scores
//	breach scores            - Show the high scores
//
// Global flags:
//
//	--config <path> - Set a custom config YAML
//	--db <path>     - Set database path (default: ~/.breach/scores.db)
//	--verbose       - Log every passed wall
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/akmonengine/breach/internal/storage"
)

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagVerbose bool
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "breach",
	Short: "Breach - slip the cube through the walls",
	Long: `Breach is a small 3D arcade game: walls of boxes come toward the player
cube, each with a single hole to slip through.

Available commands:
  run      - Play rounds with the autopilot
  scores   - View high scores

Examples:
  breach run --frames 3600 --seed 42
  breach scores --limit 5`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logs")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoresCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "breach",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}
