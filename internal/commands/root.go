package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prohance/tracker/internal/config"
	"github.com/prohance/tracker/internal/db"
	"github.com/prohance/tracker/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Employee attendance and productivity tracker",
	Long: `tracker is the desktop agent for ProHance attendance. It punches your
shift in and out on the ERP, tracks active, break and idle time locally,
and reconciles both on a schedule.`,
}

// initApp loads configuration, sets up logging and opens the database
func initApp() config.Config {
	cfg := config.Load()
	logging.Init(logging.Config{
		Level:   cfg.LogLevel,
		DataDir: cfg.DataDir,
	})
	if err := db.Initialize(); err != nil {
		panic(err)
	}
	return cfg
}

// withApp wraps a command function to initialize the app first
func withApp(fn func(*cobra.Command, []string, config.Config)) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		cfg := initApp()
		defer db.Close()
		fn(cmd, args, cfg)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tracker %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(inCmd)
	rootCmd.AddCommand(outCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
