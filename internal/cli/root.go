package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/spf13/cobra"
)

// Global flags
var (
	cfgFile string
	verbose bool
	noColor bool
)

// rootCmd runs the dashboard when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "zbxboard",
	Short: "Zabbix problem dashboard for a wall screen",
	Long: `zbxboard polls a Zabbix server for hosts with active problems and
shows them one host at a time, color-coded by severity. New problems ring
an alert. Buttons (keyboard or a Modbus I/O module) force a refresh or
skip to the next host.

Run 'zbxboard init' to create a config, then 'zbxboard check' to test it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context(), runFlags)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.zbxboard.yaml, then ~/.config/zbxboard/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level, including every event id seen")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors")
	addRunFlags(rootCmd, &runFlags)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	if code, ok := errors.GetExitCode(err); ok {
		os.Exit(code)
	}

	if isUnknownCommandError(err) {
		fmt.Fprintf(os.Stderr, "%s\nRun 'zbxboard --help' for usage.\n", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// isUnknownCommandError reports cobra's argument parsing errors.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
