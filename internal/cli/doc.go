// Package cli implements the zbxboard command-line interface.
//
// Commands are thin cobra wrappers around functions that take their
// inputs explicitly, so they can be tested without a terminal:
//
//	zbxboard [run]        - Run the dashboard (default)
//	zbxboard check        - Fetch once and print the problem table
//	zbxboard init         - Create .zbxboard.yaml
//	zbxboard config ...   - Show or edit config values
//	zbxboard version      - Print build information
//	zbxboard completion   - Generate shell completions
//
// Global flags (--config, --verbose, --no-color) live on the root command.
package cli
