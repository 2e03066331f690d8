package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/ui"
	"github.com/rileyhilliard/zbxboard/internal/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd groups config inspection and editing
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit configuration",
	Long: `Inspect and edit the zbxboard config file.

Examples:
  zbxboard config path
  zbxboard config show
  zbxboard config set api.severities "[3, 4, 5]"
  zbxboard config set display.mode log`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configPathCommand(cfgFile, os.Stdout)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (token redacted)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowCommand(cfgFile, os.Stdout)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value, keeping comments",
	Args:  cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) != 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return config.Keys(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSetCommand(cfgFile, args[0], args[1], os.Stdout)
	},
}

func init() {
	configCmd.AddCommand(configPathCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func configPathCommand(explicit string, out io.Writer) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'zbxboard init' to create one.")
	}
	fmt.Fprintln(out, path)
	return nil
}

// redactedToken replaces all but the last four characters of a token.
func redactedToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 4 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}

func configShowCommand(explicit string, out io.Writer) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}
	cfg.API.AuthToken = redactedToken(cfg.API.AuthToken)

	source := path
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintf(out, "%s\n", ui.MutedStyle.Render("# "+source))

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Failed to print config", "")
	}
	return enc.Close()
}

func configSetCommand(explicit, key, value string, out io.Writer) error {
	path, err := config.Find(explicit)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file found",
			"Run 'zbxboard init' to create one.")
	}

	if err := config.SetValue(path, key, value); err != nil {
		suggestion := "Known keys: " + strings.Join(config.Keys(), ", ")
		if !config.KnownKey(key) {
			if similar := util.SuggestSimilar(key, config.Keys(), 3); len(similar) > 0 {
				suggestion = "Did you mean " + util.JoinOrDefault(similar, "") + "?"
			}
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s", key), suggestion)
	}

	// The edited file must still load and validate.
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s = %s\n", ui.SuccessStyle.Render(ui.SymbolSuccess), key, value)
	return nil
}
