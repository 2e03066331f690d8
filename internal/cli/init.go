package cli

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/logger"
	"github.com/rileyhilliard/zbxboard/internal/problems"
	"github.com/rileyhilliard/zbxboard/internal/ui"
	"github.com/spf13/cobra"
)

// initConnectTimeout bounds the connection test at the end of init.
const initConnectTimeout = 10 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write; defaults to ./.zbxboard.yaml
	URL            string // Pre-specified API URL
	Token          string // Pre-specified API token
	Severities     []int  // Severity filter; nil uses the default
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use flags and env
	SkipCheck      bool   // Don't test the connection before saving
}

var initOpts InitOptions

// initCmd creates a new .zbxboard.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .zbxboard.yaml configuration",
	Long: `Create a zbxboard config file in the current directory.

Prompts for the Zabbix API URL, an API token and the severities to show,
tests the connection, then writes .zbxboard.yaml (mode 0600, since it
holds the token).

Examples:
  zbxboard init
  zbxboard init --url https://zabbix.example/api_jsonrpc.php --token $TOKEN --non-interactive
  zbxboard init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(initOpts, os.Stdout)
	},
}

func init() {
	initCmd.Flags().StringVar(&initOpts.URL, "url", "", "Zabbix API URL (…/api_jsonrpc.php)")
	initCmd.Flags().StringVar(&initOpts.Token, "token", "", "Zabbix API token")
	initCmd.Flags().IntSliceVar(&initOpts.Severities, "severities", nil, "severities to show, e.g. 1,2,3")
	initCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "don't prompt; take values from flags and ZBXBOARD_API_* env")
	initCmd.Flags().BoolVar(&initOpts.SkipCheck, "no-check", false, "don't test the connection before saving")
	rootCmd.AddCommand(initCmd)
}

// initDefaults are prompt defaults taken from the environment.
type initDefaults struct {
	URL            string
	Token          string
	NonInteractive bool
}

// getInitDefaults reads ZBXBOARD_API_URL, ZBXBOARD_API_AUTH_TOKEN and
// ZBXBOARD_NON_INTERACTIVE. CI=true also disables prompts.
func getInitDefaults() initDefaults {
	nonInteractive := func(v string) bool {
		v = strings.ToLower(strings.TrimSpace(v))
		return v == "1" || v == "true" || v == "yes"
	}
	return initDefaults{
		URL:            os.Getenv(config.EnvPrefix + "_API_URL"),
		Token:          os.Getenv(config.EnvPrefix + "_API_AUTH_TOKEN"),
		NonInteractive: nonInteractive(os.Getenv(config.EnvPrefix+"_NON_INTERACTIVE")) || nonInteractive(os.Getenv("CI")),
	}
}

// Init creates a new config file.
func Init(opts InitOptions, out io.Writer) error {
	configPath := opts.Path
	if configPath == "" {
		configPath = filepath.Join(".", config.ConfigFileName)
	}

	defaults := getInitDefaults()
	if defaults.NonInteractive {
		opts.NonInteractive = true
	}
	if opts.URL == "" {
		opts.URL = defaults.URL
	}
	if opts.Token == "" {
		opts.Token = defaults.Token
	}

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", configPath)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	severities := opts.Severities
	if len(severities) == 0 {
		severities = append([]int(nil), problems.DefaultSeverities...)
	}

	if opts.NonInteractive {
		if err := validateAPIURL(opts.URL); err != nil {
			return errors.New(errors.ErrConfig, err.Error(), "Provide --url or set ZBXBOARD_API_URL")
		}
		if strings.TrimSpace(opts.Token) == "" {
			return errors.New(errors.ErrConfig,
				"API token is required in non-interactive mode",
				"Provide --token or set ZBXBOARD_API_AUTH_TOKEN")
		}
	} else {
		if err := promptInit(&opts, &severities); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.API.URL = strings.TrimSpace(opts.URL)
	cfg.API.AuthToken = strings.TrimSpace(opts.Token)
	cfg.API.Severities = severities

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.SkipCheck {
		if err := testConnection(cfg.API, opts.NonInteractive, out); err != nil {
			return err
		}
	}

	if err := config.Save(configPath, cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Fprintf(out, "%s Created %s\n\n", ui.SuccessStyle.Render(ui.SymbolSuccess), configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  zbxboard check  - Fetch problems once")
	fmt.Fprintln(out, "  zbxboard        - Start the dashboard")
	return nil
}

// promptInit asks for the API settings with huh forms.
func promptInit(opts *InitOptions, severities *[]int) error {
	options := make([]huh.Option[int], 0, len(problems.AllSeverities()))
	for _, s := range problems.AllSeverities() {
		options = append(options, huh.NewOption(s.String(), int(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Zabbix API URL").
				Description("The api_jsonrpc.php endpoint of your Zabbix frontend").
				Placeholder("https://zabbix.example/api_jsonrpc.php").
				Value(&opts.URL).
				Validate(validateAPIURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("API token").
				Description("Create one under User settings > API tokens").
				EchoMode(huh.EchoModePassword).
				Value(&opts.Token).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API token is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Severities to show").
				Options(options...).
				Value(severities).
				Validate(func(v []int) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one severity")
					}
					return nil
				}),
		),
	)

	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}
	return nil
}

// validateAPIURL checks that s is an absolute http(s) URL.
func validateAPIURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("API URL is required")
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("'%s' isn't a usable http(s) URL", s)
	}
	return nil
}

// testConnection calls apiinfo.version. Interactive runs may save anyway.
func testConnection(api config.APIConfig, nonInteractive bool, out io.Writer) error {
	client, err := newZabbixClient(api, logger.Noop())
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	spinner := ui.NewSpinner(out, "Testing connection to "+api.URL)
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), initConnectTimeout)
	defer cancel()

	_, err = client.APIVersion(ctx)
	if err == nil {
		spinner.Success()
		fmt.Fprintln(out)
		return nil
	}
	spinner.Fail()

	connErr := errors.WrapWithCode(err, errors.ErrTransport,
		fmt.Sprintf("Connection to '%s' failed", api.URL),
		"Check the URL, or save anyway with --no-check")
	if nonInteractive {
		return connErr
	}

	fmt.Fprintf(out, "\n%s %v\n\n", ui.ErrorStyle.Render(ui.SymbolFail), err)
	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can fix the connection later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return connErr
	}
	return nil
}
