package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/display"
	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/logger"
	"github.com/rileyhilliard/zbxboard/internal/problems"
	"github.com/rileyhilliard/zbxboard/internal/ui"
	"github.com/rileyhilliard/zbxboard/internal/util"
	"github.com/spf13/cobra"
)

var checkJSON bool

// checkCmd does one fetch and prints the result
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Fetch current problems once and print them",
	Long: `Connect to the Zabbix API with the configured URL and token, fetch
every host with active problems, and print them as a table.

Exits 1 if the API can't be reached, so it works as a config test.

Examples:
  zbxboard check
  zbxboard check --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return checkCommand(ctx, cfgFile, checkJSON, os.Stdout)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(checkCmd)
}

// CheckResult is the --json payload of check.
type CheckResult struct {
	URL           string            `json:"url"`
	ConfigPath    string            `json:"config_path,omitempty"`
	APIVersion    string            `json:"api_version"`
	Severities    []int             `json:"severities"`
	HostCount     int               `json:"host_count"`
	ProblemCount  int               `json:"problem_count"`
	NewestEventID int64             `json:"newest_event_id,omitempty"`
	Snapshot      problems.Snapshot `json:"snapshot"`
}

func checkCommand(ctx context.Context, path string, jsonOut bool, out io.Writer) error {
	result, err := runCheck(ctx, path, out, !jsonOut)
	if jsonOut {
		if err != nil {
			_ = WriteJSONFromError(out, err)
			return errors.NewExitError(1)
		}
		return WriteJSONSuccess(out, result)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, ui.RenderProblemTable(result.Snapshot))
	summary := fmt.Sprintf("%s, %s, Zabbix API %s",
		util.CountNoun(result.HostCount, "host", "hosts"),
		util.CountNoun(result.ProblemCount, "problem", "problems"),
		result.APIVersion)
	if result.NewestEventID > 0 {
		summary += fmt.Sprintf(", newest event %d", result.NewestEventID)
	}
	fmt.Fprintf(out, "\n%s\n", ui.MutedStyle.Render(summary))
	return nil
}

// runCheck performs the checks. With progress set, spinners go to out.
func runCheck(ctx context.Context, path string, out io.Writer, progress bool) (*CheckResult, error) {
	cfg, cfgPath, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	if progress {
		if noColor {
			cfg.Display.Color = "never"
		}
		display.ApplyColor(cfg.Display.Color, out)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, Output: os.Stderr, Component: "check"})
	if err != nil {
		log = logger.Noop()
	}

	client, err := newZabbixClient(cfg.API, logger.Component(log, "zabbix"))
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		URL:        cfg.API.URL,
		ConfigPath: cfgPath,
		Severities: cfg.API.EffectiveSeverities(),
	}

	step := func(label string, fn func() error) error {
		if !progress {
			return fn()
		}
		s := ui.NewSpinner(out, label)
		s.Start()
		if err := fn(); err != nil {
			s.Fail()
			return err
		}
		s.Success()
		return nil
	}

	err = step("Connecting to "+cfg.API.URL, func() error {
		v, err := client.APIVersion(ctx)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrTransport,
				"Couldn't reach the Zabbix API",
				"Check api.url and that the server is up.")
		}
		result.APIVersion = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	repo := problems.NewRepository(client, problems.RepositoryOptions{
		Severities: cfg.API.Severities,
		Logger:     logger.Component(log, "problems"),
	})
	err = step("Fetching problems", func() error {
		snap, err := repo.FetchAll(ctx)
		if err != nil {
			return err
		}
		result.Snapshot = snap
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.HostCount = result.Snapshot.Len()
	result.ProblemCount = result.Snapshot.ProblemCount()
	if id, ok := result.Snapshot.MaxEventID(); ok {
		result.NewestEventID = id
	}
	return result, nil
}
