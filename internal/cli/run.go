package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rileyhilliard/zbxboard/internal/audio"
	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/display"
	"github.com/rileyhilliard/zbxboard/internal/errors"
	"github.com/rileyhilliard/zbxboard/internal/input"
	"github.com/rileyhilliard/zbxboard/internal/logger"
	"github.com/rileyhilliard/zbxboard/internal/problems"
	"github.com/rileyhilliard/zbxboard/internal/util"
	"github.com/rileyhilliard/zbxboard/pkg/zabbix"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// RunOptions are the adapter overrides accepted by run and the root command.
// Empty fields keep the config value.
type RunOptions struct {
	Display string
	Input   string
	Audio   string
}

var runFlags RunOptions

// runCmd starts the dashboard
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dashboard",
	Long: `Poll Zabbix and show hosts with active problems until interrupted.

On a terminal the dashboard is full-screen; otherwise (or with
--display log) each screen is written as log records.

Examples:
  zbxboard run
  zbxboard run --display log --audio none
  zbxboard run --input modbus`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDashboard(cmd.Context(), runFlags)
	},
}

func init() {
	addRunFlags(runCmd, &runFlags)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().StringVar(&opts.Display, "display", "", "display: auto, tui or log")
	cmd.Flags().StringVar(&opts.Input, "input", "", "buttons: keyboard, modbus or none")
	cmd.Flags().StringVar(&opts.Audio, "audio", "", "alert: bell, command or none")
}

// runDashboard loads config, builds the adapters and runs until a signal
// arrives or the user quits.
func runDashboard(ctx context.Context, opts RunOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadRunConfig(cfgFile, opts, noColor)
	if err != nil {
		return err
	}

	mode := resolveDisplayMode(cfg.Display.Mode, term.IsTerminal(int(os.Stdout.Fd())))
	display.ApplyColor(cfg.Display.Color, os.Stdout)

	log, closeLog, err := openLog(cfg.Log, mode, verbose, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	d, err := buildDashboard(cfg, mode, dashboardIO{Stdin: os.Stdin, Stdout: os.Stdout, Bell: os.Stderr}, log)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}

// loadRunConfig loads the config and applies command-line overrides before
// validating.
func loadRunConfig(path string, opts RunOptions, noColor bool) (*config.Config, error) {
	cfg, _, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts, noColor)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts RunOptions, noColor bool) {
	if opts.Display != "" {
		cfg.Display.Mode = opts.Display
	}
	if opts.Input != "" {
		cfg.Input.Mode = opts.Input
	}
	if opts.Audio != "" {
		cfg.Audio.Mode = opts.Audio
	}
	if noColor {
		cfg.Display.Color = "never"
	}
}

// resolveDisplayMode turns "auto" into tui or log depending on stdout.
func resolveDisplayMode(mode string, stdoutIsTerminal bool) string {
	switch mode {
	case config.DisplayTUI, config.DisplayLog:
		return mode
	default:
		if stdoutIsTerminal {
			return config.DisplayTUI
		}
		return config.DisplayLog
	}
}

// openLog builds the run logger. The TUI owns the terminal, so without a
// log file its records are dropped.
func openLog(cfg config.LogConfig, mode string, debug bool, stderr io.Writer) (logger.Logger, func(), error) {
	level := cfg.Level
	if debug {
		level = "debug"
	}

	out := stderr
	closeFn := func() {}
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Couldn't create the log directory for %s", cfg.File),
				"Check log.file in your .zbxboard.yaml.")
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Couldn't open log file %s", cfg.File),
				"Check log.file in your .zbxboard.yaml.")
		}
		out = f
		closeFn = func() { _ = f.Close() }
	case mode == config.DisplayTUI:
		out = io.Discard
	}

	log, err := logger.New(logger.Options{Level: level, Output: out, Component: "board"})
	if err != nil {
		closeFn()
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid log level",
			"Set log.level to debug, info, warn or error.")
	}
	return log, closeFn, nil
}

// dashboardIO holds the process streams the adapters use.
type dashboardIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Bell   io.Writer
}

// dashboard is a fully wired controller plus the adapters it owns.
type dashboard struct {
	controller *board.Controller
	tui        *display.TUI
	log        logger.Logger
	closers    []func() error
}

// buildDashboard wires config to adapters. mode must already be resolved.
func buildDashboard(cfg *config.Config, mode string, streams dashboardIO, log logger.Logger) (*dashboard, error) {
	d := &dashboard{log: log}

	client, err := newZabbixClient(cfg.API, logger.Component(log, "zabbix"))
	if err != nil {
		return nil, err
	}
	repo := problems.NewRepository(client, problems.RepositoryOptions{
		Severities: cfg.API.Severities,
		Logger:     logger.Component(log, "problems"),
	})

	player, err := audio.New(cfg.Audio, streams.Bell, logger.Component(log, "audio"))
	if err != nil {
		return nil, err
	}
	if cmd, ok := player.(*audio.Command); ok {
		d.closers = append(d.closers, func() error {
			cmd.Wait()
			return nil
		})
	}

	buttons, handlers, err := d.buildInput(cfg.Input, mode)
	if err != nil {
		d.Close()
		return nil, err
	}

	var out board.Display
	if mode == config.DisplayTUI {
		d.tui = display.NewTUI(display.TUIOptions{
			Title:     cfg.Display.Title,
			Handlers:  handlers,
			Input:     streams.Stdin,
			Output:    streams.Stdout,
			AltScreen: true,
		})
		out = d.tui
	} else {
		out = display.NewLogDisplay(logger.Component(log, "display"))
	}

	d.controller = board.NewController(board.Options{
		Fetcher:   repo,
		Display:   out,
		Audio:     player,
		Input:     buttons,
		Logger:    log,
		HostIcons: cfg.Display.HostIcons,
	})
	return d, nil
}

// newZabbixClient builds the JSON-RPC client for cfg.
func newZabbixClient(cfg config.APIConfig, log logger.Logger) (*zabbix.Client, error) {
	client, err := zabbix.NewClient(zabbix.Options{
		URL:        cfg.URL,
		AuthToken:  cfg.AuthToken,
		BearerAuth: cfg.BearerAuth,
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		Logger:     log,
		UserAgent:  "zbxboard/" + GetVersion(),
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't set up the Zabbix client",
			"Check api.url in your .zbxboard.yaml.")
	}
	return client, nil
}

// buildInput creates the refresh and advance buttons.
func (d *dashboard) buildInput(cfg config.InputConfig, mode string) (*board.InputMonitor, display.Handlers, error) {
	btnLog := logger.Component(d.log, "input")

	switch cfg.Mode {
	case config.InputKeyboard:
		if mode != config.DisplayTUI {
			d.log.Warn("keyboard buttons need the full-screen display, running without buttons")
			return nil, display.Handlers{}, nil
		}
		refresh := input.NewKeyboardPin(cfg.Hold)
		advance := input.NewKeyboardPin(cfg.Hold)
		monitor := board.NewInputMonitor(
			board.NewButton("refresh", refresh, btnLog),
			board.NewButton("advance", advance, btnLog),
		)
		return monitor, display.Handlers{OnRefresh: refresh.Press, OnAdvance: advance.Press}, nil

	case config.InputModbus:
		bus, err := input.OpenModbus(cfg.Modbus)
		if err != nil {
			return nil, display.Handlers{}, err
		}
		d.closers = append(d.closers, bus.Close)
		monitor := board.NewInputMonitor(
			board.NewButton("refresh", bus.Pin(uint16(cfg.Modbus.RefreshAddress)), btnLog),
			board.NewButton("advance", bus.Pin(uint16(cfg.Modbus.AdvanceAddress)), btnLog),
		)
		return monitor, display.Handlers{}, nil

	default:
		return nil, display.Handlers{}, nil
	}
}

// Run drives the controller until ctx is done. With the TUI, the program
// runs on this goroutine and the controller in the background; quitting
// either one stops the other.
func (d *dashboard) Run(ctx context.Context) error {
	defer d.logStatus()
	if d.tui == nil {
		return d.controller.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- d.controller.Run(ctx)
	}()
	go func() {
		select {
		case <-ctx.Done():
			d.tui.Quit()
		case <-d.tui.Done():
		}
	}()

	tuiErr := d.tui.Run()
	cancel()
	ctrlErr := <-done

	if tuiErr != nil {
		return tuiErr
	}
	return ctrlErr
}

// logStatus records where the board stood when it stopped.
func (d *dashboard) logStatus() {
	st := d.controller.Status()
	if st.LastFetch.IsZero() {
		d.log.Info("stopped before the first successful fetch (%d failures)", st.ConsecutiveFailures)
		return
	}
	d.log.Info("stopped while %s: %s, watermark %d, %s, last fetch %s",
		st.State, util.CountNoun(st.HostCount, "host", "hosts"), st.Watermark,
		util.CountNoun(st.PendingAlerts, "pending alert", "pending alerts"),
		st.LastFetch.Format(time.RFC3339))
	if st.LastError != nil {
		d.log.Info("last fetch error after %d attempts: %v", st.ConsecutiveFailures, st.LastError)
	}
}

// Close releases adapters such as the Modbus connection.
func (d *dashboard) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			d.log.Debug("close: %v", err)
		}
	}
	d.closers = nil
}
