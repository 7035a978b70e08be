package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshharrison/netdiagram/internal/config"
	"github.com/joshharrison/netdiagram/internal/cpm"
	"github.com/joshharrison/netdiagram/internal/ctxlog"
	"github.com/joshharrison/netdiagram/internal/render"
	"github.com/joshharrison/netdiagram/internal/server"
	"github.com/joshharrison/netdiagram/internal/taskdata"
	"github.com/joshharrison/netdiagram/internal/ui"
)

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// app holds the configuration shared by all commands of one invocation.
type app struct {
	cfg *config.Config

	flagFile    string
	flagFormat  string
	flagNoColor bool
	flagVerbose bool
	flagLogo    bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s %v\n", ui.BoldRed("error:"), err)
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return 1
	}
	return 0
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "netdiagram",
		Short: "Compute critical path schedules for task networks",
		Long: `Netdiagram reads a list of tasks with durations and typed, lagged
dependencies, computes earliest and latest start and finish times and slack
for every task, and lists the critical paths through the network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, stderr)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.flagFile, "file", "f", "", "Task file (default from NETDIAGRAM_FILE or "+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&a.flagFormat, "format", "", "Task file format (auto, json, hcl)")
	rootCmd.PersistentFlags().BoolVar(&a.flagNoColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&a.flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.flagLogo, "logo", false, "Print the banner before output")

	rootCmd.AddCommand(a.scheduleCmd())
	rootCmd.AddCommand(a.pathsCmd())
	rootCmd.AddCommand(a.ganttCmd())
	rootCmd.AddCommand(a.vizCmd())
	rootCmd.AddCommand(a.validateCmd())
	rootCmd.AddCommand(a.serveCmd())

	return rootCmd
}

// setup loads configuration, applies flag overrides and installs the logger.
func (a *app) setup(cmd *cobra.Command, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if a.flagFile != "" {
		cfg.File = a.flagFile
	}
	if a.flagFormat != "" {
		format, err := taskdata.ParseFormat(a.flagFormat)
		if err != nil {
			return err
		}
		cfg.Format = format
	}
	if a.flagNoColor {
		cfg.Color = false
	}
	if a.flagVerbose {
		cfg.LogLevel = slog.LevelDebug
	}
	a.cfg = cfg

	ui.SetColor(cfg.Color)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))

	if a.flagLogo {
		ui.PrintLogo(stderr)
	}
	return nil
}

// analyze loads the task file (args[0] when given) and runs the analysis.
func (a *app) analyze(ctx context.Context, args []string) (*cpm.Result, error) {
	path := a.cfg.File
	if len(args) > 0 {
		path = args[0]
	}

	g, err := taskdata.Load(ctx, taskdata.Open(path, a.cfg.Format))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	result, err := cpm.Analyze(g)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("analysis complete",
		"tasks", len(result.Order), "project_end", result.ProjectEnd, "critical_paths", len(result.CriticalPaths))
	return result, nil
}

// renderCmd builds a command that analyzes the task file and renders it.
func (a *app) renderCmd(use, short string, r func() (render.Renderer, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := r()
			if err != nil {
				return err
			}
			result, err := a.analyze(cmd.Context(), args)
			if err != nil {
				return err
			}
			return renderer.Render(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) scheduleCmd() *cobra.Command {
	var flagOutput string
	cmd := a.renderCmd("schedule [file]", "Print the schedule table and critical paths", func() (render.Renderer, error) {
		return render.ByName(flagOutput)
	})
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "schedule", "Output view (ascii, dot, gantt, json, paths, schedule, table, waves)")
	return cmd
}

func (a *app) pathsCmd() *cobra.Command {
	var flagJSON bool
	cmd := a.renderCmd("paths [file]", "List the critical paths", func() (render.Renderer, error) {
		if flagJSON {
			return render.Func(pathsJSON), nil
		}
		return render.ByName("paths")
	})
	cmd.Flags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	return cmd
}

func (a *app) ganttCmd() *cobra.Command {
	var flagWidth int
	cmd := a.renderCmd("gantt [file]", "Draw a Gantt chart of the schedule", func() (render.Renderer, error) {
		if flagWidth <= 0 {
			return nil, fmt.Errorf("--width must be positive, got %d", flagWidth)
		}
		return render.Gantt{Width: flagWidth}, nil
	})
	cmd.Flags().IntVar(&flagWidth, "width", render.DefaultGanttWidth, "Maximum chart width in columns")
	return cmd
}

func (a *app) vizCmd() *cobra.Command {
	var flagOutput string
	cmd := a.renderCmd("viz [file]", "Print the dependency graph (ascii or Graphviz dot)", func() (render.Renderer, error) {
		switch flagOutput {
		case "ascii", "dot":
			return render.ByName(flagOutput)
		default:
			return nil, fmt.Errorf("unknown viz output %q (want ascii or dot)", flagOutput)
		}
	})
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "ascii", "Output format (ascii, dot)")
	return cmd
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a task file describes a valid network",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.analyze(cmd.Context(), args)
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d tasks, project end %d, %d critical path(s)\n",
				ui.Green("ok:"), len(result.Order), result.ProjectEnd, len(result.CriticalPaths))
			return nil
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var (
		flagAddr      string
		flagCacheSize int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve schedule analysis over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.Addr
			if cmd.Flags().Changed("addr") {
				addr = flagAddr
			}
			cacheSize := a.cfg.CacheSize
			if cmd.Flags().Changed("cache-size") {
				cacheSize = flagCacheSize
			}

			// Responses are never coloured.
			ui.SetColor(false)

			srv, err := server.New(cacheSize, ctxlog.FromContext(cmd.Context()))
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&flagAddr, "addr", config.DefaultAddr, "Listen address")
	cmd.Flags().IntVar(&flagCacheSize, "cache-size", config.DefaultCacheSize, "Number of analyses kept in the response cache")
	return cmd
}

func pathsJSON(w io.Writer, r *cpm.Result) error {
	data, err := json.MarshalIndent(r.PathIDs(), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
