package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwulff/coach/internal/app"
	"github.com/jwulff/coach/internal/config"
	"github.com/jwulff/coach/internal/daemon"
	"github.com/jwulff/coach/internal/db"
	"github.com/jwulff/coach/internal/logging"
	"github.com/jwulff/coach/internal/mcpserver"
	"github.com/jwulff/coach/internal/metrics"
	"github.com/jwulff/coach/internal/relay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	// Root flags
	product string
	focus   string

	// Subcommand flags
	historyLimit int
	configInit   bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd runs the live coaching TUI.
var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Live call coaching in the terminal",
	Long: `coach shows a live call as it happens: transcript, talk metrics and
coaching recommendations streamed from coach-daemon.

Run without arguments to start the interactive view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if product != "" {
			cfg.Product = product
		}
		if focus != "" {
			cfg.Focus = focus
		}

		logger, err = logging.New(logging.Options{
			Path:    cfg.LogPath,
			Level:   cfg.LogLevel,
			Verbose: verbose,
		})
		if err != nil {
			return err
		}
		logger = logger.With(zap.String("cmd", cmd.Name()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI()
	},
}

// mcpCmd serves the call history to MCP clients over stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve call history as MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		logger.Info("mcp server starting", zap.String("db", cfg.DBPath))
		return mcpserver.New(store, version, logger).ServeStdio()
	},
}

// historyCmd prints recent calls, or one call in full.
var historyCmd = &cobra.Command{
	Use:   "history [call-id]",
	Short: "Show recorded calls",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.DBPath); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "No calls recorded.")
			return nil
		}
		store, err := db.OpenReadOnly(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			return printCall(cmd.OutOrStdout(), store, args[0])
		}
		return printHistory(cmd.OutOrStdout(), store, historyLimit)
	},
}

// configCmd prints the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configInit {
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config already exists at %s", configPath)
			}
			if err := config.Save(configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
			return nil
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().StringVar(&product, "product", "", "Product for the next call (overrides config)")
	rootCmd.Flags().StringVar(&focus, "focus", "", "Coaching focus for the next call (overrides config)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of calls to list")
	configCmd.Flags().BoolVar(&configInit, "init", false, "Write the current configuration to the config path")

	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTUI() error {
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	m := app.New(app.Options{
		Dial:        newDialer(cfg),
		DBPath:      cfg.DBPath,
		Logger:      logger,
		Operator:    cfg.Operator,
		Product:     cfg.Product,
		Focus:       cfg.Focus,
		ShowContext: cfg.ShowContext,
		CallTimeout: timeout,
	})

	logger.Info("tui starting",
		zap.String("transport", cfg.Transport),
		zap.String("operator", cfg.Operator))

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// newDialer picks the call transport named in cfg.
func newDialer(cfg config.Config) app.Dialer {
	if cfg.Transport == config.TransportWebsocket {
		return func(ctx context.Context) (app.Conn, error) {
			c, err := relay.Dial(ctx, cfg.RelayURL, cfg.Operator)
			if err != nil {
				return nil, err
			}
			return c, nil
		}
	}
	return func(ctx context.Context) (app.Conn, error) {
		c, err := daemon.Connect(cfg.SocketPath)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func printHistory(w io.Writer, store *db.Store, limit int) error {
	calls, err := store.RecentCalls(limit)
	if err != nil {
		return err
	}
	if len(calls) == 0 {
		fmt.Fprintln(w, "No calls recorded.")
		return nil
	}
	for _, c := range calls {
		fmt.Fprintf(w, "%s  %s  %-24s %-24s %s\n",
			c.ID, c.StartedAt.Format("2006-01-02 15:04"), c.Product, c.Focus,
			metrics.FormatDuration(uint(c.Duration()/time.Second)))
	}
	return nil
}

func printCall(w io.Writer, store *db.Store, id string) error {
	c, err := store.Call(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("call %s not found", id)
	}
	recs, err := store.RecommendationsForCall(id)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mcpserver.FormatCall(*c, recs))
	return err
}
