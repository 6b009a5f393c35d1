package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fxagent/internal/cli"
	"fxagent/internal/config"
	"fxagent/internal/logger"
	"fxagent/internal/mcp"
	"fxagent/internal/server"
	"fxagent/internal/tool"
	"fxagent/internal/tool/currency"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	envFile    string
	logLevel   string
	verbose    bool
	noColor    bool
	jsonOutput bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "fxagent",
		Short:         "Currency exchange agent",
		Long:          "Answers natural-language currency questions with an LLM agent backed by live exchange rates",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to fxagent.yaml (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the agent a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
	askCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the raw query result as JSON")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the currency tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE:  runMCP,
	}

	ratesCmd := &cobra.Command{
		Use:   "rates BASE [TO]",
		Short: "Look up rates directly, without the agent",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runRates,
	}
	ratesCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(serveCmd, askCmd, mcpCmd, ratesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads .env, then the YAML file, then the environment.
// Partial configs skip validation of the LLM settings.
func loadConfig(partial bool) (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	path := configPath
	if path == "" {
		path = config.Locate()
	}

	if !partial {
		return config.Load(path)
	}

	cfg, err := config.Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateExchange(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if verbose {
		level = "debug"
	}
	return logger.New(level)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}

	ca, err := c.currencyAgent()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	srv := server.New(ca, c.metrics, log.Named("http"))
	return srv.Run(ctx, cfg.Addr(), cfg.Server.ShutdownTimeout)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}

	// keep stdout for the answer unless debugging
	if cfg.Log.Level == "info" && logLevel == "" && !verbose {
		cfg.Log.Level = "warn"
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}

	ca, err := c.currencyAgent()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	result := ca.ProcessQuerySync(ctx, strings.Join(args, " "))

	out := cli.NewWriter(cmd.OutOrStdout())
	out.SetColorMode(!noColor)
	if jsonOutput {
		if err := out.JSON(result); err != nil {
			return err
		}
	} else {
		out.Result(result)
	}

	if !result.Success {
		return errors.New("query failed")
	}
	return nil
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs go to stderr via zap's default sinks
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	return mcp.NewServer(c.executor, version, log.Named("mcp")).Run(ctx)
}

func runRates(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	if logLevel == "" && !verbose {
		cfg.Log.Level = "warn"
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	c, err := buildComponents(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	out := cli.NewWriter(cmd.OutOrStdout())
	out.SetColorMode(!noColor)

	var res *tool.CallResult
	if len(args) == 2 {
		res = c.executor.ExecuteText(ctx, currency.PairToolName, args[0]+" to "+args[1])
	} else {
		res = c.executor.ExecuteText(ctx, currency.RatesToolName, args[0])
	}
	out.ToolOutput(res.ToolName, res.Text(), res.Result.Success)
	return nil
}
