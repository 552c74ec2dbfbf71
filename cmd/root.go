package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/Mohsinsiddi/w3raffle/internal/config"
	"github.com/Mohsinsiddi/w3raffle/internal/logging"
	"github.com/Mohsinsiddi/w3raffle/internal/metrics"
	"github.com/Mohsinsiddi/w3raffle/internal/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3raffle/cmd.Version=1.2.3" .
var Version = "0.1.0"

// EnvConfigDir overrides the default config directory.
const EnvConfigDir = "W3RAFFLE_CONFIG_DIR"

var (
	cfgDir      string
	cfg         *config.Config
	logger      = logging.Nop()
	verbose     bool
	logFile     string
	metricsAddr string
	networkFlag string
	walletFlag  string
)

// rootCmd is the top-level command. Without a sub-command it opens the page.
var rootCmd = &cobra.Command{
	Use:   "w3raffle",
	Short: "Smart contract lottery front end",
	Long: `w3raffle - terminal front end for the raffle contract.

  Reads the entrance fee, player count and most recent winner from the
  raffle deployed on the connected chain, and enters the raffle paying the
  fee from your wallet.

Run without a sub-command to open the interactive page.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		dir := cfgDir
		if dir == "" {
			dir = os.Getenv(EnvConfigDir)
		}
		var err error
		cfg, err = config.Load(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// The page owns the terminal, so its log goes to a file.
		path := logFile
		if path == "" && isPage(cmd) {
			path = cfg.LogPath()
		}
		logger, err = logging.New(path, verbose)
		if err != nil {
			return err
		}

		if metricsAddr != "" {
			metrics.Serve(cmd.Context(), metricsAddr, logger)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync() //nolint:errcheck
	},
	RunE: runPage,
}

// Execute runs the root command.
func Execute() {
	loadDotEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		stop()
		os.Exit(1)
	}
}

// loadDotEnv reads .env from the working directory. A missing file is fine.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, ui.Warn("ignoring .env: "+err.Error()))
	}
}

func isPage(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "page"
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgDir, "config", "", "config directory (default: $"+EnvConfigDir+" or ~/.w3raffle)")
	pf.StringVarP(&networkFlag, "network", "n", "", "network to connect to (default: config default_network)")
	pf.StringVarP(&walletFlag, "wallet", "w", "", "wallet to use (default: config default_wallet)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug-level diagnostic log")
	pf.StringVar(&logFile, "log-file", "", "write the diagnostic log here")
	pf.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9102")

	rootCmd.AddCommand(
		pageCmd,
		showCmd,
		enterCmd,
		addressesCmd,
		abiCmd,
		networkCmd,
		walletCmd,
		configCmd,
	)
}
