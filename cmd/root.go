package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/defect-pipeline/batchsend/internal/config"
	"github.com/defect-pipeline/batchsend/internal/logging"
	"github.com/defect-pipeline/batchsend/internal/queue"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile   string
	verbose   bool
	appConfig config.Config
	logger    = zap.NewNop()
	version   = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "batchsend",
	Short: "Send a synthetic defect-ticket batch to the ingestion queue",
	Long: `Builds a batch of synthetic defect tickets from a fixed set of templates and
publishes it as a single JSON message to the ticket ingestion queue. Defaults
target a LocalStack SQS queue for local integration testing.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSend,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits non-zero on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Publish failures were already reported by the sender.
		var pubErr *queue.PublishError
		if !errors.As(err, &pubErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.batchsend.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")
}

// loadConfig loads and validates configuration and sets up the logger.
// transport, when non-empty, overrides the configured transport.
func loadConfig(transport string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if transport != "" {
		cfg.Transport = transport
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'batchsend config' to set up the queue connection", err)
	}
	appConfig = cfg

	l, err := logging.New(cfg.Log.Level, verbose)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = l
	return nil
}
