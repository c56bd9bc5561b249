package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/defect-pipeline/batchsend/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure the queue connection",
	Long:  `Interactively set up the transport and its connection settings. Settings are saved to ~/.batchsend.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(os.Stdin)
		out := cmd.OutOrStdout()

		// Load existing config for defaults
		existing, _ := config.Load(cfgFile)

		cfg := existing
		cfg.Transport = prompt(reader, out, "Transport (sqs, kafka, http)", existing.Transport)

		switch cfg.Transport {
		case config.TransportSQS:
			cfg.SQS.QueueURL = prompt(reader, out, "Queue URL", existing.SQS.QueueURL)
			cfg.SQS.Endpoint = prompt(reader, out, "Endpoint override (empty for AWS)", existing.SQS.Endpoint)
			cfg.SQS.Region = prompt(reader, out, "Region", existing.SQS.Region)
			cfg.SQS.AccessKeyID = prompt(reader, out, "Access key ID", existing.SQS.AccessKeyID)

			// Secret (masked input)
			fmt.Fprint(out, "Secret access key (input hidden): ")
			secret, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Fprintln(out) // newline after hidden input
			if err != nil {
				return fmt.Errorf("reading secret access key: %w", err)
			}
			cfg.SQS.SecretAccessKey = strings.TrimSpace(string(secret))
			if cfg.SQS.SecretAccessKey == "" {
				cfg.SQS.SecretAccessKey = existing.SQS.SecretAccessKey
			}
		case config.TransportKafka:
			brokers := prompt(reader, out, "Brokers (comma separated)", strings.Join(existing.Kafka.Brokers, ","))
			cfg.Kafka.Brokers = splitList(brokers)
			cfg.Kafka.Topic = prompt(reader, out, "Topic", existing.Kafka.Topic)
		case config.TransportHTTP:
			cfg.HTTP.URL = prompt(reader, out, "Ingestion API URL (e.g., http://localhost:8080)", existing.HTTP.URL)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}

		if err := config.Save(cfg, path); err != nil {
			return err
		}

		fmt.Fprintf(out, "Configuration saved to %s\n", path)
		return nil
	},
}

// prompt reads one line, falling back to def on empty input.
func prompt(reader *bufio.Reader, out io.Writer, label, def string) string {
	if def != "" {
		fmt.Fprintf(out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(out, "%s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
}
