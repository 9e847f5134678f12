package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"helmetwatch.xyz/alert-console/pkg/common"
)

var (
	feedType     string
	httpHostPort string
	grpcHostPort string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "alert-console",
		Short: "Mine safety alert console",
		Long: `alert-console surfaces the newest unacknowledged safety alert to operators
and relays their acknowledgments to the alert backend.

  alert-console serve       Run the console (default)
  alert-console simulate    Publish simulated emergencies into the feed`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&feedType, "feed", "", "feed type: memory, redis or mqtt (overrides "+common.EnvKeyFeedType+")")
	rootCmd.PersistentFlags().StringVar(&httpHostPort, "http", "", "http host:port (overrides "+common.EnvKeyConsoleHttpHostPort+")")
	rootCmd.PersistentFlags().StringVar(&grpcHostPort, "grpc", "", "gRPC host:port, empty disables gRPC (overrides "+common.EnvKeyConsoleGrpcHostPort+")")

	rootCmd.AddCommand(
		newServeCmd(),
		newSimulateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads .env when present, then the environment, then flags.
func loadSettings() (common.Settings, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	settings, err := common.LoadSettings()
	if err != nil {
		return settings, err
	}

	if feedType != "" {
		settings.FeedType = feedType
	}
	if httpHostPort != "" {
		settings.HttpHostPort = httpHostPort
	}
	if grpcHostPort != "" {
		settings.GrpcHostPort = grpcHostPort
	}
	return settings, settings.Validate()
}
