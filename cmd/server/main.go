// Package main implements the richtext-api command: an HTTP service that
// converts Markdown into rich text documents, plus an offline convert command.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"

	"github.com/phrazzld/richtext-api/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command without a
// subcommand starts the server.
func newRootCmd() *cobra.Command {
	serveCmd := newServeCmd()

	rootCmd := &cobra.Command{
		Use:   "richtext-api",
		Short: "Convert Markdown into rich text documents",
		Long: `richtext-api converts Markdown into Contentful-style rich text JSON.

Without a subcommand it serves the HTTP API (GET /health, POST /convert).
The convert subcommand performs the same conversion offline.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serveCmd.RunE,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (YAML)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd, newConvertCmd())
	return rootCmd
}

// newViper prepares a viper instance for cmd: the --config file when given and
// every flag that maps onto a configuration key.
func newViper(cmd *cobra.Command, flagKeys map[string]string) (*viper.Viper, error) {
	v := viper.New()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}

	for name, key := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, err
		}
	}

	if err := config.LoadDotEnv(); err != nil {
		// The environment and config file still apply; only .env values are lost.
		slog.Warn("ignoring .env file", "error", err)
	}
	return v, nil
}
