package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/okved-cli/internal/config"
	"github.com/sells-group/okved-cli/internal/source"
)

var (
	cfg *config.Config

	sourceFlag string
	formatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "okved-cli",
	Short: "Query the OKVED economic activity classifier",
	Long:  "Loads the OKVED table from a file, URL or database and answers lookups by code, section and top-level section, on the command line or over HTTP.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// applyFlags overlays global flags on the loaded config. A postgres URL in
// --source selects the postgres loader; anything else replaces a configured
// postgres source with a file or URL.
func applyFlags(c *config.Config) {
	switch {
	case sourceFlag == "":
	case source.IsPostgresURL(sourceFlag):
		c.Source.Kind = source.KindPostgres
		c.Source.DatabaseURL = sourceFlag
	default:
		if c.Source.Kind == source.KindPostgres {
			c.Source.Kind = ""
		}
		if source.IsPostgresURL(c.Source.DatabaseURL) {
			c.Source.DatabaseURL = ""
		}
		c.Source.Path = sourceFlag
	}
	if formatFlag != "" {
		c.Output.Format = formatFlag
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sourceFlag, "source", "", "OKVED source: file path, http(s)/ftp URL, sqlite file or postgres:// URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "format", "", "output format: table, json or yaml (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
