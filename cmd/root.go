// -- cmd/root.go --
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/redspotinnovations/browsertime/internal/config"
	"github.com/redspotinnovations/browsertime/internal/observability"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:     "browsertime",
	Short:   "Browsertime drives a page in a real browser before and while measuring it.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			observability.InitializeLogger(config.LoggerConfig{
				Level: "info", Format: "console", ServiceName: "browsertime",
			})
			return err
		}
		cfg = loaded
		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting browsertime.", zap.String("version", Version))
		return nil
	},
}

// Execute runs the root command and exits non-zero on failure. The exit code
// is decided inside execute so the deferred log flush runs before os.Exit,
// which would otherwise skip it and drop the final error record from a
// buffered or file-backed sink.
func Execute() {
	os.Exit(execute())
}

func execute() int {
	defer observability.Sync()
	if err := rootCmd.Execute(); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed.", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./browsertime.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
