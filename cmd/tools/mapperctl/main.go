// cmd/tools/mapperctl/main.go
//
// mapperctl runs the mapper offline and manages its vocabulary store and
// component registry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/logger"
)

// app carries the flags and lazily loaded state shared by all commands.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "mapperctl",
		Short:         "Offline tooling for the visual mapper",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: configs/config.yaml lookup)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newMapCmd(a),
		newComponentsCmd(a),
		newVocabCmd(a),
		newRegistryCmd(a),
	)
	return root
}

func (a *app) init() error {
	zapLog := logger.New(a.logLevel, "console", "stderr")
	a.log = logger.NewZapAdapter(zapLog)

	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFromFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		// Load always returns a usable config; problems only narrow it to defaults.
		a.log.Warn("config problems, affected keys use defaults", map[string]interface{}{"error": err.Error()})
	}
	if a.cfg == nil {
		return fmt.Errorf("no configuration available")
	}
	return nil
}
