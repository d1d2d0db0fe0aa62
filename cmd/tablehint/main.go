package main

import (
	"os"
	"strings"

	"github.com/ListenOcean/goTableHint/configs"
	"github.com/ListenOcean/goTableHint/internal/catalog"
	"github.com/ListenOcean/goTableHint/internal/check"
	"github.com/ListenOcean/goTableHint/internal/log"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var LogMode string

var rootCmd = &cobra.Command{
	Use:               "tablehint",
	Short:             "Advice on how tables are loaded and combined.",
	Version:           configs.Version,
	TraverseChildren:  true,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if LogMode != "" {
			log.InitLog(LogMode)
			log.Debug("Program Args.", log.String("args", strings.Join(os.Args, ", ")))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&LogMode, "log", "", "tool log mode: Debug, Release or Quiet (overrides the config)")
	rootCmd.AddCommand(check.CheckCmd)
	rootCmd.AddCommand(catalog.ListCmd)
}

func main() {
	// flush before the temporary log file is removed
	atexit.Register(func() {
		_ = log.Sync()
		log.Clear()
	})

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}
	atexit.Exit(0)
}
