// Command agepanel merges the governance and development panels, summarizes
// aging intensity against research output, and writes the chart artifacts.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mkarlin/agepanel"
)

func main() {
	var (
		cfgPath string
		outDir  string
	)

	root := &cobra.Command{
		Use:           "agepanel",
		Short:         "Merge governance and development panels and chart aging vs research output",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := agepanel.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			if outDir != "" {
				cfg.OutDir = outDir
			}

			if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
				zerolog.SetGlobalLevel(lvl)
			}

			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
				With().Timestamp().Logger()

			return agepanel.New(cfg, log).Run(cmd.Context())
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "optional YAML config file")
	root.Flags().StringVar(&outDir, "out", "", "override the output directory")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "agepanel:", err)
		os.Exit(1)
	}
}
