package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/engine"
	"github.com/cargobay/cargobay/internal/grouping"
	"github.com/cargobay/cargobay/internal/logger"
	"github.com/cargobay/cargobay/internal/render"
)

var psWatch bool

var psCmd = &cobra.Command{
	Use:   "ps",
	Short: "List containers grouped by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		logInstance := logger.SetupLogger(&cfg.Logging)

		cli, err := docker.NewClient(&cfg.Docker)
		if err != nil {
			return err
		}
		defer cli.Close()
		provider := docker.NewProvider(cli, &cfg.Docker, logInstance)
		renderer := render.NewTableRenderer(os.Stdout)

		if psWatch {
			ctx, cancel := signalContext(context.Background(), logInstance)
			defer cancel()
			eng := engine.New(provider, &cfg.App, logInstance, renderer)
			if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		}

		records, err := provider.List(cmd.Context())
		if err != nil {
			return err
		}
		renderer.ConsumeGroups(grouping.Build(records))
		return nil
	},
}

func init() {
	psCmd.Flags().BoolVarP(&psWatch, "watch", "w", false, "refresh the listing on every poll interval")
	rootCmd.AddCommand(psCmd)
}
