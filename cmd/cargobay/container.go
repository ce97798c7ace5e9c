package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cargobay/cargobay/internal/builder"
	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/logger"
)

func newProvider(cfg *config.Config, log zerolog.Logger) (*docker.Provider, error) {
	cli, err := docker.NewClient(&cfg.Docker)
	if err != nil {
		return nil, err
	}
	return docker.NewProvider(cli, &cfg.Docker, log), nil
}

var startCmd = &cobra.Command{
	Use:   "start <container>",
	Short: "Start a stopped container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		return provider.Start(cmd.Context(), args[0])
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <container>",
	Short: "Stop a running container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		return provider.Stop(cmd.Context(), args[0])
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <container>",
	Short: "Remove a container, stopping it first if needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		return provider.Remove(cmd.Context(), args[0])
	},
}

var (
	runName   string
	runCPUs   uint32
	runMemory uint64
	runPull   bool
	runRepo   string
)

var runCmd = &cobra.Command{
	Use:   "run <image>",
	Short: "Create and start a container",
	Long:  "Creates and starts a container from an image, or from a git repository built with its Dockerfile when --repo is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		logInstance := logger.SetupLogger(&cfg.Logging)

		cli, err := docker.NewClient(&cfg.Docker)
		if err != nil {
			return err
		}
		defer cli.Close()
		provider := docker.NewProvider(cli, &cfg.Docker, logInstance)

		image := ""
		if len(args) == 1 {
			image = args[0]
		}
		pull := runPull
		if runRepo != "" {
			if image == "" {
				image = "cargobay-built/" + runName
			}
			bld := builder.New(cli, logInstance)
			if _, err := bld.BuildFromGit(cmd.Context(), runRepo, image); err != nil {
				return err
			}
			pull = false
		} else if image == "" {
			return fmt.Errorf("an image argument or --repo is required")
		}

		record, err := provider.Run(cmd.Context(), docker.RunOptions{
			Image:    image,
			Name:     runName,
			CPUs:     runCPUs,
			MemoryMB: runMemory,
			Pull:     pull,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", record.Id, record.DisplayName())
		return nil
	},
}

var loginShell string

var loginCmd = &cobra.Command{
	Use:   "login <container>",
	Short: "Print the command that opens a shell in a container",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(docker.LoginCommand(args[0], loginShell))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "container name")
	runCmd.Flags().Uint32Var(&runCPUs, "cpus", 0, "CPU limit (0 for unlimited)")
	runCmd.Flags().Uint64Var(&runMemory, "memory", 0, "memory limit in MB (0 for unlimited)")
	runCmd.Flags().BoolVar(&runPull, "pull", false, "pull the image before starting")
	runCmd.Flags().StringVar(&runRepo, "repo", "", "git repository to build the image from")
	loginCmd.Flags().StringVar(&loginShell, "shell", "", "shell to exec (default /bin/sh)")

	rootCmd.AddCommand(startCmd, stopCmd, rmCmd, runCmd, loginCmd)
}
