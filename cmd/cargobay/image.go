package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cargobay/cargobay/internal/builder"
	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/logger"
	"github.com/cargobay/cargobay/internal/registry"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Search, move and build images",
}

var (
	searchSource string
	searchLimit  int
)

var imageSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Docker Hub and Quay for images",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		client := registry.NewClient(&cfg.Registry, logger.SetupLogger(&cfg.Logging))

		results, err := client.Search(cmd.Context(), args[0], searchSource, searchLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tNAME\tSTARS\tDESCRIPTION")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Source, r.Reference, r.Stars, r.Description)
		}
		return w.Flush()
	},
}

var tagsLimit int

var imageTagsCmd = &cobra.Command{
	Use:   "tags <reference>",
	Short: "List the tags of a repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		client := registry.NewClient(&cfg.Registry, logger.SetupLogger(&cfg.Logging))

		tags, err := client.Tags(cmd.Context(), args[0], tagsLimit)
		if err != nil {
			return err
		}
		for _, tag := range tags {
			fmt.Println(tag)
		}
		return nil
	},
}

var imageLoadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load an image from a tar archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		return provider.LoadImage(cmd.Context(), args[0])
	},
}

var imagePushCmd = &cobra.Command{
	Use:   "push <reference>",
	Short: "Push an image to its registry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		return provider.PushImage(cmd.Context(), args[0])
	},
}

var imagePackCmd = &cobra.Command{
	Use:   "pack <container> <tag>",
	Short: "Commit a container's filesystem to a new image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		provider, err := newProvider(cfg, logger.SetupLogger(&cfg.Logging))
		if err != nil {
			return err
		}
		defer provider.Close()
		id, err := provider.Pack(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

var imageBuildCmd = &cobra.Command{
	Use:   "build <repo-url> <image>",
	Short: "Clone a git repository and build its Dockerfile",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig(cmd)
		logInstance := logger.SetupLogger(&cfg.Logging)

		cli, err := docker.NewClient(&cfg.Docker)
		if err != nil {
			return err
		}
		defer cli.Close()

		image, err := builder.New(cli, logInstance).BuildFromGit(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(image)
		return nil
	},
}

func init() {
	imageSearchCmd.Flags().StringVar(&searchSource, "source", "all", "registry to search (dockerhub, quay, all)")
	imageSearchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum results (0 for the configured page size)")
	imageTagsCmd.Flags().IntVar(&tagsLimit, "limit", 0, "maximum tags (0 for the configured page size)")

	imageCmd.AddCommand(imageSearchCmd, imageTagsCmd, imageLoadCmd, imagePushCmd, imagePackCmd, imageBuildCmd)
	rootCmd.AddCommand(imageCmd)
}
