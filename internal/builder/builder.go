// Package builder turns a git repository containing a Dockerfile into
// a local image.
package builder

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"
	git "github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"
)

type imageBuilder interface {
	ImageBuild(ctx context.Context, buildContext io.Reader, options types.ImageBuildOptions) (types.ImageBuildResponse, error)
}

type Builder struct {
	logger zerolog.Logger
	cli    imageBuilder
}

func New(cli imageBuilder, logger zerolog.Logger) *Builder {
	return &Builder{
		logger: logger,
		cli:    cli,
	}
}

// BuildFromGit shallow-clones the repository and builds the Dockerfile
// at its root into the given image name.
func (b *Builder) BuildFromGit(ctx context.Context, repoURL, imageName string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "cargobay-build-*")
	if err != nil {
		return "", fmt.Errorf("failed to create build directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	b.logger.Info().Str("repo", repoURL).Str("image", imageName).Msg("Cloning repository")
	_, err = git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:   repoURL,
		Depth: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to clone %s: %w", repoURL, err)
	}

	buildContext, err := archive.TarWithOptions(tmpDir, &archive.TarOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to create build context: %w", err)
	}
	defer buildContext.Close()

	b.logger.Info().Str("image", imageName).Msg("Building image")
	resp, err := b.cli.ImageBuild(ctx, buildContext, types.ImageBuildOptions{
		Tags:       []string{imageName},
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build image %s: %w", imageName, err)
	}
	defer resp.Body.Close()
	// The build only completes once the output stream is drained.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return "", fmt.Errorf("failed to build image %s: %w", imageName, err)
	}

	return imageName, nil
}
