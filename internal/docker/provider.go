// Package docker adapts the Docker Engine API to the console's domain
// types. It is the snapshot source for the grouping engine and the
// executor for per-container actions.
package docker

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	dockerCli "github.com/docker/docker/client"
	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/util"
)

// NewClient connects to the Docker daemon using the configured or
// autodetected endpoint.
func NewClient(cfg *config.DockerConfig) (*dockerCli.Client, error) {
	host, err := DetectHost(cfg.Host)
	if err != nil {
		return nil, err
	}
	cli, err := dockerCli.NewClientWithOpts(
		dockerCli.WithHost(host),
		dockerCli.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client for %s: %w", host, err)
	}
	return cli, nil
}

// Provider exposes the container operations the console needs.
type Provider struct {
	logger      zerolog.Logger
	cli         dockerClient
	stopTimeout int
}

func NewProvider(cli dockerClient, cfg *config.DockerConfig, logger zerolog.Logger) *Provider {
	return &Provider{
		logger:      logger,
		cli:         cli,
		stopTimeout: cfg.StopTimeout,
	}
}

// List returns a snapshot of all containers, running or not, in the
// order the daemon reports them.
func (p *Provider) List(ctx context.Context) ([]domain.ContainerRecord, error) {
	containers, err := p.cli.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}
	return util.Map(containers, fromContainerSummary), nil
}

func (p *Provider) Start(ctx context.Context, id string) error {
	if err := p.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container %s: %w", id, err)
	}
	return nil
}

func (p *Provider) Stop(ctx context.Context, id string) error {
	timeout := p.stopTimeout
	if err := p.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container %s: %w", id, err)
	}
	return nil
}

// Remove stops the container best-effort, then force-removes it.
func (p *Provider) Remove(ctx context.Context, id string) error {
	timeout := p.stopTimeout
	if err := p.cli.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		p.logger.Debug().Err(err).Str("container", id).Msg("Stop before remove failed")
	}
	if err := p.cli.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("failed to remove container %s: %w", id, err)
	}
	return nil
}

// RunOptions describes a container to create and start.
type RunOptions struct {
	Image    string
	Name     string
	CPUs     uint32
	MemoryMB uint64
	Pull     bool
}

// Run optionally pulls the image, then creates and starts a container.
func (p *Provider) Run(ctx context.Context, opts RunOptions) (domain.ContainerRecord, error) {
	if opts.Pull {
		if err := p.pullImage(ctx, opts.Image); err != nil {
			return domain.ContainerRecord{}, err
		}
	}

	hostConfig := &container.HostConfig{}
	if opts.CPUs > 0 {
		hostConfig.NanoCPUs = int64(opts.CPUs) * 1_000_000_000
	}
	if opts.MemoryMB > 0 {
		hostConfig.Memory = int64(opts.MemoryMB) * 1024 * 1024
	}

	created, err := p.cli.ContainerCreate(ctx, &container.Config{Image: opts.Image}, hostConfig, nil, nil, opts.Name)
	if err != nil {
		return domain.ContainerRecord{}, fmt.Errorf("failed to create container: %w", err)
	}
	if err := p.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return domain.ContainerRecord{}, fmt.Errorf("failed to start container: %w", err)
	}

	record := domain.ContainerRecord{
		Id:    shortId(created.ID),
		Name:  opts.Name,
		Image: opts.Image,
		State: domain.ContainerStateRunning,
	}
	p.logger.Info().Str("container", record.Id).Str("image", opts.Image).Msg("Container started")
	return record, nil
}

func (p *Provider) pullImage(ctx context.Context, ref string) error {
	reader, err := p.cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	defer reader.Close()
	// The pull only completes once the progress stream is drained.
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to pull image %s: %w", ref, err)
	}
	return nil
}

// Pack commits a container's filesystem to a new image tag.
func (p *Provider) Pack(ctx context.Context, containerID, tag string) (string, error) {
	resp, err := p.cli.ContainerCommit(ctx, containerID, container.CommitOptions{Reference: tag})
	if err != nil {
		return "", fmt.Errorf("failed to pack container %s: %w", containerID, err)
	}
	p.logger.Info().Str("container", containerID).Str("tag", tag).Msg("Container packed into image")
	return resp.ID, nil
}

// LoadImage loads an image tarball from disk into the daemon.
func (p *Provider) LoadImage(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image archive: %w", err)
	}
	defer f.Close()

	resp, err := p.cli.ImageLoad(ctx, f, dockerCli.ImageLoadWithQuiet(true))
	if err != nil {
		return fmt.Errorf("failed to load image from %s: %w", path, err)
	}
	defer resp.Body.Close()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("failed to load image from %s: %w", path, err)
	}
	return nil
}

// PushImage pushes an image reference to its registry.
func (p *Provider) PushImage(ctx context.Context, ref string) error {
	// The push endpoint requires a registry auth header even for
	// anonymous pushes.
	auth := base64.URLEncoding.EncodeToString([]byte("{}"))
	reader, err := p.cli.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return fmt.Errorf("failed to push image %s: %w", ref, err)
	}
	defer reader.Close()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return fmt.Errorf("failed to push image %s: %w", ref, err)
	}
	return nil
}

// LoginCommand renders the shell command a user runs to get a shell
// inside the container.
func LoginCommand(container, shell string) string {
	if shell == "" {
		shell = "/bin/sh"
	}
	return fmt.Sprintf("docker exec -it %s %s", container, shell)
}

func (p *Provider) Close() error {
	return p.cli.Close()
}
