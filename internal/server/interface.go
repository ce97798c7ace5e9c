package server

import (
	"context"

	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/registry"
)

type containerService interface {
	List(ctx context.Context) ([]domain.ContainerRecord, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Run(ctx context.Context, opts docker.RunOptions) (domain.ContainerRecord, error)
	Pack(ctx context.Context, containerID, tag string) (string, error)
	LoadImage(ctx context.Context, path string) error
	PushImage(ctx context.Context, ref string) error
}

type groupSource interface {
	Refresh(ctx context.Context) ([]domain.ContainerGroup, error)
}

type registryClient interface {
	Search(ctx context.Context, query, source string, limit int) ([]registry.SearchResult, error)
	Tags(ctx context.Context, reference string, limit int) ([]string, error)
}

type imageBuilder interface {
	BuildFromGit(ctx context.Context, repoURL, imageName string) (string, error)
}

type vmService interface {
	List() ([]domain.VMInfo, error)
	Create(cfg domain.VMConfig) (domain.VMInfo, error)
	Start(id string) error
	Stop(id string) error
	Delete(id string) error
	AddMount(id string, share domain.SharedDir) error
	RemoveMount(id, tag string) error
	ListMounts(id string) ([]domain.SharedDir, error)
}
