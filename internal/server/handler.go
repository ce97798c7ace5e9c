package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/docker"
	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/store"
	"github.com/cargobay/cargobay/internal/vm"
)

// Handler exposes the console operations over HTTP for the desktop
// frontend.
type Handler struct {
	logger     zerolog.Logger
	containers containerService
	groups     groupSource
	registry   registryClient
	builder    imageBuilder
	vms        vmService
}

func NewHandler(containers containerService, groups groupSource, reg registryClient, builder imageBuilder, vms vmService, logger zerolog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		containers: containers,
		groups:     groups,
		registry:   reg,
		builder:    builder,
		vms:        vms,
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var invalid *vm.InvalidTransitionError
	switch {
	case store.IsNotFound(err):
		status = fiber.StatusNotFound
	case errors.As(err, &invalid):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ListContainers returns the freshly grouped snapshot.
func (h *Handler) ListContainers(c *fiber.Ctx) error {
	groups, err := h.groups.Refresh(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(groups)
}

type runContainerRequest struct {
	Image    string `json:"image"`
	Name     string `json:"name"`
	CPUs     uint32 `json:"cpus"`
	MemoryMB uint64 `json:"memory_mb"`
	Pull     bool   `json:"pull"`
	RepoURL  string `json:"repo_url"`
}

// RunContainer creates and starts a container, building the image from
// a git repository first when repo_url is given.
func (h *Handler) RunContainer(c *fiber.Ctx) error {
	var req runContainerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if req.RepoURL != "" {
		if req.Image == "" {
			req.Image = "cargobay-built/" + req.Name
		}
		if _, err := h.builder.BuildFromGit(c.Context(), req.RepoURL, req.Image); err != nil {
			return fail(c, err)
		}
		req.Pull = false
	} else if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image or repo_url is required"})
	}

	record, err := h.containers.Run(c.Context(), docker.RunOptions{
		Image:    req.Image,
		Name:     req.Name,
		CPUs:     req.CPUs,
		MemoryMB: req.MemoryMB,
		Pull:     req.Pull,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":        record.Id,
		"name":      record.DisplayName(),
		"image":     record.Image,
		"login_cmd": docker.LoginCommand(record.DisplayName(), ""),
	})
}

func (h *Handler) StartContainer(c *fiber.Ctx) error {
	if err := h.containers.Start(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) StopContainer(c *fiber.Ctx) error {
	if err := h.containers.Stop(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) RemoveContainer(c *fiber.Ctx) error {
	if err := h.containers.Remove(c.Context(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) ContainerLoginCommand(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"command": docker.LoginCommand(c.Params("id"), c.Query("shell")),
	})
}

func (h *Handler) SearchImages(c *fiber.Ctx) error {
	results, err := h.registry.Search(c.Context(), c.Query("query"), c.Query("source", "all"), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(results)
}

func (h *Handler) ListImageTags(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference is required"})
	}
	tags, err := h.registry.Tags(c.Context(), reference, c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}

type loadImageRequest struct {
	Path string `json:"path"`
}

func (h *Handler) LoadImage(c *fiber.Ctx) error {
	var req loadImageRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}
	if err := h.containers.LoadImage(c.Context(), req.Path); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

type pushImageRequest struct {
	Reference string `json:"reference"`
}

func (h *Handler) PushImage(c *fiber.Ctx) error {
	var req pushImageRequest
	if err := c.BodyParser(&req); err != nil || req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "reference is required"})
	}
	if err := h.containers.PushImage(c.Context(), req.Reference); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

type packImageRequest struct {
	Container string `json:"container"`
	Tag       string `json:"tag"`
}

func (h *Handler) PackImage(c *fiber.Ctx) error {
	var req packImageRequest
	if err := c.BodyParser(&req); err != nil || req.Container == "" || req.Tag == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "container and tag are required"})
	}
	id, err := h.containers.Pack(c.Context(), req.Container, req.Tag)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"id": id, "tag": req.Tag})
}

type buildImageRequest struct {
	RepoURL string `json:"repo_url"`
	Image   string `json:"image"`
}

func (h *Handler) BuildImage(c *fiber.Ctx) error {
	var req buildImageRequest
	if err := c.BodyParser(&req); err != nil || req.RepoURL == "" || req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "repo_url and image are required"})
	}
	image, err := h.builder.BuildFromGit(c.Context(), req.RepoURL, req.Image)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image": image})
}

func (h *Handler) ListVMs(c *fiber.Ctx) error {
	vms, err := h.vms.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(vms)
}

func (h *Handler) CreateVM(c *fiber.Ctx) error {
	var cfg domain.VMConfig
	if err := c.BodyParser(&cfg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	info, err := h.vms.Create(cfg)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

func (h *Handler) StartVM(c *fiber.Ctx) error {
	if err := h.vms.Start(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) StopVM(c *fiber.Ctx) error {
	if err := h.vms.Stop(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) DeleteVM(c *fiber.Ctx) error {
	if err := h.vms.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *Handler) VMLoginCommand(c *fiber.Ctx) error {
	port := c.QueryInt("port")
	cmd, err := vm.LoginCommand(c.Query("name"), c.Query("user", "root"), c.Query("host", "localhost"), uint16(port))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"command": cmd})
}

func (h *Handler) ListVMMounts(c *fiber.Ctx) error {
	mounts, err := h.vms.ListMounts(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(mounts)
}

func (h *Handler) AddVMMount(c *fiber.Ctx) error {
	var share domain.SharedDir
	if err := c.BodyParser(&share); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.vms.AddMount(c.Params("id"), share); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handler) RemoveVMMount(c *fiber.Ctx) error {
	if err := h.vms.RemoveMount(c.Params("id"), c.Params("tag")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}
