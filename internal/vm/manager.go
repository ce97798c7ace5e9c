// Package vm manages the console's virtual machine inventory: config
// records, lifecycle state and virtiofs mounts, persisted in the local
// store. Actual virtualization is delegated to a platform hypervisor
// binding; the manager owns everything the frontend sees.
package vm

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/store"
	"github.com/cargobay/cargobay/internal/util"
)

type vmStore interface {
	SaveVM(rec store.VMRecord) error
	GetVM(id string) (store.VMRecord, error)
	ListVMs() ([]store.VMRecord, error)
	DeleteVM(id string) error
}

type Manager struct {
	logger zerolog.Logger
	store  vmStore
}

func NewManager(s vmStore, logger zerolog.Logger) *Manager {
	return &Manager{
		logger: logger,
		store:  s,
	}
}

// List returns every VM, ordered by name.
func (m *Manager) List() ([]domain.VMInfo, error) {
	records, err := m.store.ListVMs()
	if err != nil {
		return nil, fmt.Errorf("failed to list VMs: %w", err)
	}
	return util.Map(records, store.VMRecord.Info), nil
}

// Create registers a new VM from its config and returns its id.
func (m *Manager) Create(cfg domain.VMConfig) (domain.VMInfo, error) {
	if cfg.Name == "" {
		return domain.VMInfo{}, fmt.Errorf("VM name is required")
	}
	rec := store.VMRecord{
		Id:         uuid.NewString(),
		Name:       cfg.Name,
		State:      domain.VMStateStopped,
		CPUs:       cfg.CPUs,
		MemoryMB:   cfg.MemoryMB,
		DiskGB:     cfg.DiskGB,
		Rosetta:    cfg.Rosetta,
		SharedDirs: cfg.SharedDirs,
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.store.SaveVM(rec); err != nil {
		return domain.VMInfo{}, fmt.Errorf("failed to save VM %s: %w", cfg.Name, err)
	}
	m.logger.Info().Str("vm", rec.Id).Str("name", rec.Name).Msg("VM created")
	return rec.Info(), nil
}

// Start transitions a stopped VM to running.
func (m *Manager) Start(id string) error {
	return m.transition(id, domain.VMStateStopped, domain.VMStateRunning)
}

// Stop transitions a running VM to stopped.
func (m *Manager) Stop(id string) error {
	return m.transition(id, domain.VMStateRunning, domain.VMStateStopped)
}

func (m *Manager) transition(id string, from, to domain.VMState) error {
	rec, err := m.store.GetVM(id)
	if err != nil {
		return err
	}
	if rec.State != from {
		return NewInvalidTransitionError(id, rec.State, to)
	}
	rec.State = to
	if err := m.store.SaveVM(rec); err != nil {
		return fmt.Errorf("failed to save VM %s: %w", id, err)
	}
	m.logger.Info().Str("vm", id).Str("state", string(to)).Msg("VM state changed")
	return nil
}

// Delete removes a VM record. Running VMs must be stopped first.
func (m *Manager) Delete(id string) error {
	rec, err := m.store.GetVM(id)
	if err != nil {
		return err
	}
	if rec.State == domain.VMStateRunning {
		return NewInvalidTransitionError(id, rec.State, domain.VMStateStopped)
	}
	if err := m.store.DeleteVM(id); err != nil {
		return err
	}
	m.logger.Info().Str("vm", id).Msg("VM deleted")
	return nil
}

// AddMount attaches a virtiofs share to a VM. Tags are unique per VM.
func (m *Manager) AddMount(id string, share domain.SharedDir) error {
	if share.Tag == "" {
		return fmt.Errorf("mount tag is required")
	}
	rec, err := m.store.GetVM(id)
	if err != nil {
		return err
	}
	for _, existing := range rec.SharedDirs {
		if existing.Tag == share.Tag {
			return fmt.Errorf("VM %s already has a mount tagged %q", id, share.Tag)
		}
	}
	rec.SharedDirs = append(rec.SharedDirs, share)
	return m.store.SaveVM(rec)
}

// RemoveMount detaches the share with the given tag.
func (m *Manager) RemoveMount(id, tag string) error {
	rec, err := m.store.GetVM(id)
	if err != nil {
		return err
	}
	kept := util.Filter(rec.SharedDirs, func(s domain.SharedDir) bool {
		return s.Tag != tag
	})
	if len(kept) == len(rec.SharedDirs) {
		return fmt.Errorf("VM %s has no mount tagged %q", id, tag)
	}
	rec.SharedDirs = kept
	return m.store.SaveVM(rec)
}

// ListMounts returns a VM's virtiofs shares.
func (m *Manager) ListMounts(id string) ([]domain.SharedDir, error) {
	rec, err := m.store.GetVM(id)
	if err != nil {
		return nil, err
	}
	return rec.SharedDirs, nil
}

// LoginCommand renders the SSH command for reaching a VM.
func LoginCommand(name, user, host string, port uint16) (string, error) {
	if port == 0 {
		return "", fmt.Errorf("VM login needs an SSH port")
	}
	return fmt.Sprintf("ssh %s@%s -p %d\n# VM: %s", user, host, port, name), nil
}
