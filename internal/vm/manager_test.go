package vm

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cargobay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewManager(s, zerolog.Nop())
}

func createVM(t *testing.T, m *Manager, name string) domain.VMInfo {
	t.Helper()
	info, err := m.Create(domain.VMConfig{Name: name, CPUs: 2, MemoryMB: 2048, DiskGB: 20})
	require.NoError(t, err)
	return info
}

func TestCreateAssignsIdAndStartsStopped(t *testing.T) {
	m := newTestManager(t)
	info := createVM(t, m, "builder")

	assert.NotEmpty(t, info.Id)
	assert.Equal(t, domain.VMStateStopped, info.State)

	listed, err := m.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, info.Id, listed[0].Id)
}

func TestCreateRequiresName(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Create(domain.VMConfig{})
	assert.Error(t, err)
}

func TestStartStopLifecycle(t *testing.T) {
	m := newTestManager(t)
	info := createVM(t, m, "builder")

	require.NoError(t, m.Start(info.Id))

	var invalid *InvalidTransitionError
	err := m.Start(info.Id)
	require.Error(t, err)
	assert.True(t, errors.As(err, &invalid), "double start is an invalid transition")

	require.NoError(t, m.Stop(info.Id))
	err = m.Stop(info.Id)
	assert.True(t, errors.As(err, &invalid), "double stop is an invalid transition")
}

func TestDeleteRefusesRunningVM(t *testing.T) {
	m := newTestManager(t)
	info := createVM(t, m, "builder")
	require.NoError(t, m.Start(info.Id))

	var invalid *InvalidTransitionError
	assert.True(t, errors.As(m.Delete(info.Id), &invalid))

	require.NoError(t, m.Stop(info.Id))
	require.NoError(t, m.Delete(info.Id))
	assert.True(t, store.IsNotFound(m.Start(info.Id)))
}

func TestMountRoundTrip(t *testing.T) {
	m := newTestManager(t)
	info := createVM(t, m, "builder")

	share := domain.SharedDir{Tag: "work", HostPath: "/home/me/work", GuestPath: "/mnt/work"}
	require.NoError(t, m.AddMount(info.Id, share))

	assert.Error(t, m.AddMount(info.Id, share), "duplicate tag rejected")

	mounts, err := m.ListMounts(info.Id)
	require.NoError(t, err)
	assert.Equal(t, []domain.SharedDir{share}, mounts)

	require.NoError(t, m.RemoveMount(info.Id, "work"))
	assert.Error(t, m.RemoveMount(info.Id, "work"), "removing an absent tag fails")

	mounts, err = m.ListMounts(info.Id)
	require.NoError(t, err)
	assert.Empty(t, mounts)
}

func TestLoginCommand(t *testing.T) {
	cmd, err := LoginCommand("builder", "me", "localhost", 2222)
	require.NoError(t, err)
	assert.Contains(t, cmd, "ssh me@localhost -p 2222")
	assert.Contains(t, cmd, "builder")

	_, err = LoginCommand("builder", "me", "localhost", 0)
	assert.Error(t, err)
}
