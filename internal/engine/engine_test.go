package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargobay/cargobay/internal/config"
	"github.com/cargobay/cargobay/internal/domain"
)

type fakeSource struct {
	records []domain.ContainerRecord
	err     error
	calls   int
}

func (f *fakeSource) List(ctx context.Context) ([]domain.ContainerRecord, error) {
	f.calls++
	return f.records, f.err
}

type captureConsumer struct {
	published [][]domain.ContainerGroup
}

func (c *captureConsumer) ConsumeGroups(groups []domain.ContainerGroup) {
	c.published = append(c.published, groups)
}

func newTestEngine(source *fakeSource, consumers ...Consumer) *Engine {
	cfg := &config.AppConfig{PollInterval: 1}
	return New(source, cfg, zerolog.Nop(), consumers...)
}

func TestRefreshPublishesGroupsToConsumers(t *testing.T) {
	source := &fakeSource{records: []domain.ContainerRecord{
		{Id: "c1", Name: "web-1", State: domain.ContainerStateRunning},
		{Id: "c2", Name: "web-2", State: domain.ContainerStateRunning},
	}}
	sink := &captureConsumer{}
	e := newTestEngine(source, sink)

	groups, err := e.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "web", groups[0].Key)

	require.Len(t, sink.published, 1)
	assert.Equal(t, groups, sink.published[0])
	assert.Equal(t, groups, e.Groups())
}

func TestRefreshPropagatesSourceError(t *testing.T) {
	source := &fakeSource{err: errors.New("daemon unreachable")}
	e := newTestEngine(source)

	_, err := e.Refresh(context.Background())
	assert.Error(t, err)
	assert.Empty(t, e.Groups())
}

func TestPublishDropsSupersededSnapshot(t *testing.T) {
	sink := &captureConsumer{}
	e := newTestEngine(&fakeSource{}, sink)

	older := e.nextSeq()
	newer := e.nextSeq()

	newerGroups := []domain.ContainerGroup{{Key: "new"}}
	require.True(t, e.publish(newer, newerGroups))

	// The slower, older snapshot finishes afterwards and must not win.
	assert.False(t, e.publish(older, []domain.ContainerGroup{{Key: "old"}}))
	assert.Equal(t, newerGroups, e.Groups())
	require.Len(t, sink.published, 1)
	assert.Equal(t, newerGroups, sink.published[0])
}

func TestRunStopsOnContextCancel(t *testing.T) {
	source := &fakeSource{}
	e := newTestEngine(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	// The initial refresh still ran before the loop observed cancellation.
	assert.Equal(t, 1, source.calls)
}
