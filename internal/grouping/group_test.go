package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargobay/cargobay/internal/domain"
)

func names(members []domain.ContainerRecord) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.DisplayName()
	}
	return out
}

func TestBuildSharedPrefixFormsOneGroup(t *testing.T) {
	groups := Build([]domain.ContainerRecord{
		record("c1", "web-1", domain.ContainerStateRunning),
		record("c2", "web-2", domain.ContainerStateRunning),
		record("c3", "api-1", domain.ContainerStateRunning),
	})
	require.Len(t, groups, 2)

	assert.Equal(t, "web", groups[0].Key)
	assert.Equal(t, []string{"web-1", "web-2"}, names(groups[0].Members))
	assert.True(t, groups[0].Collapsible())

	// "api" is only held by one record, so api-1 stays a singleton.
	assert.Equal(t, "api-1", groups[1].Key)
	assert.Equal(t, []string{"api-1"}, names(groups[1].Members))
	assert.False(t, groups[1].Collapsible())
}

func TestBuildBareNameJoinsItsReplicas(t *testing.T) {
	// "db" is the full name of the first record and a separator prefix
	// of the other two, so all three converge on it.
	groups := Build([]domain.ContainerRecord{
		record("c1", "db", domain.ContainerStateRunning),
		record("c2", "db-replica-1", "exited"),
		record("c3", "db-replica-2", domain.ContainerStateRunning),
	})
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "db", g.Key)
	assert.Equal(t, []string{"db", "db-replica-2", "db-replica-1"}, names(g.Members))
	assert.Equal(t, 2, g.RunningCount)
	assert.Equal(t, 1, g.StoppedCount)
}

func TestBuildEmptyNameSingletonKeyedById(t *testing.T) {
	groups := Build([]domain.ContainerRecord{record("c1", "", "exited")})
	require.Len(t, groups, 1)
	assert.Equal(t, "c1", groups[0].Key)
	assert.Equal(t, []string{"c1"}, names(groups[0].Members))
}

func TestBuildEmptySnapshot(t *testing.T) {
	assert.Empty(t, Build(nil))
	assert.Empty(t, Build([]domain.ContainerRecord{}))
}

func snapshot() []domain.ContainerRecord {
	return []domain.ContainerRecord{
		record("a1", "web-1", domain.ContainerStateRunning),
		record("a2", "web-2", "exited"),
		record("a3", "api", domain.ContainerStateRunning),
		record("a4", "api-worker_1", "exited"),
		record("a5", "api-worker_2", "exited"),
		record("a6", "redis", domain.ContainerStateRunning),
		record("a7", "", "exited"),
		record("a8", "standalone-42", "exited"),
	}
}

func TestBuildEveryRecordAppearsExactlyOnce(t *testing.T) {
	records := snapshot()
	groups := Build(records)

	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		require.NotEmpty(t, g.Members, "group %q has no members", g.Key)
		for _, m := range g.Members {
			seen[m.Id]++
			total++
		}
	}
	assert.Equal(t, len(records), total)
	for _, r := range records {
		assert.Equal(t, 1, seen[r.Id], "record %s", r.Id)
	}
}

func TestBuildCountsConsistentWithMemberStates(t *testing.T) {
	for _, g := range Build(snapshot()) {
		running := 0
		for _, m := range g.Members {
			if m.Running() {
				running++
			}
		}
		assert.Equal(t, running, g.RunningCount, "group %q", g.Key)
		assert.Equal(t, len(g.Members)-running, g.StoppedCount, "group %q", g.Key)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	first := Build(snapshot())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Build(snapshot()))
	}
}

func TestBuildGroupOrdering(t *testing.T) {
	groups := Build(snapshot())

	sawStopped := false
	for i, g := range groups {
		if g.RunningCount == 0 {
			sawStopped = true
		} else {
			assert.False(t, sawStopped, "running group %q after stopped groups", g.Key)
		}
		if i == 0 {
			continue
		}
		prev := groups[i-1]
		if (prev.RunningCount > 0) == (g.RunningCount > 0) {
			if len(prev.Members) == len(g.Members) {
				assert.Less(t, prev.Key, g.Key)
			} else {
				assert.Greater(t, len(prev.Members), len(g.Members))
			}
		}
	}
}

func TestBuildMemberOrderingWithinGroup(t *testing.T) {
	groups := Build([]domain.ContainerRecord{
		record("z9", "job-3", "exited"),
		record("z1", "job-2", domain.ContainerStateRunning),
		record("z5", "job-1", "exited"),
		record("z2", "job-4", domain.ContainerStateRunning),
	})
	require.Len(t, groups, 1)
	assert.Equal(t, "job", groups[0].Key)
	assert.Equal(t, []string{"job-2", "job-4", "job-1", "job-3"}, names(groups[0].Members))
}

func TestBuildInputOrderDoesNotLeakIntoOutput(t *testing.T) {
	records := snapshot()
	reversed := make([]domain.ContainerRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}
	assert.Equal(t, Build(records), Build(reversed))
}
