package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cargobay/cargobay/internal/domain"
)

func record(id, name string, state domain.ContainerState) domain.ContainerRecord {
	return domain.ContainerRecord{Id: id, Name: name, State: state}
}

func TestCandidatesFullNameComesFirst(t *testing.T) {
	got := candidatesFor(record("c1", "web-1", domain.ContainerStateRunning))
	assert.Equal(t, []string{"web-1", "web"}, got)
}

func TestCandidatesSeparatorPrefixesLeftToRight(t *testing.T) {
	got := candidatesFor(record("c1", "db_replica-old", ""))
	assert.Equal(t, []string{"db_replica-old", "db", "db_replica"}, got)
}

func TestCandidatesSuffixStripIsSingleLevel(t *testing.T) {
	// Only the trailing "-2" is an instance index; "web-01" stays as
	// its own candidate and "web" only appears as a separator prefix.
	got := candidatesFor(record("c1", "web-01-2", ""))
	assert.Equal(t, []string{"web-01-2", "web-01", "web"}, got)
}

func TestCandidatesUnderscoreSuffix(t *testing.T) {
	got := candidatesFor(record("c1", "worker_3", ""))
	assert.Equal(t, []string{"worker_3", "worker"}, got)
}

func TestCandidatesNoSeparators(t *testing.T) {
	got := candidatesFor(record("c1", "redis", ""))
	assert.Equal(t, []string{"redis"}, got)
}

func TestCandidatesNameWithSurroundingSpaceIsTrimmed(t *testing.T) {
	got := candidatesFor(record("c1", "  api-2  ", ""))
	assert.Equal(t, []string{"api-2", "api"}, got)
}

func TestCandidatesEmptyNameFallsBackToId(t *testing.T) {
	got := candidatesFor(record("c1", "   ", ""))
	assert.Equal(t, []string{"c1"}, got)
}

func TestCandidatesEmptyNameAndIdYieldNothing(t *testing.T) {
	got := candidatesFor(record("", "", ""))
	assert.Empty(t, got)
}

func TestCandidatesDeduplicated(t *testing.T) {
	// The stripped form and the last separator prefix coincide.
	got := candidatesFor(record("c1", "db-replica-1", ""))
	assert.Equal(t, []string{"db-replica-1", "db-replica", "db"}, got)
}

func TestStripInstanceSuffix(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		stripped bool
	}{
		{"web-1", "web", true},
		{"web_12", "web", true},
		{"web-01-2", "web-01", true},
		{"web", "", false},
		{"web-", "", false},
		{"web1", "", false},
		{"123", "", false},
		{"-1", "", false},
		{"_7", "", false},
	}
	for _, c := range cases {
		got, ok := stripInstanceSuffix(c.in)
		assert.Equal(t, c.stripped, ok, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}
}
