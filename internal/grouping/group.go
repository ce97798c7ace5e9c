// Package grouping clusters container records into collapsible groups
// by deriving a shared identity from their free-text names alone.
//
// Build is a pure function of its input snapshot: two passes (generate
// every record's candidate set, count candidates globally, then select
// per record) followed by a deterministic partition and sort. No state
// survives between invocations, so identical snapshots always produce
// identical group lists.
package grouping

import (
	"sort"

	"github.com/cargobay/cargobay/internal/domain"
	"github.com/cargobay/cargobay/internal/util"
)

// Build partitions a snapshot of records into ordered groups.
func Build(records []domain.ContainerRecord) []domain.ContainerGroup {
	if len(records) == 0 {
		return []domain.ContainerGroup{}
	}

	// Pass one: every record's candidate set, aligned by index.
	candidateSets := util.Map(records, candidatesFor)

	// Pass two: global counts, then per-record selection.
	counts := frequencyIndex(candidateSets)

	buckets := util.NewDefaultMap[string, []domain.ContainerRecord](func() []domain.ContainerRecord {
		return nil
	})
	for i, r := range records {
		key := selectKey(r, candidateSets[i], counts)
		buckets.Set(key, append(buckets.Get(key), r))
	}

	groups := make([]domain.ContainerGroup, 0, len(buckets.Items()))
	for key, members := range buckets.Items() {
		sortMembers(members)
		running := 0
		for _, m := range members {
			if m.Running() {
				running++
			}
		}
		groups = append(groups, domain.ContainerGroup{
			Key:          key,
			Members:      members,
			RunningCount: running,
			StoppedCount: len(members) - running,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		return groupLess(groups[i], groups[j])
	})
	return groups
}

// sortMembers orders a group's members: running before stopped, then
// ascending name-or-id, then id. Ids are unique, so the order is total.
func sortMembers(members []domain.ContainerRecord) {
	sort.Slice(members, func(i, j int) bool {
		a, b := members[i], members[j]
		if a.Running() != b.Running() {
			return a.Running()
		}
		if an, bn := a.DisplayName(), b.DisplayName(); an != bn {
			return an < bn
		}
		return a.Id < b.Id
	})
}

// groupLess orders groups: any-running first, then larger groups, then
// ascending key. Keys are unique per partition, so the order is total.
func groupLess(a, b domain.ContainerGroup) bool {
	if (a.RunningCount > 0) != (b.RunningCount > 0) {
		return a.RunningCount > 0
	}
	if len(a.Members) != len(b.Members) {
		return len(a.Members) > len(b.Members)
	}
	return a.Key < b.Key
}
