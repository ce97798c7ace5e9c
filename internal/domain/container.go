package domain

import "strings"

type ContainerState string

const (
	ContainerStateRunning = ContainerState("running")
)

// ContainerRecord is one container as reported by the runtime. The
// grouping engine only interprets Id, Name and State; the remaining
// fields pass through to the frontend untouched.
type ContainerRecord struct {
	Id     string         `json:"id"`
	Name   string         `json:"name"`
	Image  string         `json:"image"`
	State  ContainerState `json:"state"`
	Status string         `json:"status"`
	Ports  string         `json:"ports"`
}

func (r ContainerRecord) Running() bool {
	return r.State == ContainerStateRunning
}

// DisplayName is the trimmed name, falling back to the id when the
// container has no usable name.
func (r ContainerRecord) DisplayName() string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return r.Id
	}
	return name
}

// ContainerGroup is a cluster of records that share a winning group
// key, recomputed from scratch on every snapshot.
type ContainerGroup struct {
	Key          string            `json:"key"`
	Members      []ContainerRecord `json:"members"`
	RunningCount int               `json:"runningCount"`
	StoppedCount int               `json:"stoppedCount"`
}

// Collapsible reports whether the frontend should render the group as
// a collapsible header with child rows rather than a plain row.
func (g ContainerGroup) Collapsible() bool {
	return len(g.Members) > 1
}
