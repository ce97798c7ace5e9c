package domain

type VMState string

const (
	VMStateCreating = VMState("creating")
	VMStateRunning  = VMState("running")
	VMStateStopped  = VMState("stopped")
)

func (s VMState) IsValid() bool {
	switch s {
	case VMStateCreating, VMStateRunning, VMStateStopped:
		return true
	}
	return false
}

// SharedDir is a virtiofs share exposed to a VM.
type SharedDir struct {
	Tag       string `json:"tag"`
	HostPath  string `json:"hostPath"`
	GuestPath string `json:"guestPath"`
	ReadOnly  bool   `json:"readOnly"`
}

// VMConfig is the user-supplied shape of a VM.
type VMConfig struct {
	Name       string      `json:"name"`
	CPUs       uint32      `json:"cpus"`
	MemoryMB   uint64      `json:"memoryMb"`
	DiskGB     uint64      `json:"diskGb"`
	Rosetta    bool        `json:"rosetta"`
	SharedDirs []SharedDir `json:"sharedDirs"`
}

// VMInfo is a VM as presented to the frontend: its config plus the
// identity and lifecycle state the manager maintains.
type VMInfo struct {
	Id       string      `json:"id"`
	Name     string      `json:"name"`
	State    VMState     `json:"state"`
	CPUs     uint32      `json:"cpus"`
	MemoryMB uint64      `json:"memoryMb"`
	DiskGB   uint64      `json:"diskGb"`
	Rosetta  bool        `json:"rosetta"`
	Mounts   []SharedDir `json:"mounts"`
}
