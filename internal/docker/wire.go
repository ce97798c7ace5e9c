package docker

import (
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/cargobay/cargobay/internal/domain"
)

const shortIdLen = 12

func shortId(id string) string {
	if len(id) > shortIdLen {
		return id[:shortIdLen]
	}
	return id
}

// fromContainerSummary converts one Docker API summary into the
// console's record shape: short id, first name without the leading
// slash, and published ports rendered as "public:private" pairs.
func fromContainerSummary(c container.Summary) domain.ContainerRecord {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	var ports []string
	for _, p := range c.Ports {
		if p.PublicPort == 0 {
			continue
		}
		ports = append(ports, fmt.Sprintf("%d:%d", p.PublicPort, p.PrivatePort))
	}

	return domain.ContainerRecord{
		Id:     shortId(c.ID),
		Name:   name,
		Image:  c.Image,
		State:  domain.ContainerState(c.State),
		Status: c.Status,
		Ports:  strings.Join(ports, ", "),
	}
}
