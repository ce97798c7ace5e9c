package docker

import (
	"fmt"
	"os"
	"path/filepath"
)

// socketCandidates lists well-known Docker socket locations, most
// specific first: Colima, OrbStack, the system socket, then Docker
// Desktop's per-user socket.
func socketCandidates() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".colima", "default", "docker.sock"),
		filepath.Join(home, ".orbstack", "run", "docker.sock"),
		"/var/run/docker.sock",
		filepath.Join(home, ".docker", "run", "docker.sock"),
	}
}

// DetectHost resolves the Docker endpoint to connect to. An explicit
// configured host wins, then DOCKER_HOST, then the first well-known
// socket that exists on disk.
func DetectHost(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if env := os.Getenv("DOCKER_HOST"); env != "" {
		return env, nil
	}
	for _, sock := range socketCandidates() {
		if _, err := os.Stat(sock); err == nil {
			return "unix://" + sock, nil
		}
	}
	return "", fmt.Errorf("no Docker socket found: set DOCKER_HOST or install Docker, Colima, or OrbStack")
}
