package config

import (
	"os"
	"sync"
)

var containerMarkers = []string{"/.dockerenv", "/run/.containerenv"}

var (
	inContainerOnce sync.Once
	inContainer     bool
)

// IsRunningInDocker reports whether the process runs in a Docker or Podman container.
// The result is cached after the first call.
func IsRunningInDocker() bool {
	inContainerOnce.Do(func() {
		for _, marker := range containerMarkers {
			if _, err := os.Stat(marker); err == nil {
				inContainer = true
				return
			}
		}
	})
	return inContainer
}

// ResolveHostForDocker maps loopback hosts to host.docker.internal inside a container
// so Postgres and Redis running on the host stay reachable. Empty hosts stay empty.
func ResolveHostForDocker(host string) string {
	if host == "" || !IsRunningInDocker() {
		return host
	}
	switch host {
	case "localhost", "127.0.0.1", "::1":
		return "host.docker.internal"
	}
	return host
}
