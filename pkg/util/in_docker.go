package util

import "os"

// containerMarkers are the files docker and podman drop at the root of a container
var containerMarkers = []string{"/.dockerenv", "/run/.containerenv"}

// InContainer reports whether the process runs inside a docker or podman container
func InContainer() bool {
	for _, p := range containerMarkers {
		if _, err := os.Stat(p); err == nil {
			return true
		}
	}

	return false
}
