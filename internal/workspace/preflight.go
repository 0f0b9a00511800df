package workspace

import (
	"fmt"

	"golang.org/x/sys/unix"

	"sceneforge/internal/services"
)

// Preflight verifies the workspace root is writable and carries at least
// minFreeMiB of free space before a run starts. A zero or negative minimum
// skips the space check.
func (m *Manager) Preflight(minFreeMiB int) error {
	if err := unix.Access(m.root, unix.W_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "workspace", "preflight",
			fmt.Sprintf("workspace root %q not writable", m.root), err)
	}
	if minFreeMiB <= 0 {
		return nil
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(m.root, &stat); err != nil {
		return services.Wrap(services.ErrConfiguration, "workspace", "preflight", "stat filesystem", err)
	}
	freeMiB := stat.Bavail * uint64(stat.Bsize) / (1024 * 1024)
	if freeMiB < uint64(minFreeMiB) {
		return services.Wrap(services.ErrConfiguration, "workspace", "preflight",
			fmt.Sprintf("only %d MiB free under %q, need %d MiB", freeMiB, m.root, minFreeMiB), nil)
	}
	return nil
}
