package adapters

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

// statfsDiskGuard checks filesystem free space before expensive encode
// steps. No side effects on success.
type statfsDiskGuard struct{}

func NewStatfsDiskGuard() outbound.DiskGuardPort {
	return &statfsDiskGuard{}
}

func (g *statfsDiskGuard) EnsureFree(minFreeMB uint64, paths ...string) error {
	for _, p := range paths {
		var st unix.Statfs_t
		if err := unix.Statfs(p, &st); err != nil {
			return fmt.Errorf("failed to stat filesystem at %s: %w", p, err)
		}
		free := st.Bavail * uint64(st.Bsize)
		if free < minFreeMB*1024*1024 {
			return fmt.Errorf("%w: less than %dMB free in %s", outbound.ErrLowDiskSpace, minFreeMB, p)
		}
	}
	return nil
}
