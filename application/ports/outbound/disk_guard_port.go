package outbound

import "errors"

// ErrLowDiskSpace marks a failed free-space precondition so callers can
// attach a targeted remediation hint to their output.
var ErrLowDiskSpace = errors.New("low disk space")

// DiskGuardPort is a pure precondition check: it raises if any path's
// filesystem has less than minFreeMB megabytes free, and otherwise does
// nothing.
type DiskGuardPort interface {
	EnsureFree(minFreeMB uint64, paths ...string) error
}
