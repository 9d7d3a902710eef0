package outbound

import (
	"context"
	"time"
)

// CommandRunner abstracts blocking child-process invocations of the external
// tool binaries (ffmpeg, ffprobe, the synthesis engines). Every call carries
// an explicit timeout; hitting it is reported as an ordinary error of that
// invocation.
type CommandRunner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) error
	Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error)
	// LookPath reports whether a binary is available, returning its resolved
	// path.
	LookPath(name string) (string, error)
}
