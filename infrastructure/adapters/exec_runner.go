package adapters

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

type execCommandRunner struct {
	logger outbound.LoggerPort
}

func NewExecCommandRunner(logger outbound.LoggerPort) outbound.CommandRunner {
	return &execCommandRunner{logger: logger}
}

func (r *execCommandRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("CMD: " + prettyCommand(name, args))

	cmd := exec.CommandContext(runCtx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if runCtx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("%s timed out after %s", name, timeout)
	}
	if msg := truncateOutput(stderr.String()); msg != "" {
		return fmt.Errorf("%s failed: %w: %s", name, err, msg)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

func (r *execCommandRunner) Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("CMD: " + prettyCommand(name, args))

	out, err := exec.CommandContext(runCtx, name, args...).Output()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s timed out after %s", name, timeout)
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

func (r *execCommandRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// prettyCommand renders an invocation in shell-pasteable form for the debug
// log.
func prettyCommand(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if strings.ContainsAny(a, " '\"") {
			parts = append(parts, "'"+strings.ReplaceAll(a, "'", `'"'"'`)+"'")
		} else {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func truncateOutput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		return s[:400] + "..."
	}
	return s
}
