package adapters

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

type recordedCall struct {
	name string
	args []string
}

// fakeRunner records invocations and delegates to onRun when set; onRun can
// fail selected calls or create output files.
type fakeRunner struct {
	calls []recordedCall
	onRun func(call int, name string, args []string) error
}

func (r *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	r.calls = append(r.calls, recordedCall{name: name, args: args})
	if r.onRun != nil {
		return r.onRun(len(r.calls)-1, name, args)
	}
	return nil
}

func (r *fakeRunner) Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, recordedCall{name: name, args: args})
	return nil, nil
}

func (r *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

type fakeGuard struct {
	err   error
	calls int
}

func (g *fakeGuard) EnsureFree(minFreeMB uint64, paths ...string) error {
	g.calls++
	return g.err
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func lastArg(args []string) string {
	return args[len(args)-1]
}

func TestSlideMuxer_FallbackOrder(t *testing.T) {
	logger := NewZerologWrapper()
	runner := &fakeRunner{
		onRun: func(call int, name string, args []string) error {
			if call < 2 {
				return errors.New("encoder failed")
			}
			return nil
		},
	}
	muxer := NewFFmpegSlideMuxer(logger, runner, &fakeGuard{}, "ffmpeg", "")

	out := filepath.Join(t.TempDir(), "part_000.mp4")
	produced, err := muxer.Mux(context.Background(), "frame.png", "seg.wav", out)
	if err != nil {
		t.Fatal("expected third attempt to succeed:", err)
	}
	if len(runner.calls) != 3 {
		t.Fatal("expected 3 attempts, got", len(runner.calls))
	}
	if !strings.HasSuffix(lastArg(runner.calls[0].args), ".mp4") {
		t.Fatal("first attempt should target mp4:", lastArg(runner.calls[0].args))
	}
	if !strings.HasSuffix(lastArg(runner.calls[1].args), ".mov") {
		t.Fatal("second attempt should target mov:", lastArg(runner.calls[1].args))
	}
	if !strings.HasSuffix(produced, ".mp4") {
		t.Fatal("third attempt should fall back to mp4:", produced)
	}
	if !hasArg(runner.calls[0].args, "-loop") {
		t.Fatal("first mp4 attempt should loop the image input")
	}
	if hasArg(runner.calls[2].args, "-loop") {
		t.Fatal("retry attempt must drop the image loop flag")
	}
}

func TestSlideMuxer_PreferredMovFirst(t *testing.T) {
	runner := &fakeRunner{}
	muxer := NewFFmpegSlideMuxer(NewZerologWrapper(), runner, &fakeGuard{}, "ffmpeg", "mov")

	produced, err := muxer.Mux(context.Background(), "frame.png", "seg.wav", "part_000.mov")
	if err != nil {
		t.Fatal("mux failed:", err)
	}
	if !strings.HasSuffix(produced, ".mov") {
		t.Fatal("preferred container ignored:", produced)
	}
	if len(runner.calls) != 1 {
		t.Fatal("first attempt succeeded, expected exactly one call")
	}
	if !hasArg(runner.calls[0].args, "mjpeg") {
		t.Fatal("mov attempt should use the mjpeg codec")
	}
}

func TestSlideMuxer_DiskGuardBlocksBeforeEncoding(t *testing.T) {
	runner := &fakeRunner{}
	guard := &fakeGuard{err: outbound.ErrLowDiskSpace}
	muxer := NewFFmpegSlideMuxer(NewZerologWrapper(), runner, guard, "ffmpeg", "")

	_, err := muxer.Mux(context.Background(), "frame.png", "seg.wav", "part_000.mp4")
	if !errors.Is(err, outbound.ErrLowDiskSpace) {
		t.Fatal("expected low disk space error, got", err)
	}
	if len(runner.calls) != 0 {
		t.Fatal("no encode attempt may run when the guard refuses")
	}
}

func TestSlideMuxer_AllAttemptsFail(t *testing.T) {
	runner := &fakeRunner{
		onRun: func(call int, name string, args []string) error {
			return errors.New("boom")
		},
	}
	muxer := NewFFmpegSlideMuxer(NewZerologWrapper(), runner, &fakeGuard{}, "ffmpeg", "")

	_, err := muxer.Mux(context.Background(), "frame.png", "seg.wav", "part_000.mp4")
	if err == nil {
		t.Fatal("expected an error after all attempts fail")
	}
	if len(runner.calls) != 3 {
		t.Fatal("expected the full ladder to be tried, got", len(runner.calls))
	}
}
