package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pranavsaji/code-explainer/application/ports/outbound"
)

type fakeStrategy struct {
	name      string
	available bool
	err       error
	gotChunks []string
	extension string
}

func speechRequest(text, out string) outbound.SynthesizeSpeechRequest {
	return outbound.SynthesizeSpeechRequest{Text: text, OutputPath: out}
}

func (s *fakeStrategy) Name() string    { return s.name }
func (s *fakeStrategy) Available() bool { return s.available }

func (s *fakeStrategy) Synthesize(ctx context.Context, chunks []string, workDir, baseName string, rateDelta int) ([]string, error) {
	s.gotChunks = chunks
	if s.err != nil {
		return nil, s.err
	}
	var files []string
	for i := range chunks {
		p := filepath.Join(workDir, baseName+"_"+s.name+"_"+string(rune('a'+i))+s.extension)
		if err := os.WriteFile(p, []byte("audio"), 0o644); err != nil {
			return nil, err
		}
		files = append(files, p)
	}
	return files, nil
}

func TestSpeechSynthesizer_FallbackGetsWholeText(t *testing.T) {
	dir := t.TempDir()
	primary := &fakeStrategy{name: "primary", available: true, err: errors.New("engine broke"), extension: ".aiff"}
	fallback := &fakeStrategy{name: "fallback", available: true, extension: ".wav"}
	runner := &fakeRunner{}

	synth := NewSpeechSynthesizer(NewZerologWrapper(), runner, []SynthesisStrategy{primary, fallback}, "ffmpeg", dir)

	text := strings.TrimSpace(strings.Repeat("A sentence to narrate out loud. ", 60))
	out := filepath.Join(dir, "seg_0.wav")
	if err := synth.Synthesize(context.Background(), speechRequest(text, out)); err != nil {
		t.Fatal("synthesize failed:", err)
	}

	if len(primary.gotChunks) < 2 {
		t.Fatal("primary engine should receive the chunked text, got", len(primary.gotChunks))
	}
	if len(fallback.gotChunks) != 1 || fallback.gotChunks[0] != text {
		t.Fatal("fallback engine should receive the whole text as one chunk")
	}

	// Single fallback segment: the only ffmpeg call is the final conversion.
	if len(runner.calls) != 1 {
		t.Fatal("expected one conversion call, got", len(runner.calls))
	}
	convert := runner.calls[0]
	if !hasArg(convert.args, "16000") || !hasArg(convert.args, "pcm_s16le") {
		t.Fatal("conversion must normalize to mono 16 kHz pcm:", convert.args)
	}
	if lastArg(convert.args) != out {
		t.Fatal("conversion should target the requested output path")
	}
}

func TestSpeechSynthesizer_ChunksAreConcatenated(t *testing.T) {
	dir := t.TempDir()
	engine := &fakeStrategy{name: "only", available: true, extension: ".wav"}
	runner := &fakeRunner{}

	synth := NewSpeechSynthesizer(NewZerologWrapper(), runner, []SynthesisStrategy{engine}, "ffmpeg", dir)

	text := strings.TrimSpace(strings.Repeat("More narration padding for chunking. ", 60))
	if err := synth.Synthesize(context.Background(), speechRequest(text, filepath.Join(dir, "seg_1.wav"))); err != nil {
		t.Fatal("synthesize failed:", err)
	}
	if len(engine.gotChunks) < 2 {
		t.Skip("text did not chunk, nothing to concatenate")
	}
	if len(runner.calls) != 2 {
		t.Fatal("expected concat then convert, got", len(runner.calls), "calls")
	}
	if !hasArg(runner.calls[0].args, "concat") {
		t.Fatal("first ffmpeg call should use the concat demuxer:", runner.calls[0].args)
	}
}

func TestSpeechSynthesizer_AllEnginesFail(t *testing.T) {
	dir := t.TempDir()
	a := &fakeStrategy{name: "a", available: true, err: errors.New("no voice")}
	b := &fakeStrategy{name: "b", available: true, err: errors.New("no binary")}

	synth := NewSpeechSynthesizer(NewZerologWrapper(), &fakeRunner{}, []SynthesisStrategy{a, b}, "ffmpeg", dir)

	err := synth.Synthesize(context.Background(), speechRequest("Some text.", filepath.Join(dir, "seg.wav")))
	if err == nil {
		t.Fatal("expected an error when every engine fails")
	}
}

func TestSpeechSynthesizer_NoEngineAvailable(t *testing.T) {
	dir := t.TempDir()
	off := &fakeStrategy{name: "off", available: false}

	synth := NewSpeechSynthesizer(NewZerologWrapper(), &fakeRunner{}, []SynthesisStrategy{off}, "ffmpeg", dir)

	err := synth.Synthesize(context.Background(), speechRequest("Some text.", filepath.Join(dir, "seg.wav")))
	if err == nil || !strings.Contains(err.Error(), "no synthesis engine") {
		t.Fatal("expected a no-engine error, got", err)
	}
}

func TestSpeechSynthesizer_EmptyText(t *testing.T) {
	synth := NewSpeechSynthesizer(NewZerologWrapper(), &fakeRunner{}, nil, "ffmpeg", t.TempDir())
	if err := synth.Synthesize(context.Background(), speechRequest("   ", "out.wav")); err == nil {
		t.Fatal("expected an error for empty narration text")
	}
}
