package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Settings are the runtime toggles recognized by the explainer, all taken
// from EXPLAINER_* environment variables.
type Settings struct {
	// Fast shrinks the slide canvas and shortens narration for quicker runs.
	Fast bool `envconfig:"EXPLAINER_FAST"`
	// SkipVideo disables video generation entirely; text output still runs.
	SkipVideo bool `envconfig:"EXPLAINER_NO_VIDEO"`
	// SkipWeb disables the reference-link finder.
	SkipWeb bool `envconfig:"EXPLAINER_NO_WEB"`
	// Container biases the muxer's fallback order ("mp4" or "mov").
	Container string `envconfig:"EXPLAINER_CONTAINER"`
	// Voice selects the primary synthesis engine's voice.
	Voice string `envconfig:"EXPLAINER_VOICE"`
	// RateDelta adjusts speech rate, in words per minute relative to default.
	RateDelta int `envconfig:"EXPLAINER_RATE_DELTA"`
	// Levels restricts the audience levels processed in a batch.
	Levels []string `envconfig:"EXPLAINER_LEVELS"`
	// ListenAddr is the serve-mode bind address.
	ListenAddr string `envconfig:"EXPLAINER_ADDR" default:":7870"`
}

func GetSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("failed to process explainer settings: %w", err)
	}
	s.Container = strings.ToLower(strings.TrimSpace(s.Container))
	switch s.Container {
	case "", "mp4", "mov":
	default:
		return nil, fmt.Errorf("EXPLAINER_CONTAINER must be mp4 or mov, got %q", s.Container)
	}
	return &s, nil
}

// NarrationLimit is the per-section narration truncation budget in
// characters.
func (s *Settings) NarrationLimit() int {
	if s.Fast {
		return 350
	}
	return 900
}

// FinalExtension is the container extension used for the final video.
func (s *Settings) FinalExtension() string {
	if s.Container == "mov" {
		return ".mov"
	}
	return ".mp4"
}

// FilterLevels applies the Levels override to the requested audience levels.
// An override that matches nothing leaves the request unchanged.
func (s *Settings) FilterLevels(requested []string) []string {
	if len(s.Levels) == 0 {
		return requested
	}
	wanted := make(map[string]struct{}, len(s.Levels))
	for _, l := range s.Levels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" {
			wanted[l] = struct{}{}
		}
	}
	var filtered []string
	for _, l := range requested {
		if _, ok := wanted[strings.ToLower(l)]; ok {
			filtered = append(filtered, l)
		}
	}
	if len(filtered) == 0 {
		return requested
	}
	return filtered
}
