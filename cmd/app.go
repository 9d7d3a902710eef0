package main

import (
	"time"

	"github.com/pranavsaji/code-explainer/application/ports/inbound"
	"github.com/pranavsaji/code-explainer/application/ports/outbound"
	"github.com/pranavsaji/code-explainer/application/services"
	"github.com/pranavsaji/code-explainer/config"
	"github.com/pranavsaji/code-explainer/infrastructure/adapters"
)

const (
	fetchTimeout    = 30 * time.Second
	scratchPurgeAge = 6 * time.Hour
)

// app holds the fully wired object graph shared by the CLI and serve modes.
type app struct {
	logger     outbound.LoggerPort
	settings   *config.Settings
	layout     *config.OutputLayout
	pipeline   inbound.ExplainerPipelinePort
	repoIngest outbound.RepoIngestorPort
	dirIngest  outbound.DirIngestorPort
	dispatcher outbound.TaskDispatcher
	shutdown   func()
}

func buildApp() (*app, error) {
	logger := adapters.NewZerologWrapper()

	settings, err := config.GetSettings()
	if err != nil {
		return nil, err
	}

	layout, err := config.DefaultOutputLayout()
	if err != nil {
		return nil, err
	}
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}
	layout.PurgeStaleScratch(scratchPurgeAge)

	runner := adapters.NewExecCommandRunner(logger)
	ffmpegBin, err := adapters.ResolveFFmpeg(runner)
	if err != nil {
		return nil, err
	}

	guard := adapters.NewStatfsDiskGuard()
	strategies := []adapters.SynthesisStrategy{
		adapters.NewSayStrategy(runner, logger, settings.Voice),
		adapters.NewEspeakStrategy(runner, logger),
	}
	synthesizer := adapters.NewSpeechSynthesizer(logger, runner, strategies, ffmpegBin, layout.ScratchDir)
	renderer := adapters.NewSlideRenderer(settings.Fast, logger)
	muxer := adapters.NewFFmpegSlideMuxer(logger, runner, guard, ffmpegBin, settings.Container,
		layout.ScratchDir, layout.VideoDir)
	concatenator := adapters.NewFFmpegConcatenator(logger, runner, ffmpegBin, layout.ScratchDir)
	assembler := services.NewVideoAssembler(logger, guard, synthesizer, renderer, muxer, concatenator, layout.ScratchDir)

	fetcher := adapters.NewContentFetcher(logger, fetchTimeout)
	generator := adapters.NewOpenAIExplainer(config.GetOpenAIConfig(), logger)
	linkFinder := adapters.NewDuckDuckGoLinkFinder(logger, fetcher, settings.SkipWeb)

	levelExplainer := services.NewLevelExplainer(logger, settings, generator, linkFinder, assembler, layout.VideoDir)
	pipeline := services.NewExplainerPipeline(logger, settings, levelExplainer, layout.Root)

	dispatcher, release, err := adapters.NewSerialDispatcher(logger)
	if err != nil {
		return nil, err
	}

	return &app{
		logger:     logger,
		settings:   settings,
		layout:     layout,
		pipeline:   pipeline,
		repoIngest: adapters.NewGitHubIngestor(logger, fetcher, layout.ScratchDir),
		dirIngest:  adapters.NewLocalDirIngestor(logger),
		dispatcher: dispatcher,
		shutdown:   release,
	}, nil
}
