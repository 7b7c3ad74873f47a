// Command paperboi summarises research papers.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/ai"
	configfile "github.com/christopherbholland/PaperBoi/internal/adapters/driven/config/file"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/fetch"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/storage/file"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driven/storage/sqlite"
	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/cli"
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
	"github.com/christopherbholland/PaperBoi/internal/core/services"
	"github.com/christopherbholland/PaperBoi/internal/logger"
	"github.com/christopherbholland/PaperBoi/internal/normalisers"
	"github.com/christopherbholland/PaperBoi/internal/postprocessors"
)

// envFile is read from the working directory when present.
const envFile = ".env"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	envValues, err := services.LoadEnvFile(envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		envValues = map[string]string{}
	}
	settingsService := services.NewSettingsService(configStore, services.WithEnv(services.ChainEnv(envValues)))

	settings, err := settingsService.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logger.New(logger.Options{
		Verbose: settings.Log.Verbose,
		LogDir:  settings.Paths.LogDir(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
		log, _ = logger.New(logger.Options{Verbose: settings.Log.Verbose}) //nolint:errcheck // console-only cannot fail
	}
	defer log.Close()

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Warn("Close failed: %v", err)
			}
		}
	}()

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		PaperFactory: func() (driving.PaperService, error) {
			ps, closer, err := buildPaperService(settings, log)
			if closer != nil {
				closers = append(closers, closer)
			}
			return ps, err
		},
		Settings: settingsService,
		Logger:   log,
		InboxDir: settings.Paths.InboxDir(),
	})

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

// buildPaperService wires the pipeline adapters selected by settings.
func buildPaperService(settings *domain.AppSettings, log *logger.Logger) (driving.PaperService, io.Closer, error) {
	log.Section("Setup")

	if err := settings.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w. Run 'paperboi settings wizard' to fix", err)
	}

	for _, dir := range settings.Paths.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	extractor, err := normalisers.NewExtractor(settings.Extractor.Engine)
	if err != nil {
		return nil, nil, err
	}

	backend, err := ai.CreateBackend(&settings.Backend)
	if err != nil {
		return nil, nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)
	segmenter, err := registry.Build(postprocessors.DefaultSegmenter, map[string]any{
		"max_chars": settings.Segmenter.MaxChars,
	})
	if err != nil {
		return nil, nil, err
	}

	metadata, closer, err := openMetadataStore(settings)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("Backend: %s, extractor: %s, metadata: %s, max chars: %d",
		backend.Name(), extractor.Name(), settings.Storage.Backend, settings.Segmenter.MaxChars)

	sessions := services.NewSessionDriver(backend,
		services.WithPollInterval(settings.Backend.PollInterval),
		services.WithSessionLogger(log),
	)

	ps := services.NewPaperService(services.PaperDeps{
		Retriever: fetch.New(settings.Paths.PapersDir(), fetch.WithLogger(log)),
		Extractor: extractor,
		Segmenter: segmenter,
		Sessions:  sessions,
		Summaries: file.NewSummaryStore(settings.Paths.SummariesDir()),
		Metadata:  metadata,
	},
		services.WithLogger(log),
		services.WithMinTextLength(settings.Extractor.MinTextLength),
		services.WithTitleFallback(settings.Title.Fallback),
	)

	return ps, closer, nil
}

func openMetadataStore(settings *domain.AppSettings) (driven.MetadataStore, io.Closer, error) {
	switch settings.Storage.Backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(settings.Paths.MetadataDir())
		if err != nil {
			return nil, nil, fmt.Errorf("opening metadata database: %w", err)
		}
		return store.MetadataStore(), store, nil
	case domain.StorageJSON:
		return file.NewMetadataStore(settings.Paths.MetadataDir()), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: storage %q", domain.ErrUnsupportedType, settings.Storage.Backend)
	}
}
