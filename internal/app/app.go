package app

import (
	"context"
	"fmt"
	"io"

	"hush/internal/analysis"
	"hush/internal/config"
	"hush/internal/services"
	"hush/internal/storage"
	"hush/internal/store"
	"hush/internal/store/primary"
	"hush/internal/tasks"
	"hush/internal/uploader"
	"hush/pkg/categorizer"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

type App struct {
	Config *config.Config

	// Stores; all backed by the same primary database.
	ConfessionStore store.ConfessionStore
	VoteStore       store.VoteStore
	JobStore        store.JobStore
	db              io.Closer

	JobClient store.JobClient  // nil when redis.address is empty
	Archive   storage.Archive  // nil unless archive.enabled
	Uploader  *uploader.Client // connects lazily on first use

	// Refiner is the model-backed analyzer used by the worker; nil unless
	// analysis.refine.enabled.
	Refiner       *categorizer.LLMAnalyzer
	refinerCloser io.Closer

	ConfessionService *services.ConfessionService
}

// NewApp wires every dependency from cfg. Partially built resources are
// released when a later step fails.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()
	app := &App{Config: cfg}

	app.initUploader()
	if err := app.initPrimaryStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initArchive(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initRefiner(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initCoreServices()

	log.Debug("Application initialization complete.")
	return app, nil
}

// NewUploader builds the upload client from configuration alone. The signing
// key is read on first use, so a missing key surfaces as an initialization
// error on that call rather than here.
func NewUploader(cfg *config.Config) *uploader.Client {
	return uploader.New(uploader.Options{
		Dialer:     uploader.NodeDialer(cfg.Irys.NodeURL, cfg.Irys.Timeout),
		PrivateKey: func() string { return cfg.Irys.PrivateKey },
		GatewayURL: cfg.Irys.GatewayURL,
	})
}

// --- Private Helper Methods ---

func (a *App) initUploader() {
	a.Uploader = NewUploader(a.Config)
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.ConfessionStore = ps
	a.VoteStore = ps
	a.JobStore = ps
	a.db = ps
	return nil
}

func (a *App) initJobClient() error {
	if a.Config.Redis.Address == "" {
		log.Debug("redis.address not set; analysis refinement jobs are disabled")
		return nil
	}
	jc, err := store.NewAsynqJobClient(a.RedisOpt(), tasks.QueueAnalysis, a.JobStore)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

// RedisOpt is the asynq connection shared by the job client and the worker.
func (a *App) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.Config.Redis.Address,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	}
}

func (a *App) initArchive(ctx context.Context) error {
	ac := a.Config.Archive
	if !ac.Enabled {
		return nil
	}
	archive, err := storage.NewS3Archive(ctx, storage.Options{
		Endpoint:        ac.Endpoint,
		AccessKeyID:     ac.AccessKeyID,
		SecretAccessKey: ac.SecretAccessKey,
		Bucket:          ac.Bucket,
		Region:          ac.Region,
		UseSSL:          ac.UseSSL,
		Prefix:          ac.Prefix,
	})
	if err != nil {
		return fmt.Errorf("init archive: %w", err)
	}
	a.Archive = archive
	log.WithField("bucket", ac.Bucket).Info("Archive enabled")
	return nil
}

func (a *App) initRefiner(ctx context.Context) error {
	rc := a.Config.Analysis.Refine
	if !rc.Enabled {
		return nil
	}
	prompt, err := config.LoadPromptContent(rc.Prompt, categorizer.DefaultPrompt)
	if err != nil {
		return fmt.Errorf("init refiner: %w", err)
	}

	var completer categorizer.Completer
	switch rc.Provider {
	case "gemini":
		gc, err := categorizer.NewGeminiCompleterFromKey(ctx, a.Config.GoogleApiKey, rc.Model)
		if err != nil {
			return fmt.Errorf("init refiner: %w", err)
		}
		a.refinerCloser = gc
		completer = gc
	case "openai":
		completer = categorizer.NewOpenAICompleterFromKey(a.Config.OpenaiApiKey, rc.Model)
	default:
		return fmt.Errorf("init refiner: unsupported provider '%s'", rc.Provider)
	}
	a.Refiner = categorizer.NewLLMAnalyzer(completer, prompt)
	log.WithFields(log.Fields{"provider": rc.Provider, "model": rc.Model}).Info("Analysis refinement enabled")
	return nil
}

func (a *App) initCoreServices() {
	var jobs store.JobClient
	// Refinement jobs are only useful when a worker can run them.
	if a.JobClient != nil && a.Config.Analysis.Refine.Enabled {
		jobs = a.JobClient
	}
	a.ConfessionService = services.NewConfessionService(services.ConfessionServiceDeps{
		Confessions: a.ConfessionStore,
		Votes:       a.VoteStore,
		Jobs:        jobs,
		Uploader:    a.Uploader,
		Analyzer:    analysis.NewHeuristicAnalyzer(),
		Archive:     a.Archive,
	})
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error {
	if a.ConfessionStore == nil {
		return fmt.Errorf("primary store is not initialized")
	}
	return a.ConfessionStore.Ping(ctx)
}

// Close releases every resource the app opened.
func (a *App) Close() error {
	a.cleanupPartialInit()
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing job client")
		}
		a.JobClient = nil
	}
	if a.refinerCloser != nil {
		if err := a.refinerCloser.Close(); err != nil {
			log.WithError(err).Warn("Error closing refinement client")
		}
		a.refinerCloser = nil
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.WithError(err).Warn("Error closing primary store")
		}
		a.db = nil
	}
}
