package bootstrap

import (
	"fmt"
	"time"

	"api-page-gen/internal/config"
	"api-page-gen/internal/controller"
	"api-page-gen/internal/history"
	"api-page-gen/internal/pkg/logger"
	"api-page-gen/internal/service"
	"api-page-gen/pkg/completion"
	"api-page-gen/pkg/completion/openai"
	"api-page-gen/pkg/events"
)

type Container struct {
	// Controllers
	PipelineController controller.IPipelineController
	TemplateController controller.ITemplateController
	LogController      controller.ILogController

	// Core facades exposed for main.go
	PipelineService service.IPipelineService
	Logger          logger.ILogger
	Bus             *events.Bus
	HistoryDB       *history.DB
}

func NewContainer(cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	bus := events.NewBus()

	// 3. Completion client: provider wrapped with the shared rate gate and
	// the response cache. Dry runs swap the client inside the service, so
	// a missing API key is only fatal once a live call is attempted.
	client, err := buildCompletionClient(cfg)
	if err != nil {
		return nil, err
	}

	// 4. Run history store
	historyDB, err := history.Open(cfg.History.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if err := historyDB.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	historyStore := history.NewStore(historyDB)

	// 5. Services
	pipelineService, err := service.NewPipelineService(cfg, client, sysLogger, bus, historyStore)
	if err != nil {
		return nil, err
	}

	// 6. Controllers
	return &Container{
		PipelineController: controller.NewPipelineController(pipelineService),
		TemplateController: controller.NewTemplateController(pipelineService),
		LogController:      controller.NewLogController(sysLogger),
		PipelineService:    pipelineService,
		Logger:             sysLogger,
		Bus:                bus,
		HistoryDB:          historyDB,
	}, nil
}

func buildCompletionClient(cfg *config.Config) (completion.Client, error) {
	if cfg.AI.APIKey == "" {
		// No credentials: every live call fails fast as an auth error,
		// while dry runs remain fully usable.
		return &completion.FailingClient{Err: completion.ErrAuth}, nil
	}

	provider, err := openai.NewProvider(openai.Config{
		BaseURL:      cfg.AI.BaseURL,
		APIKey:       cfg.AI.APIKey,
		Organization: cfg.AI.Organization,
		Models: map[completion.Profile]string{
			completion.ProfileDescription: cfg.AI.DescModel,
			completion.ProfileSummary:     cfg.AI.SummaryModel,
			completion.ProfileSentence:    cfg.AI.SentenceModel,
			completion.ProfileFAQ:         cfg.AI.FAQModel,
		},
		TimeoutSeconds: cfg.AI.TimeoutSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("init completion provider: %w", err)
	}

	var client completion.Client = provider
	if cfg.AI.RatePerSecond > 0 {
		client = completion.NewRateLimited(client, cfg.AI.RatePerSecond, cfg.AI.RateBurst)
	}
	if cfg.AI.CacheTTLHours > 0 {
		client = completion.NewCaching(client, time.Duration(cfg.AI.CacheTTLHours)*time.Hour)
	}
	return client, nil
}
