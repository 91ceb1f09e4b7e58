package app

import (
	"context"
	"log"
	"time"

	"jobtrail/internal/ai"
	"jobtrail/internal/analyzer"
	"jobtrail/internal/config"
	"jobtrail/internal/database"
	"jobtrail/internal/database/migration"
	dbpostgres "jobtrail/internal/database/postgres"
	"jobtrail/internal/database/seeder"
	"jobtrail/internal/delivery/http/handler"
	"jobtrail/internal/delivery/http/middleware"
	"jobtrail/internal/delivery/http/routes"
	"jobtrail/internal/infrastructure/cache"
	"jobtrail/internal/infrastructure/storage"
	"jobtrail/internal/pkg/jwt"
	"jobtrail/internal/pkg/lock"
	"jobtrail/internal/repository"
	"jobtrail/internal/usecase"
)

type Container struct {
	Config   config.Config
	DB       database.DB
	Cache    *cache.Redis
	Registry *routes.Registry

	logger *log.Logger
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: cfg.Database.MigrationsDir}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	redisCache := cache.NewRedis(logger)

	// Without redis the keyed lock still serializes within this process.
	var guard lock.Guard
	if redisCache.Available() {
		guard = redisCache
	}
	locks := lock.NewKeyed(guard, logger)

	var completionProviders []ai.CompletionProvider
	var embeddingProviders []ai.EmbeddingProvider
	if cfg.AI.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiAPIKey, cfg.AI.GeminiModels, logger)
		if err != nil {
			logger.Printf("[App] gemini provider disabled err=%v", err)
		} else {
			completionProviders = append(completionProviders, gemini)
			embeddingProviders = append(embeddingProviders, gemini)
		}
	}
	if cfg.AI.OpenAIAPIKey != "" {
		openAI, err := ai.NewOpenAIProvider(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel, cfg.AI.HeliconeAPIKey, cfg.AI.RequestTimeout, logger)
		if err != nil {
			logger.Printf("[App] openai provider disabled err=%v", err)
		} else {
			completionProviders = append(completionProviders, openAI)
			embeddingProviders = append(embeddingProviders, openAI)
		}
	}
	completions := ai.NewChain(logger, completionProviders...)
	embeddings := ai.NewEmbeddingChain(logger, embeddingProviders...)

	appRepo := repository.NewPostgresJobApplicationRepository(db)
	interviewRepo := repository.NewPostgresInterviewRepository(db)
	profileRepo := repository.NewPostgresProfileRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	settingRepo := repository.NewPostgresSettingRepository(db)

	fetcher := analyzer.NewFetcher(cfg.Analyzer, logger)
	store := storage.NewLocalStore(cfg.Storage.Dir)

	analysisUC := usecase.NewAnalysisService(
		fetcher, completions, embeddings,
		profileRepo, skillRepo, settingRepo,
		redisCache, cfg.AI.SemanticScorePolicy, logger,
	)
	jobUC := usecase.NewJobUsecase(appRepo, interviewRepo, profileRepo, analysisUC, locks, redisCache, store, logger)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, appRepo, locks, logger)
	profileUC := usecase.NewProfileUsecase(profileRepo, skillRepo, settingRepo, completions, embeddings, logger)

	jwtSvc := jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	registry := routes.NewRegistry(
		handler.NewJobHandler(jobUC),
		handler.NewInterviewHandler(interviewUC),
		handler.NewProfileHandler(profileUC),
		authMw,
	)

	return &Container{
		Config:   cfg,
		DB:       db,
		Cache:    redisCache,
		Registry: registry,
		logger:   logger,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
