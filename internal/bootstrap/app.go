package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"healthtrack-backend/internal/documents"
	"healthtrack-backend/internal/extract"
	"healthtrack-backend/internal/ingest"
	"healthtrack-backend/internal/llm"
	openai "healthtrack-backend/internal/llm/openai"
	"healthtrack-backend/internal/mailer"
	"healthtrack-backend/internal/markers"
	"healthtrack-backend/internal/shared/config"
	"healthtrack-backend/internal/shared/server"
	"healthtrack-backend/internal/shared/storage/db"
	"healthtrack-backend/internal/shared/storage/object"
	localstore "healthtrack-backend/internal/shared/storage/object/local"
	s3store "healthtrack-backend/internal/shared/storage/object/s3"
	"healthtrack-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	UsersRepo     users.Repo
	DocumentsRepo documents.Repo
	MarkersRepo   markers.Repo

	UsersService     *users.Service
	DocumentsService *documents.Service
	MarkersService   *markers.Service
	IngestService    *ingest.Service

	UsersHandler     *users.Handler
	DocumentsHandler *documents.Handler
	MarkersHandler   *markers.Handler
	IngestHandler    *ingest.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		UsersHandler:    app.UsersHandler,
		DocumentHandler: app.DocumentsHandler,
		IngestHandler:   app.IngestHandler,
		MarkersHandler:  app.MarkersHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var userRepo users.Repo
	var docRepo documents.Repo
	var markerRepo markers.Repo
	var recorder ingest.Recorder

	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		docRepo = &documents.PGRepo{DB: app.DB}
		markerRepo = &markers.PGRepo{DB: app.DB}
		recorder = &ingest.PGRecorder{DB: app.DB}
	} else {
		markerMem := markers.NewMemoryRepo()
		docMem := documents.NewMemoryRepo(markerMem)
		userRepo = users.NewMemoryRepo()
		docRepo = docMem
		markerRepo = markerMem
		recorder = &ingest.MemoryRecorder{Docs: docMem, Markers: markerMem}
	}

	var resetMailer users.ResetMailer
	if app.Config.LoopsAPIKey != "" {
		loops, err := mailer.NewLoopsClient(app.Config.LoopsAPIKey, app.Config.LoopsResetTemplateID)
		if err != nil {
			return err
		}
		resetMailer = loops
	}

	extractor, artifactDeleter, err := buildExtractor(app.Config)
	if err != nil {
		return err
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" && app.Config.OpenAIAPIKey != "" {
		openaiClient, err := openai.NewClient(app.Config.OpenAIAPIKey, app.Config.LLMModel)
		if err != nil {
			return err
		}
		llmClient = openaiClient
	}

	markerSvc := markers.NewService(markerRepo)
	userSvc := users.NewService(userRepo, resetMailer, app.Config.AuthSecret, app.Config.ResetSecret, app.Config.AppURL)
	docSvc := documents.NewService(docRepo, app.Store, artifactDeleter)
	ingestSvc := ingest.NewService(app.Store, extractor, llmClient, markerSvc, recorder)

	app.UsersRepo = userRepo
	app.DocumentsRepo = docRepo
	app.MarkersRepo = markerRepo
	app.UsersService = userSvc
	app.DocumentsService = docSvc
	app.MarkersService = markerSvc
	app.IngestService = ingestSvc
	app.UsersHandler = users.NewHandler(userSvc, app.Config.Env == "production")
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.MarkersHandler = markers.NewHandler(markerSvc)
	app.IngestHandler = ingest.NewHandler(ingestSvc)

	return nil
}

// buildExtractor picks the text-extraction strategy. The OCR strategy also
// serves as the artifact deleter for document cleanup.
func buildExtractor(cfg config.Config) (extract.Extractor, documents.ArtifactDeleter, error) {
	if cfg.Extractor == "ocr" {
		client, err := extract.NewOCRClient(cfg.MistralAPIKey)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	return extract.PDFText{}, nil, nil
}
