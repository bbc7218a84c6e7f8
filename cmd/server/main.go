package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/redacaolab/redator/internal/ai"
	"github.com/redacaolab/redator/internal/article"
	"github.com/redacaolab/redator/internal/cleanup"
	"github.com/redacaolab/redator/internal/handlers"
	"github.com/redacaolab/redator/internal/media"
	"github.com/redacaolab/redator/internal/progress"
	"github.com/redacaolab/redator/internal/seo"
	"github.com/redacaolab/redator/internal/social"
	"github.com/redacaolab/redator/internal/storage"
	"github.com/redacaolab/redator/internal/transcription"
	"github.com/redacaolab/redator/internal/verify"
)

// Config represents the application configuration. API keys come from the
// environment, not from this file.
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	AI struct {
		Model        string `yaml:"model"`
		EditingModel string `yaml:"editing_model"`
	} `yaml:"ai"`

	Media struct {
		TempDir string `yaml:"temp_dir"`
	} `yaml:"media"`

	Storage struct {
		Database       string `yaml:"database"`
		TranscriptsDir string `yaml:"transcripts_dir"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	Limits struct {
		MaxBodyMB int `yaml:"max_body_mb"`
	} `yaml:"limits"`
}

func main() {
	// .env is optional; in production the keys come from the real env.
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis de ambiente")
	}

	config, err := loadConfig("config/config.yaml")
	if err != nil {
		log.Fatalf("Falha ao carregar configuração: %v", err)
	}

	if err := media.EnsureTempDir(config.Media.TempDir); err != nil {
		log.Fatalf("Falha ao criar diretório temporário: %v", err)
	}
	if err := os.MkdirAll(config.Storage.TranscriptsDir, 0755); err != nil {
		log.Fatalf("Falha ao criar diretório de transcrições: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(config.Storage.Database), 0755); err != nil {
		log.Fatalf("Falha ao criar diretório do banco de dados: %v", err)
	}

	logBuffer := &LogBuffer{lines: make([]string, 0, 1000)}
	log.SetOutput(io.MultiWriter(os.Stdout, logBuffer))

	log.Println("Inicializando componentes...")

	bus := progress.NewBroadcaster()

	// Transcription: AssemblyAI primary, local Whisper degraded fallback.
	assembly := transcription.NewAssemblyClient(os.Getenv("ASSEMBLYAI_API_KEY"), bus)
	whisper := transcription.NewWhisperFallback(config.Media.TempDir)
	transcriber := transcription.NewService(assembly, whisper, bus)

	transcripts := storage.NewTranscriptStorage(config.Storage.TranscriptsDir)
	pipeline := media.NewPipeline(config.Media.TempDir, transcriber, transcripts, bus)

	articleExtractor := article.NewExtractor()
	socialExtractor := social.NewExtractor(pipeline, bus)

	// Verified news search over trusted Brazilian sites, with optional
	// Google Custom Search fallback.
	var webSearcher verify.WebSearcher
	google := verify.NewGoogleSearcher(
		os.Getenv("GOOGLE_SEARCH_API_KEY"),
		os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
	)
	if google.Configured() {
		webSearcher = google
		log.Println("Pesquisa Google Custom Search habilitada")
	} else {
		log.Println("Chaves do Google Custom Search ausentes, pesquisa web desabilitada")
	}
	engine := verify.NewEngine(verify.DefaultTrustedSources, webSearcher, bus)
	searcher := verify.NewSearcher(engine, articleExtractor, webSearcher, bus)

	provider := ai.NewCohereProvider(os.Getenv("COHERE_API_KEY"), config.AI.Model)
	writer := ai.NewWriter(provider, config.AI.EditingModel)

	analyzer := seo.NewAnalyzer()

	db, err := storage.NewArticleDB(config.Storage.Database)
	if err != nil {
		log.Fatalf("Falha ao inicializar banco de dados: %v", err)
	}
	defer db.Close()

	scheduler := cleanup.NewScheduler(
		config.Media.TempDir,
		time.Duration(config.Cleanup.IntervalMinutes)*time.Minute,
		time.Duration(config.Cleanup.MaxAgeHours)*time.Hour,
	)
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: config.Limits.MaxBodyMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	extractHandler := handlers.NewExtractHandler(articleExtractor, socialExtractor)
	newsHandler := handlers.NewNewsHandler(searcher)
	createHandler := handlers.NewCreateArticleHandler(searcher, writer, bus)
	rewriteHandler := handlers.NewRewriteHandler(articleExtractor, writer)
	seoHandler := handlers.NewSEOHandler(analyzer, writer)
	articlesHandler := handlers.NewArticlesHandler(db)
	progressHandler := handlers.NewProgressHandler(bus)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	app.Post("/api/extract", extractHandler.Handle)
	app.Post("/api/search-news", newsHandler.Handle)
	app.Post("/api/create-article", createHandler.Handle)
	app.Post("/api/rewrite-content", rewriteHandler.Handle)
	app.Post("/api/analyze-seo", seoHandler.Handle)

	app.Post("/api/articles", articlesHandler.Save)
	app.Get("/api/articles", articlesHandler.List)
	app.Get("/api/articles/:id", articlesHandler.Get)
	app.Put("/api/articles/:id", articlesHandler.Update)
	app.Delete("/api/articles/:id", articlesHandler.Delete)

	app.Get("/ws/progress", websocket.New(progressHandler.Handle))

	app.Get("/logs", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"logs": logBuffer.GetLogs(),
		})
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	log.Printf("Servidor iniciando em %s", addr)
	log.Println("Endpoints:")
	log.Println("   POST /api/extract         - Extrair conteúdo de URL")
	log.Println("   POST /api/search-news     - Pesquisar notícias verificadas")
	log.Println("   POST /api/create-article  - Gerar matéria original")
	log.Println("   POST /api/rewrite-content - Reescrever matéria existente")
	log.Println("   POST /api/analyze-seo     - Analisar SEO de uma página")
	log.Println("   CRUD /api/articles        - Matérias salvas")
	log.Println("   GET  /ws/progress         - Eventos de progresso (websocket)")
	log.Println("   GET  /logs                - Logs do servidor")
	log.Println("   GET  /health              - Health check")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Println("Encerrando com segurança...")
		app.Shutdown()
	}()

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Servidor falhou: %v", err)
	}
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LogBuffer captures recent log lines in memory for the /logs endpoint.
type LogBuffer struct {
	lines []string
	mu    sync.Mutex
}

func (lb *LogBuffer) Write(p []byte) (n int, err error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.lines = append(lb.lines, string(p))
	if len(lb.lines) > 1000 {
		lb.lines = lb.lines[len(lb.lines)-1000:]
	}
	return len(p), nil
}

func (lb *LogBuffer) GetLogs() []string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	logs := make([]string, len(lb.lines))
	copy(logs, lb.lines)
	return logs
}
