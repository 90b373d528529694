package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whisperchase/internal/audio"
	"whisperchase/internal/config"
	"whisperchase/internal/database"
	"whisperchase/internal/handlers"
	"whisperchase/internal/oracle"
	"whisperchase/internal/repository"
	"whisperchase/internal/service"
	"whisperchase/internal/words"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load the word bank
	bank, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatalf("Failed to load word bank: %v", err)
	}

	log.Printf("Word bank loaded (%d words)", bank.Size())

	// Initialize repositories
	gameRepo := repository.NewGameRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	playerRepo := repository.NewPlayerRepository(db)

	// Initialize external clients
	oracleClient := oracle.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
	ttsService := audio.NewTTSService(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize services
	statsService := service.NewStatsService(statsRepo, gameRepo, questionRepo)
	gameService := service.NewGameService(gameRepo, questionRepo, statsService, bank, oracleClient)
	authService := service.NewAuthService(playerRepo, emailService, cfg.JWTSecret, cfg.TokenDuration)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService, ttsService)
	statsHandler := handlers.NewStatsHandler(statsService)
	voiceHandler := handlers.NewVoiceHandler(ttsService)

	// Setup routes
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /", handleHealth)
	mux.HandleFunc("GET /health", handleHealth)

	// Auth routes
	mux.HandleFunc("POST /auth/signup", authHandler.SignUp)
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(authHandler.Me))
	mux.HandleFunc("PUT /auth/profile", middleware.RequireAuth(authHandler.UpdateProfile))

	// Game routes
	mux.HandleFunc("POST /start_game", middleware.RequireAuth(gameHandler.StartGame))
	mux.HandleFunc("POST /join_game", middleware.RequireAuth(gameHandler.JoinGame))
	mux.HandleFunc("POST /ask_question", middleware.RequireAuth(gameHandler.AskQuestion))
	mux.HandleFunc("POST /make_guess", middleware.RequireAuth(gameHandler.MakeGuess))
	mux.HandleFunc("GET /game/{id}", middleware.OptionalAuth(gameHandler.GetGame))
	mux.HandleFunc("PUT /game/{id}/tts_settings", middleware.RequireAuth(gameHandler.UpdateTTSSettings))

	// Stats routes
	mux.HandleFunc("GET /players/{id}/stats", middleware.RequireAuth(statsHandler.GetPlayerStats))
	mux.HandleFunc("GET /players/{id}/stats/{difficulty}", middleware.RequireAuth(statsHandler.GetPlayerDifficultyStats))

	// Voice routes
	mux.HandleFunc("POST /voice/text-to-speech", middleware.RequireAuth(voiceHandler.TextToSpeech))
	mux.HandleFunc("GET /voice/voices", middleware.RequireAuth(voiceHandler.GetVoices))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
