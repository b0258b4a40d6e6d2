package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/config"
	"quiz-session-service/internal/domain"
	"quiz-session-service/internal/infra/memory"
	pgstore "quiz-session-service/internal/infra/postgres"
	redisstore "quiz-session-service/internal/infra/redis"
	transport "quiz-session-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz session server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := resolvePort(portFlag, cfg.Server.Port, os.Getenv("PORT"))

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.DefinitionLoader = memory.NewStaticDefinitionLoader(sampleDefinitions())
	if pool != nil {
		loader = pgstore.NewDefinitionLoader(pool)
	}
	definitionTTL := config.TTLDuration(cfg.Definitions.TTL, 10*time.Minute)
	quizzes := memory.NewDefinitionRepository(loader, definitionTTL)

	var progress app.ProgressStore = memory.NewProgressStore()
	if redisClient != nil {
		progress = redisstore.NewProgressStore(redisClient)
	}

	var highScores app.HighScoreStore = memory.NewHighScoreStore()
	var attempts app.AttemptStore = memory.NewAttemptStore()
	switch {
	case pool != nil:
		highScores = pgstore.NewHighScoreStore(pool)
		attempts = pgstore.NewAttemptStore(pool)
	case redisClient != nil:
		highScores = redisstore.NewHighScoreStore(redisClient)
		attempts = redisstore.NewAttemptStore(redisClient)
	}

	service := app.NewSessionService(app.Deps{
		Quizzes:    quizzes,
		Progress:   progress,
		HighScores: highScores,
		Attempts:   attempts,
		Identity:   app.ContextIdentity{},
	})
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz session service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// resolvePort picks the listen port: flag beats config, config beats the PORT
// environment variable, and 8080 is the fallback.
func resolvePort(flag, cfgPort, envPort string) string {
	for _, p := range []string{flag, cfgPort, envPort} {
		if p != "" {
			return p
		}
	}
	return "8080"
}

// sampleDefinitions seeds the no-database wiring; production deployments load
// quiz content from Postgres.
func sampleDefinitions() []domain.QuizDefinition {
	return []domain.QuizDefinition{
		{
			ID:               "quiz-1",
			SubjectID:        "math",
			Title:            "Arithmetic Basics",
			SubjectTitle:     "Mathematics",
			Description:      "Warm-up arithmetic questions",
			TimeLimitMinutes: 5,
			Questions: []domain.Question{
				{Prompt: "What is 2 + 2?", Options: []string{"3", "4", "5"}, CorrectOptionIndex: 1},
				{Prompt: "What is 9 / 3?", Options: []string{"2", "3", "6"}, CorrectOptionIndex: 1},
				{Prompt: "What is 7 - 5?", Options: []string{"1", "2", "3"}, CorrectOptionIndex: 1},
			},
		},
	}
}
