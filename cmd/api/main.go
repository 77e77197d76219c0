package main

import (
	"context"
	"log"
	"net/http"
	"time"

	v1 "webochat/cmd/api/router/v1"
	"webochat/internal/auth"
	"webochat/internal/config"
	cacheAdapter "webochat/internal/infrastructure/cache/adapter"
	cport "webochat/internal/infrastructure/cache/port"
	"webochat/internal/infrastructure/database"
	queueAdapter "webochat/internal/infrastructure/queue/adapter"
	qport "webochat/internal/infrastructure/queue/port"
	"webochat/internal/infrastructure/realtime"
	"webochat/internal/pkg/chat/application/task"
	repoAdapter "webochat/internal/pkg/chat/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	cfg := config.Load()
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	repo := repoAdapter.NewPgChatRepository(pool)

	// Cache and queue are optional: without Redis the list endpoint reads
	// straight from Postgres and summary eviction is skipped.
	var cache cport.Cache
	if rc, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Printf("Warning: summary cache disabled: %v", err)
	} else {
		cache = rc
		defer rc.Close()
	}

	var queue qport.Client
	if qc, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Printf("Warning: background queue disabled: %v", err)
	} else {
		queue = qc
		defer qc.Close()
	}

	// Run the worker embedded in the API binary; split into its own
	// deployment when task volume justifies it.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if queue != nil {
		srv, err := queueAdapter.NewAsynqServer()
		if err != nil {
			log.Printf("Warning: background worker disabled: %v", err)
		} else {
			task.RegisterEvictSummariesTask(srv, cache)
			go func() {
				if err := srv.Run(workerCtx); err != nil {
					log.Printf("asynq server stopped: %v", err)
				}
			}()
		}
	}

	rt := realtime.NewRouter()
	defer rt.Close()

	var authn *auth.Authenticator
	if cfg.IdentitySecret != "" {
		authn = auth.NewAuthenticator(cfg.IdentitySecret, cfg.IdentityIssuer, 24*time.Hour)
	} else {
		log.Printf("Warning: IDENTITY_JWT_SECRET not set, API runs without token verification")
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, repo, cache, queue, rt, authn)

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(r)

	log.Printf("listening on :%s", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, handler); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
