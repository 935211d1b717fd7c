package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/example/todo-service/config"
	apimod "github.com/example/todo-service/modules/api"
	authmod "github.com/example/todo-service/modules/auth"
	cachemod "github.com/example/todo-service/modules/cache"
	taskmod "github.com/example/todo-service/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("=== To-Do Service ===")
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("HTTP: %s", cfg.HTTPAddr)
	if cfg.RedisAddr != "" {
		log.Printf("Cache: %s (prefix: %s, TTL: %s)", cfg.RedisAddr, cfg.CachePrefix, cfg.CacheTTL)
	}

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	authModule := authmod.NewModule(cfg)
	taskModule := taskmod.NewModule(cfg)
	apiModule := apimod.NewModule(cfg)

	var cacheModule *cachemod.Module
	if cfg.RedisAddr != "" {
		cacheModule = cachemod.NewModule(cfg.RedisAddr, cfg.CachePrefix, cfg.CacheTTL)
		app.Register(cacheModule)
	}

	// Order: independent modules first, then dependent modules
	app.Register(authModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// The task read cache is wired after startup; without Redis the task
	// module serves every read from the store.
	if cacheModule != nil {
		taskModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints:")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/signup  - Register a new user")
	log.Println("  POST   /api/v1/auth/login   - Login and get a session token")
	log.Println("  GET    /health              - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/v1/auth/logout  - Invalidate the session token")
	log.Println("  GET    /api/v1/users/me     - Get your profile")
	log.Println("  POST   /api/v1/tasks        - Create a task")
	log.Println("  GET    /api/v1/tasks        - List your tasks")
	log.Println("  GET    /api/v1/tasks/:id    - Get a task")
	log.Println("  PUT    /api/v1/tasks/:id    - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id    - Delete a task")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
