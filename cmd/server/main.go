package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifin-backend/internal/assets"
	"lifin-backend/internal/chat"
	"lifin-backend/internal/config"
	"lifin-backend/internal/database"
	"lifin-backend/internal/handlers"
	"lifin-backend/internal/middleware"
	"lifin-backend/internal/proxy"
	"lifin-backend/internal/repository"
	"lifin-backend/internal/router"
	"lifin-backend/internal/services"
	"lifin-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting LIFIN Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	events := repository.NewPublisher(redisClients.Events)
	userRepo := repository.NewUserRepo(pool, events)
	newsRepo := repository.NewNewsRepo(pool)
	flipcardRepo := repository.NewFlipcardRepo(pool)

	// ──── Step 5: Initialize Chat Proxy ────
	provider, err := proxy.ByName(cfg.ChatProvider)
	if err != nil {
		log.Fatalf("✗ Chat provider setup failed: %v", err)
	}
	chatProxy := proxy.NewHandler(provider)
	log.Printf("✓ Chat proxy ready (provider: %s)", provider.Name)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	library := assets.NewLibrary(cfg.DataPath)
	lessonService := services.NewLessonService(library)
	allocationService := services.NewAllocationService()
	recommendService := services.NewRecommendService(cfg.RecommendAPIKey, cfg.RecommendBaseURL, cfg.RecommendModel)

	// ──── Initialize Handlers ────
	proxyClient := chat.NewProxyClient(cfg.ChatProxyURL)
	chatSocket := chat.NewSocketHandler(proxyClient, library)
	userHandler := handlers.NewUserHandler(userRepo, lessonService)
	newsHandler := handlers.NewNewsHandler(newsRepo)
	flipcardHandler := handlers.NewFlipcardHandler(flipcardRepo)
	materiHandler := handlers.NewMateriHandler(userRepo, lessonService)
	produkHandler := handlers.NewProdukHandler(recommendService)
	alokasiHandler := handlers.NewAlokasiHandler(allocationService)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, jwtAuth)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		chatProxy,
		chatSocket,
		userHandler,
		newsHandler,
		flipcardHandler,
		materiHandler,
		produkHandler,
		alokasiHandler,
		wsHub,
		cfg.FrontendURL,
		cfg.ProxyRateLimit,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LIFIN Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API:   http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  Proxy: http://localhost:%s/api/chat-proxy", cfg.Port)
	log.Printf("  WS:    ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
