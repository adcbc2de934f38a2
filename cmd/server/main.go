package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"chatspace/internal/auth"
	"chatspace/internal/config"
	"chatspace/internal/database"
	"chatspace/internal/handlers"
	"chatspace/internal/realtime"
	"chatspace/internal/scheduler"
	"chatspace/internal/services"
	"chatspace/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Realtime core: presence registry and message router
	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry)

	// Initialize services
	authService := auth.NewService(db, cfg)
	contactService := services.NewContactService(db)
	groupService := services.NewGroupService(db, router)
	messageService := services.NewMessageService(db, router)
	eventService := services.NewEventService(db)

	// Reminder dispatcher on its two trigger cadences
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dispatcher := scheduler.NewDispatcher(db, router)
	scheduler.NewScheduler(dispatcher, cfg.Scheduler).Start(ctx)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	contactHandlers := handlers.NewContactHandlers(contactService)
	groupHandlers := handlers.NewGroupHandlers(groupService)
	messageHandlers := handlers.NewMessageHandlers(messageService)
	eventHandlers := handlers.NewEventHandlers(eventService)
	wsHandlers := handlers.NewWebSocketHandlers(registry)

	// Setup routes
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(cfg.Server.ClientURL))

	r.Route("/api", func(r chi.Router) {
		r.Mount("/auth", authHandlers.Routes())

		r.Group(func(r chi.Router) {
			r.Use(handlers.Protect(authService))
			r.Mount("/chat", contactHandlers.Routes())
			r.Mount("/group", groupHandlers.Routes())
			r.Mount("/message", messageHandlers.Routes())
			r.Mount("/event", eventHandlers.Routes())
		})
	})

	r.Get("/ws", wsHandlers.HandleWebSocket)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	logger.Info("🚀 Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("📡 WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")
	cancel()
	server.Shutdown(context.Background())
}

func corsMiddleware(clientURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", clientURL)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
