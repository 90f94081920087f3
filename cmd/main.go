package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/adotapet/adotapet-backend/internal/config"
	"github.com/adotapet/adotapet-backend/internal/db"
	"github.com/adotapet/adotapet-backend/internal/donation"
	"github.com/adotapet/adotapet-backend/internal/handlers"
	"github.com/adotapet/adotapet-backend/internal/services"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB")

	database := client.Database(cfg.DatabaseName)

	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, organization cache disabled", zap.Error(err))
			cache = nil
		}
	}

	// Services and handlers
	userService := services.NewUserService(database, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userService, logger)

	orgService := services.NewOrganizationService(database, cache, logger)
	orgHandler := handlers.NewOrganizationHandler(orgService, cfg.JWTSecret, logger)

	petService := services.NewPetService(database)
	petHandler := handlers.NewPetHandler(petService, cfg.JWTSecret, logger)

	gateway := services.NewAsaasClient(cfg.AsaasBaseURL, cfg.AsaasAPIKey, logger)
	store := services.NewMongoDonationStore(database)
	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Warn("Failed to ensure donation indexes", zap.Error(err))
	}
	donationService := services.NewDonationService(gateway, store, logger)

	sessions := donation.NewSessions(donationService, donation.DefaultSessionTTL, logger)
	go sessions.Start(ctx)

	donationHandler := handlers.NewDonationHandler(sessions, donationService, orgService, cfg.JWTSecret, logger)

	// Router
	router := mux.NewRouter()
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/api/user", userHandler.Register).Methods("POST")
	router.HandleFunc("/api/login", userHandler.Login).Methods("POST")

	router.HandleFunc("/api/organizations", orgHandler.List).Methods("GET")
	router.HandleFunc("/api/organization", orgHandler.Create).Methods("POST")
	router.HandleFunc("/api/organization/{orgID}", orgHandler.Get).Methods("GET")

	router.HandleFunc("/api/pets", petHandler.List).Methods("GET")
	router.HandleFunc("/api/pet", petHandler.Create).Methods("POST")
	router.HandleFunc("/api/pet/{petID}", petHandler.Get).Methods("GET")

	router.HandleFunc("/api/donation/session", donationHandler.CreateSession).Methods("POST")
	router.HandleFunc("/api/donation/session/{sessionID}", donationHandler.UpdateSession).Methods("PATCH")
	router.HandleFunc("/api/donation/session/{sessionID}", donationHandler.SessionState).Methods("GET")
	router.HandleFunc("/api/donation/session/{sessionID}/submit", donationHandler.SubmitSession).Methods("POST")
	router.HandleFunc("/api/donation/session/{sessionID}/reset", donationHandler.ResetSession).Methods("POST")
	router.HandleFunc("/api/donations", donationHandler.ListDonations).Methods("GET")
	router.HandleFunc("/api/payment/webhook", donationHandler.Webhook(cfg.WebhookToken)).Methods("POST")

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Info("Server running", zap.String("port", cfg.Port))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
