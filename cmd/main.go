package main

import (
	"fmt"
	"os"

	"github.com/sunudico/sunudico-backend/internal/clients/redis"
	"github.com/sunudico/sunudico-backend/internal/data/repos"
	"github.com/sunudico/sunudico-backend/internal/db"
	"github.com/sunudico/sunudico-backend/internal/handlers"
	"github.com/sunudico/sunudico-backend/internal/middleware"
	recmod "github.com/sunudico/sunudico-backend/internal/modules/recommendation"
	"github.com/sunudico/sunudico-backend/internal/pkg/logger"
	"github.com/sunudico/sunudico-backend/internal/server"
	"github.com/sunudico/sunudico-backend/internal/services"
	"github.com/sunudico/sunudico-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	entryRepo := repos.NewEntryRepo(thePG, log)
	languageRepo := repos.NewLanguageRepo(thePG, log)
	viewEventRepo := repos.NewViewEventRepo(thePG, log)
	favoriteRepo := repos.NewFavoriteRepo(thePG, log)
	activityEventRepo := repos.NewActivityEventRepo(thePG, log)
	profileRepo := repos.NewRecommendationProfileRepo(thePG, log)

	// Redis
	log.Info("Setting up recommendation cache from main...")
	recCache, err := redis.NewRecommendationCache(log)
	if err != nil {
		log.Error("Could not init recommendation cache", "error", err)
		os.Exit(1)
	}
	defer recCache.Close()

	// Recommender tuning
	params, err := recmod.LoadParams(log)
	if err != nil {
		log.Error("Could not load recommender config", "error", err)
		os.Exit(1)
	}
	usecases := recmod.New(recmod.UsecasesDeps{
		DB:        thePG,
		Log:       log,
		Users:     userRepo,
		Entries:   entryRepo,
		Languages: languageRepo,
		Views:     viewEventRepo,
		Favorites: favoriteRepo,
		Activity:  activityEventRepo,
		Params:    params,
	})

	// Services
	log.Info("Setting up Services from main...")
	recService := services.NewRecommendationService(
		thePG,
		log,
		usecases,
		userRepo,
		entryRepo,
		languageRepo,
		profileRepo,
		recCache,
	)

	// Handlers
	log.Info("Setting up handlers from main...")
	recHandler := handlers.NewRecommendationHandler(log, recService)

	// Middleware
	log.Info("Setting up middleware from main...")
	identity := middleware.NewGatewayIdentity(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Identity:              identity,
		RecommendationHandler: recHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
