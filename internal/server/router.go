package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sunudico/sunudico-backend/internal/handlers"
	"github.com/sunudico/sunudico-backend/internal/middleware"
)

type RouterConfig struct {
	Identity              *middleware.GatewayIdentity
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-User-ID", "X-Region"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.Healthcheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.Identity.Require())
	// Recommendations
	api.GET("/recommendations", cfg.RecommendationHandler.GetPersonal)
	api.GET("/recommendations/trending", cfg.RecommendationHandler.GetTrending)
	api.GET("/recommendations/linguistic", cfg.RecommendationHandler.GetLinguistic)
	api.POST("/recommendations/feedback", cfg.RecommendationHandler.PostFeedback)
	api.GET("/recommendations/explain/:entryId", cfg.RecommendationHandler.GetExplanation)

	return router
}
