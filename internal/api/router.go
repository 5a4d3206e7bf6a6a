package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"meal-planner/internal/config"
	"meal-planner/internal/logger"
)

type RouterConfig struct {
	Config  *config.Config
	Handler *Handler
	Log     *logger.Logger

	// TelegramWebhook is mounted when the bot is configured.
	TelegramWebhook http.HandlerFunc
}

func NewRouter(rc RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(rc.Log))
	r.Use(corsMiddleware(rc.Config.CORSAllowedOrigins))

	h := rc.Handler
	r.GET("/health", h.Health)

	api := r.Group("/api")
	{
		api.POST("/quiz/normalize", h.NormalizeQuiz)

		users := api.Group("/users/:userID")
		users.POST("/quiz", h.SubmitQuiz)
		users.GET("/quiz", h.LatestQuizResult)
		users.GET("/profile", h.Profile)
		users.GET("/meal-plan", h.MealPlan)
		users.GET("/meal-plan/shopping-list", h.ShoppingList)

		if rc.TelegramWebhook != nil {
			api.POST("/telegram/webhook", gin.WrapF(rc.TelegramWebhook))
		}
	}

	return r
}
