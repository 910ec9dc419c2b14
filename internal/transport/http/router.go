package handlers

import (
	"net/http"
	"time"

	"coursemarket/internal/infrastructure/security"
	"coursemarket/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	AllowedOrigins []string
	// Metrics is served on /metrics.
	Metrics prometheus.Gatherer
	// PurchaseLimit requests per PurchaseWindow are allowed for each user.
	PurchaseLimit  int
	PurchaseWindow time.Duration
}

func NewRouter(
	cfg RouterConfig,
	webhookHandler *WebhookHandler,
	userHandler *UserHandler,
	courseHandler *CourseHandler,
	limiter *middleware.RateLimiter,
	tokens *security.TokenManager,
	log zerolog.Logger,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "API IS WORKING") })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Metrics, promhttp.HandlerOpts{})))

	r.POST("/stripe", webhookHandler.Stripe)
	r.POST("/clerk", webhookHandler.Clerk)

	r.GET("/api/course/:id", courseHandler.GetOne)

	limit, window := cfg.PurchaseLimit, cfg.PurchaseWindow
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = time.Minute
	}

	user := r.Group("/api/user")
	user.Use(middleware.AuthMiddleware(tokens))
	{
		user.GET("/data", userHandler.GetUserData)
		user.GET("/enrolled-courses", userHandler.EnrolledCourses)
		user.POST("/purchase", limiter.Limit("purchase", limit, window), userHandler.Purchase)
		user.POST("/update-course-progress", userHandler.UpdateCourseProgress)
		user.POST("/get-course-progress", userHandler.GetCourseProgress)
		user.POST("/add-rating", userHandler.AddRating)
	}

	return r
}
