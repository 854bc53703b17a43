package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ventura-backend/config"
	"ventura-backend/controllers"
	"ventura-backend/middleware"
)

// SetupRouter wires middleware and the API surface. Authorization is
// coarse-grained here (authenticated vs admin); owner checks live in
// the controllers and services.
func SetupRouter(
	cfg *config.Config,
	ac *controllers.AuthController,
	rc *controllers.ReservationController,
	pc *controllers.PaymentController,
	repc *controllers.ReportController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	origins := cfg.CORSOrigins
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", ac.Login)
		}

		// Calendar availability view is public: it exposes nothing but
		// blocked ranges.
		api.GET("/reservations/blocked-intervals", rc.BlockedIntervals)

		authed := api.Group("")
		authed.Use(middleware.JWTAuth(cfg.JWTSecret))
		{
			reservations := authed.Group("/reservations")
			{
				reservations.POST("", rc.Create)
				reservations.GET("/me", rc.ListMine)
				reservations.GET("/:id", rc.GetByID)
				reservations.GET("/:id/report", rc.Report)

				admin := reservations.Group("")
				admin.Use(middleware.RequireAdmin())
				{
					admin.GET("", rc.ListAll)
					admin.PUT("/:id", rc.Update)
					admin.DELETE("/:id", rc.Delete)
				}
			}

			payments := authed.Group("/payments/paypal")
			{
				payments.POST("/create-order", pc.CreateOrder)
				payments.POST("/capture-order", pc.CaptureOrder)
			}

			reports := authed.Group("/reports")
			reports.Use(middleware.RequireAdmin())
			{
				reports.GET("/daily", repc.Daily)
				reports.GET("/weekly", repc.Weekly)
				reports.GET("/monthly", repc.Monthly)
				reports.GET("/welcome", repc.Welcome)
			}
		}
	}

	return r
}
