package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/phillip/edubridge-go/config"
	controllers "github.com/phillip/edubridge-go/controllers"
	middleware "github.com/phillip/edubridge-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"ETag", "Last-Modified"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// public
	r.GET("/", controllers.Root(cfg))

	api := r.Group("/api")
	api.GET("/health", controllers.HealthCheck(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", controllers.Register(cfg))
		authGroup.POST("/login", controllers.Login(cfg))
		authGroup.POST("/refresh", middleware.RefreshMiddleware(cfg), controllers.RefreshToken(cfg))
		authGroup.POST("/logout", auth, controllers.Logout(cfg))
		authGroup.GET("/profile", auth, controllers.GetProfile(cfg))
	}

	users := api.Group("/users")
	users.Use(auth)
	{
		users.GET("/profile", controllers.GetProfile(cfg))
		users.PUT("/profile", controllers.UpdateProfile(cfg))
		users.GET("/stats", controllers.GetUserStats(cfg))
	}

	campaigns := api.Group("/campaigns")
	{
		campaigns.GET("", controllers.ListCampaigns(cfg))
		campaigns.GET("/categories", controllers.GetCategories(cfg))
		campaigns.GET("/stats", controllers.GetCampaignStats(cfg))
		campaigns.GET("/:id", controllers.GetCampaign(cfg))
		campaigns.POST("", auth, controllers.CreateCampaign(cfg))
		campaigns.PUT("/:id", auth, controllers.UpdateCampaign(cfg))
		campaigns.DELETE("/:id", auth, controllers.DeleteCampaign(cfg))
		campaigns.POST("/:id/updates", auth, controllers.AddCampaignUpdate(cfg))
		campaigns.POST("/:id/image", auth, controllers.UploadCampaignImage(cfg))
	}

	donations := api.Group("/donations")
	{
		donations.POST("", auth, controllers.CreateDonation(cfg))
		donations.GET("/campaign/:id", controllers.ListCampaignDonations(cfg))
		donations.GET("/user", auth, controllers.ListUserDonations(cfg))
		donations.GET("/stats", controllers.GetDonationStats(cfg))
	}

	mentors := api.Group("/mentors")
	{
		mentors.GET("", controllers.ListMentors(cfg))
		mentors.GET("/expertise", controllers.GetExpertiseAreas(cfg))
		mentors.GET("/:id", controllers.GetMentor(cfg))
		mentors.POST("/request", auth, controllers.RequestMentorship(cfg))
		mentors.GET("/requests", auth, controllers.ListMentorshipRequests(cfg))
		mentors.POST("/requests/:id/respond", auth, controllers.RespondToRequest(cfg))
		mentors.GET("/mentorships", auth, controllers.ListStudentMentorships(cfg))
		mentors.POST("/mentorships/:id/complete", auth, controllers.CompleteMentorship(cfg))
		mentors.POST("/mentorships/:id/cancel", auth, controllers.CancelMentorship(cfg))
	}
}
