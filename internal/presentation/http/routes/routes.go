// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/AtRiskMedia/fanhub-go/internal/application/container"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/metrics"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/handlers"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/middleware"
	"github.com/AtRiskMedia/fanhub-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(container.Logger))
	r.Use(middleware.CORSMiddleware(container.CORSOrigins))

	r.Static(config.MediaURLPrefix, container.Images.BasePath())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.Logger, container.PerfTracker, config.CookieSecure)
	profileHandlers := handlers.NewProfileHandlers(container.ProfileService, container.Logger, container.PerfTracker)
	contentHandlers := handlers.NewContentHandlers(container.ContentService, container.Logger, container.PerfTracker)
	communityHandlers := handlers.NewCommunityHandlers(container.CommunityService, container.Logger, container.PerfTracker)
	liveHandlers := handlers.NewLiveHandlers(container.FeedHub, container.CORSOrigins, container.Logger, container.PerfTracker)
	merchHandlers := handlers.NewMerchHandlers(container.CatalogService, container.Logger, container.PerfTracker)
	cartHandlers := handlers.NewCartHandlers(container.CartService, container.Logger, container.PerfTracker)
	homeHandlers := handlers.NewHomeHandlers(container.HomeService, container.Logger, container.PerfTracker)
	systemHandlers := handlers.NewSystemHandlers(
		container.DB,
		container.FeedHub,
		container.CleanupWorker,
		container.CleanupReporter,
		container.Logger,
		container.PerfTracker,
	)

	r.GET("/health", systemHandlers.GetHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.POST("/auth/signup", authHandlers.PostSignUp)
		api.POST("/auth/signin", authHandlers.PostSignIn)
	}

	// Everything else needs a live session
	member := api.Group("")
	member.Use(middleware.RequireSession(container.AuthService, container.Logger))
	{
		member.POST("/auth/signout", authHandlers.PostSignOut)
		member.GET("/auth/session", authHandlers.GetSession)
		member.PUT("/auth/onboarding", authHandlers.PutOnboarding)

		member.GET("/profile", profileHandlers.GetProfile)
		member.POST("/profile/avatar", profileHandlers.PostAvatar)

		member.GET("/home", homeHandlers.GetHome)

		member.GET("/content", contentHandlers.GetContent)
		member.GET("/content/featured", contentHandlers.GetFeatured)
		member.POST("/content/:id/like", contentHandlers.PostLike)

		community := member.Group("/community")
		{
			community.GET("/posts", communityHandlers.GetPosts)
			community.POST("/posts", communityHandlers.PostPost)
			community.DELETE("/posts/:id", communityHandlers.DeletePost)
			community.POST("/posts/:id/like", communityHandlers.PostLike)
			community.GET("/posts/:id/comments", communityHandlers.GetComments)
			community.POST("/posts/:id/comments", communityHandlers.PostComment)
			community.GET("/live", liveHandlers.GetLive)
		}

		merch := member.Group("/merch")
		{
			merch.GET("/products", merchHandlers.GetProducts)
			merch.GET("/products/:id", merchHandlers.GetProduct)
			merch.POST("/products/:id/resolve", merchHandlers.PostResolve)
		}

		cart := member.Group("/cart")
		{
			cart.GET("", cartHandlers.GetCart)
			cart.DELETE("", cartHandlers.DeleteCart)
			cart.POST("/items", cartHandlers.PostItem)
			cart.PATCH("/items/:lineId", cartHandlers.PatchItem)
			cart.DELETE("/items/:lineId", cartHandlers.DeleteItem)
		}

		admin := member.Group("/admin")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/logs/levels", systemHandlers.GetLogLevels)
			admin.PUT("/logs/levels", systemHandlers.PutLogLevel)
			admin.GET("/performance", systemHandlers.GetPerformance)
			admin.POST("/cleanup", systemHandlers.PostCleanup)
		}
	}

	return r
}
