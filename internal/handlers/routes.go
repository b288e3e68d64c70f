package handlers

import (
	"pulse/internal/middleware"
	"pulse/internal/ws"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all API routes. Session and CORS middleware are
// installed by the caller.
func SetupRoutes(r *gin.Engine, hub *ws.Hub, limiter *middleware.IPRateLimiter) {
	r.Use(middleware.LoadUser())

	authHandler := NewAuthHandler()
	feedHandler := NewFeedHandler(hub)
	likeHandler := NewLikeHandler(hub)
	leaderboardHandler := NewLeaderboardHandler()

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/posts", feedHandler.List)
		api.GET("/posts/:id", feedHandler.Detail)
		api.GET("/leaderboard", leaderboardHandler.List)

		// Protected routes
		authorized := api.Group("")
		authorized.Use(middleware.AuthRequired())
		{
			authorized.GET("/me", authHandler.Me)
			authorized.POST("/posts", middleware.RateLimit(limiter), feedHandler.Create)
			authorized.POST("/posts/:id/comments", middleware.RateLimit(limiter), feedHandler.CreateComment)
			authorized.POST("/posts/:id/like", likeHandler.LikePost)
			authorized.POST("/comments/:id/like", likeHandler.LikeComment)
		}
	}

	// Live feed events
	r.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c.Writer, c.Request)
	})
}
