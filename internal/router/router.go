package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/motivatchi/backend/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Pet       *apiHandler.PetHandler
	Social    *apiHandler.SocialHandler
	Task      *apiHandler.TaskHandler
	Challenge *apiHandler.ChallengeHandler
	Event     *apiHandler.EventHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Profile
	r.GET("/api/v1/me", authMiddleware(handlers.Profile.Me))

	// Social graph
	r.POST("/api/v1/follow", authMiddleware(handlers.Social.Follow))
	r.POST("/api/v1/unfollow", authMiddleware(handlers.Social.Unfollow))
	r.POST("/api/v1/remove-follower", authMiddleware(handlers.Social.RemoveFollower))
	r.GET("/api/v1/connections", authMiddleware(handlers.Social.Connections))
	r.GET("/api/v1/following/{username}/coins", authMiddleware(handlers.Social.FollowedCoins))
	r.GET("/api/v1/following/{username}/tamagotchi", authMiddleware(handlers.Pet.FollowedPet))
	r.GET("/api/v1/notifications", authMiddleware(handlers.Social.Notifications))
	r.POST("/api/v1/notifications/{id}/read", authMiddleware(handlers.Social.MarkNotificationRead))

	// Tamagotchi
	r.GET("/api/v1/tamagotchi/health", authMiddleware(handlers.Pet.GetHealth))
	r.POST("/api/v1/tamagotchi/health", authMiddleware(handlers.Pet.UpdateHealth))
	r.POST("/api/v1/tamagotchi/outfits/purchase", authMiddleware(handlers.Pet.PurchaseOutfit))
	r.POST("/api/v1/tamagotchi/outfits/set", authMiddleware(handlers.Pet.SetOutfit))

	// Tasks
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.GET("/api/v1/tasks/analytics", authMiddleware(handlers.Task.Analytics))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.Complete))
	r.POST("/api/v1/tasks/{id}/incomplete", authMiddleware(handlers.Task.MarkIncomplete))

	// Weekly challenge
	r.GET("/api/v1/challenges/weekly", authMiddleware(handlers.Challenge.Weekly))
	r.POST("/api/v1/challenges/join", authMiddleware(handlers.Challenge.Join))
	r.GET("/api/v1/challenges/status", authMiddleware(handlers.Challenge.Status))
	r.GET("/api/v1/challenges/team-members", authMiddleware(handlers.Challenge.TeamMembers))
	r.GET("/api/v1/challenges/team-progress", authMiddleware(handlers.Challenge.TeamProgress))

	// Events
	r.GET("/api/v1/events/leaderboard", authMiddleware(handlers.Event.Leaderboard))

	return r
}
