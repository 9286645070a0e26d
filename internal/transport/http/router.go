package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"warbler/internal/handler"
	"warbler/internal/httputil"
	authmw "warbler/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	FollowHandler  *handler.FollowHandler
	MessageHandler *handler.MessageHandler
	FeedHandler    *handler.FeedHandler
	JWTSecret      string
}

// NewRouter creates and configures a Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
	})

	// Public endpoints with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/users", cfg.UserHandler.Search)
		r.Get("/users/{id}", cfg.UserHandler.GetProfile)
		r.Get("/users/{id}/messages", cfg.UserHandler.GetMessages)
		r.Get("/messages/{id}", cfg.MessageHandler.GetByID)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user
		r.Get("/me", cfg.AuthHandler.Me)
		r.Patch("/me", cfg.UserHandler.UpdateProfile)
		r.Delete("/me", cfg.UserHandler.DeleteAccount)

		// Auth actions that require authentication
		r.Post("/auth/logout", cfg.AuthHandler.Logout)
		r.Post("/auth/logout-all", cfg.AuthHandler.LogoutAll)

		// Follow graph listings are sign-in only, like the original pages
		r.Get("/users/{id}/followers", cfg.FollowHandler.GetFollowers)
		r.Get("/users/{id}/following", cfg.FollowHandler.GetFollowing)
		r.Get("/users/{id}/likes", cfg.UserHandler.GetLikes)

		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		// Messages
		r.Post("/messages", cfg.MessageHandler.Create)
		r.Delete("/messages/{id}", cfg.MessageHandler.Delete)
		r.Post("/messages/{id}/like", cfg.MessageHandler.ToggleLike)

		// Home feed
		r.Get("/feed", cfg.FeedHandler.GetFeed)
	})

	return r
}
