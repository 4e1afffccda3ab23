package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/api/browse"
	"github.com/pulsefeed/pulse/internal/api/social"
	"github.com/pulsefeed/pulse/internal/auth"
	"github.com/pulsefeed/pulse/internal/cache"
	"github.com/pulsefeed/pulse/internal/db"
	"github.com/pulsefeed/pulse/internal/engine"
	"github.com/pulsefeed/pulse/internal/inbox"
	"github.com/pulsefeed/pulse/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler  *JSONRPCHandler
	db       *db.DB
	cache    *cache.Cache
	resolver auth.Resolver
	engine   *engine.Engine
	inbox    *inbox.Reader
	logger   *zap.Logger
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache, resolver auth.Resolver, eng *engine.Engine, reader *inbox.Reader) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler:  handler,
		db:       database,
		cache:    redisCache,
		resolver: resolver,
		engine:   eng,
		inbox:    reader,
		logger:   logging.GetLogger().With(zap.String("component", "api-router")),
	}

	// Register all API methods
	router.registerMethods()

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// JSON-RPC endpoint, actor resolution first
	engine.POST("/", ActorMiddleware(r.resolver), r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods() {
	repo := db.NewRepository(r.db.DB)

	// Social API: mutations and the notification inbox
	socialAPI := social.NewAPI(r.engine, r.inbox)

	r.handler.RegisterMethod("social.toggle_like", socialAPI.ToggleLike)
	r.handler.RegisterMethod("social.toggle_follow", socialAPI.ToggleFollow)
	r.handler.RegisterMethod("social.create_post", socialAPI.CreatePost)
	r.handler.RegisterMethod("social.delete_post", socialAPI.DeletePost)
	r.handler.RegisterMethod("social.create_comment", socialAPI.CreateComment)
	r.handler.RegisterMethod("social.delete_comment", socialAPI.DeleteComment)
	r.handler.RegisterMethod("social.get_notifications", socialAPI.ListNotifications)
	r.handler.RegisterMethod("social.mark_read", socialAPI.MarkNotificationsRead)
	r.handler.RegisterMethod("social.unread_count", socialAPI.UnreadNotifications)

	// Browse API: feed and profile reads
	browseAPI := browse.NewAPI(repo)

	r.handler.RegisterMethod("browse.get_feed", browseAPI.GetFeed)
	r.handler.RegisterMethod("browse.get_post", browseAPI.GetPost)
	r.handler.RegisterMethod("browse.get_user_posts", browseAPI.GetUserPosts)
	r.handler.RegisterMethod("browse.get_liked_posts", browseAPI.GetLikedPosts)
	r.handler.RegisterMethod("browse.get_profile", browseAPI.GetProfile)
	r.handler.RegisterMethod("browse.get_followers", browseAPI.GetFollowers)
	r.handler.RegisterMethod("browse.get_following", browseAPI.GetFollowing)
	r.handler.RegisterMethod("browse.suggest_users", browseAPI.SuggestUsers)
	r.handler.RegisterMethod("browse.update_profile", browseAPI.UpdateProfile)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "pulse-api",
	})
}
