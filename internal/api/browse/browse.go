// Package browse exposes the read side of the feed over JSON-RPC: the global
// feed, per-user posts, profiles and follower listings. All methods are
// readable without a session; the resolved actor only personalizes the
// output and gates profile updates.
package browse

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/api/params"
	"github.com/pulsefeed/pulse/internal/db"
	"github.com/pulsefeed/pulse/internal/engine"
	"github.com/pulsefeed/pulse/internal/models"
	"github.com/pulsefeed/pulse/pkg/logging"
)

// DefaultPageSize caps list responses when the caller does not ask for less.
const DefaultPageSize = 20

// MaxPageSize is the hard upper bound on list responses.
const MaxPageSize = 100

// API provides the browse.* JSON-RPC methods
type API struct {
	repo   *db.Repository
	logger *zap.Logger
}

// NewAPI creates a new browse API
func NewAPI(repo *db.Repository) *API {
	return &API{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "browse-api")),
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// GetFeed handles browse.get_feed
func (a *API) GetFeed(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		BeforeID int64 `json:"before_id" validate:"gte=0"`
		Limit    int   `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	posts, err := db.NewPostRepository(a.repo).ListRecent(ctx.Request.Context(), p.BeforeID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	return gin.H{"posts": renderPosts(posts, params.Actor(ctx))}, nil
}

// GetPost handles browse.get_post
func (a *API) GetPost(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.get_post"
	var p struct {
		PostID int64 `json:"post_id" validate:"required,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	post, err := db.NewPostRepository(a.repo).GetByIDWithRelations(ctx.Request.Context(), p.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, engine.E(engine.KindNotFound, op, "post not found")
	}
	return renderPost(post, params.Actor(ctx)), nil
}

// GetUserPosts handles browse.get_user_posts
func (a *API) GetUserPosts(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.get_user_posts"
	var p struct {
		Username string `json:"username" validate:"required"`
		BeforeID int64  `json:"before_id" validate:"gte=0"`
		Limit    int    `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	user, err := db.NewUserRepository(a.repo).GetByUsername(ctx.Request.Context(), p.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.E(engine.KindNotFound, op, "user not found")
	}

	posts, err := db.NewPostRepository(a.repo).ListByAuthor(ctx.Request.Context(), user.ID, p.BeforeID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	return gin.H{"posts": renderPosts(posts, params.Actor(ctx))}, nil
}

// GetLikedPosts handles browse.get_liked_posts
func (a *API) GetLikedPosts(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.get_liked_posts"
	var p struct {
		Username string `json:"username" validate:"required"`
		Limit    int    `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	user, err := db.NewUserRepository(a.repo).GetByUsername(ctx.Request.Context(), p.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.E(engine.KindNotFound, op, "user not found")
	}

	posts, err := db.NewPostRepository(a.repo).ListLikedBy(ctx.Request.Context(), user.ID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	return gin.H{"posts": renderPosts(posts, params.Actor(ctx))}, nil
}

// GetProfile handles browse.get_profile
func (a *API) GetProfile(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.get_profile"
	var p struct {
		Username string `json:"username" validate:"required"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}
	reqCtx := ctx.Request.Context()

	user, err := db.NewUserRepository(a.repo).GetByUsername(reqCtx, p.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.E(engine.KindNotFound, op, "user not found")
	}

	followRepo := db.NewFollowRepository(a.repo)
	followers, err := followRepo.CountFollowers(reqCtx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := followRepo.CountFollowing(reqCtx, user.ID)
	if err != nil {
		return nil, err
	}
	postCount, err := db.NewPostRepository(a.repo).CountByAuthor(reqCtx, user.ID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if actorID := params.Actor(ctx); actorID != 0 {
		edge, err := followRepo.Get(reqCtx, actorID, user.ID)
		if err != nil {
			return nil, err
		}
		isFollowing = edge != nil
	}

	return gin.H{
		"id":           user.ID,
		"username":     user.Username,
		"name":         user.Name,
		"image":        user.Image,
		"bio":          user.Bio.String,
		"location":     user.Location.String,
		"website":      user.Website.String,
		"created_at":   user.CreatedAt,
		"followers":    followers,
		"following":    following,
		"posts":        postCount,
		"is_following": isFollowing,
	}, nil
}

// GetFollowers handles browse.get_followers
func (a *API) GetFollowers(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	return a.listFollowEdges(ctx, raw, "browse.get_followers", db.NewFollowRepository(a.repo).ListFollowers)
}

// GetFollowing handles browse.get_following
func (a *API) GetFollowing(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	return a.listFollowEdges(ctx, raw, "browse.get_following", db.NewFollowRepository(a.repo).ListFollowing)
}

func (a *API) listFollowEdges(ctx *gin.Context, raw json.RawMessage, op string,
	list func(ctx context.Context, userID int64, limit int) ([]*models.User, error)) (interface{}, error) {
	var p struct {
		Username string `json:"username" validate:"required"`
		Limit    int    `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	user, err := db.NewUserRepository(a.repo).GetByUsername(ctx.Request.Context(), p.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.E(engine.KindNotFound, op, "user not found")
	}

	users, err := list(ctx.Request.Context(), user.ID, clampLimit(p.Limit))
	if err != nil {
		return nil, err
	}
	return gin.H{"users": renderUsers(users)}, nil
}

// SuggestUsers handles browse.suggest_users
func (a *API) SuggestUsers(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.suggest_users"
	var p struct {
		Limit int `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	actorID := params.Actor(ctx)
	if actorID <= 0 {
		return nil, engine.E(engine.KindUnauthenticated, op, "no resolved actor")
	}

	limit := p.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = 3
	}
	users, err := db.NewUserRepository(a.repo).Suggest(ctx.Request.Context(), actorID, limit)
	if err != nil {
		return nil, err
	}
	return gin.H{"users": renderUsers(users)}, nil
}

// UpdateProfile handles browse.update_profile
func (a *API) UpdateProfile(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	const op = "browse.update_profile"
	var p struct {
		Name     *string `json:"name" validate:"omitempty,max=50"`
		Bio      *string `json:"bio" validate:"omitempty,max=160"`
		Location *string `json:"location" validate:"omitempty,max=30"`
		Website  *string `json:"website" validate:"omitempty,max=100"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	actorID := params.Actor(ctx)
	if actorID <= 0 {
		return nil, engine.E(engine.KindUnauthenticated, op, "no resolved actor")
	}

	userRepo := db.NewUserRepository(a.repo)
	user, err := userRepo.GetByID(ctx.Request.Context(), actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, engine.E(engine.KindNotFound, op, "user not found")
	}

	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Bio != nil {
		user.Bio = sql.NullString{String: *p.Bio, Valid: *p.Bio != ""}
	}
	if p.Location != nil {
		user.Location = sql.NullString{String: *p.Location, Valid: *p.Location != ""}
	}
	if p.Website != nil {
		user.Website = sql.NullString{String: *p.Website, Valid: *p.Website != ""}
	}

	if err := userRepo.Update(ctx.Request.Context(), user); err != nil {
		return nil, err
	}

	a.logger.Debug("updated profile", zap.Int64("user_id", user.ID))

	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"name":     user.Name,
		"bio":      user.Bio.String,
		"location": user.Location.String,
		"website":  user.Website.String,
	}, nil
}
