// Package social exposes the relationship-toggle and inbox operations over
// JSON-RPC. Every method resolves the actor from the request context; the
// engine and the inbox enforce who may do what.
package social

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/api/params"
	"github.com/pulsefeed/pulse/internal/engine"
	"github.com/pulsefeed/pulse/internal/inbox"
	"github.com/pulsefeed/pulse/pkg/logging"
)

// API provides the social.* JSON-RPC methods
type API struct {
	engine *engine.Engine
	inbox  *inbox.Reader
	logger *zap.Logger
}

// NewAPI creates a new social API
func NewAPI(eng *engine.Engine, reader *inbox.Reader) *API {
	return &API{
		engine: eng,
		inbox:  reader,
		logger: logging.GetLogger().With(zap.String("component", "social-api")),
	}
}

// ToggleLike handles social.toggle_like
func (a *API) ToggleLike(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID int64 `json:"post_id" validate:"required,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	liked, err := a.engine.ToggleLike(ctx.Request.Context(), params.Actor(ctx), p.PostID)
	if err != nil {
		return nil, err
	}
	return gin.H{"post_id": p.PostID, "liked": liked}, nil
}

// ToggleFollow handles social.toggle_follow
func (a *API) ToggleFollow(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		UserID int64 `json:"user_id" validate:"required,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	following, err := a.engine.ToggleFollow(ctx.Request.Context(), params.Actor(ctx), p.UserID)
	if err != nil {
		return nil, err
	}
	return gin.H{"user_id": p.UserID, "following": following}, nil
}

// CreatePost handles social.create_post
func (a *API) CreatePost(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		Content string `json:"content" validate:"required"`
		Image   string `json:"image"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	post, err := a.engine.CreatePost(ctx.Request.Context(), params.Actor(ctx), p.Content, p.Image)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":         post.ID,
		"author_id":  post.AuthorID,
		"content":    post.Content,
		"image":      post.Image,
		"created_at": post.CreatedAt,
	}, nil
}

// DeletePost handles social.delete_post
func (a *API) DeletePost(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID int64 `json:"post_id" validate:"required,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	if err := a.engine.DeletePost(ctx.Request.Context(), params.Actor(ctx), p.PostID); err != nil {
		return nil, err
	}
	return gin.H{"post_id": p.PostID, "deleted": true}, nil
}

// CreateComment handles social.create_comment
func (a *API) CreateComment(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		PostID  int64  `json:"post_id" validate:"required,gt=0"`
		Content string `json:"content" validate:"required"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	comment, err := a.engine.CreateComment(ctx.Request.Context(), params.Actor(ctx), p.PostID, p.Content)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":         comment.ID,
		"post_id":    comment.PostID,
		"author_id":  comment.AuthorID,
		"content":    comment.Content,
		"created_at": comment.CreatedAt,
	}, nil
}

// DeleteComment handles social.delete_comment
func (a *API) DeleteComment(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		CommentID int64 `json:"comment_id" validate:"required,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	if err := a.engine.DeleteComment(ctx.Request.Context(), params.Actor(ctx), p.CommentID); err != nil {
		return nil, err
	}
	return gin.H{"comment_id": p.CommentID, "deleted": true}, nil
}

// ListNotifications handles social.get_notifications
func (a *API) ListNotifications(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		BeforeID int64 `json:"before_id" validate:"gte=0"`
		Limit    int   `json:"limit" validate:"gte=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	views, err := a.inbox.List(ctx.Request.Context(), params.Actor(ctx), p.BeforeID, p.Limit)
	if err != nil {
		return nil, err
	}
	return gin.H{"notifications": views}, nil
}

// MarkNotificationsRead handles social.mark_read
func (a *API) MarkNotificationsRead(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	var p struct {
		IDs []int64 `json:"ids" validate:"dive,gt=0"`
	}
	if err := params.Decode(raw, &p); err != nil {
		return nil, err
	}

	updated, err := a.inbox.MarkRead(ctx.Request.Context(), params.Actor(ctx), p.IDs)
	if err != nil {
		return nil, err
	}
	return gin.H{"updated": updated}, nil
}

// UnreadNotifications handles social.unread_count
func (a *API) UnreadNotifications(ctx *gin.Context, raw json.RawMessage) (interface{}, error) {
	count, err := a.inbox.UnreadCount(ctx.Request.Context(), params.Actor(ctx))
	if err != nil {
		return nil, err
	}
	return gin.H{"unread": count}, nil
}
