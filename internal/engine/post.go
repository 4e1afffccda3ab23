package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/models"
)

// MaxPostLength bounds post content.
const MaxPostLength = 2000

// CreatePost inserts a post for the actor. Posts carry no notification
// side effect.
func (e *Engine) CreatePost(ctx context.Context, actorID int64, content, image string) (*models.Post, error) {
	const op = "engine.create_post"
	if actorID <= 0 {
		return nil, E(KindUnauthenticated, op, "no resolved actor")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, E(KindInvalidArgument, op, "post content is empty")
	}
	if len(content) > MaxPostLength {
		return nil, E(KindInvalidArgument, op, "post content too long")
	}

	post := &models.Post{
		AuthorID:  actorID,
		Content:   content,
		Image:     image,
		CreatedAt: e.now(),
		UpdatedAt: e.now(),
	}
	err := e.store.Atomic(ctx, func(tx Tx) error {
		return tx.CreatePost(ctx, post)
	})
	if err != nil {
		return nil, wrapStorage(op, err)
	}

	e.logger.Debug("created post",
		zap.Int64("actor_id", actorID),
		zap.Int64("post_id", post.ID))

	return post, nil
}

// DeletePost removes a post. Only the post's author may delete it. Comment
// and like rows cascade at the storage layer; notifications referencing the
// post are left in place and render as unavailable content.
func (e *Engine) DeletePost(ctx context.Context, actorID, postID int64) error {
	const op = "engine.delete_post"
	if actorID <= 0 {
		return E(KindUnauthenticated, op, "no resolved actor")
	}

	err := e.store.Atomic(ctx, func(tx Tx) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return E(KindNotFound, op, "post not found")
		}
		if post.AuthorID != actorID {
			return E(KindUnauthorized, op, "only the author may delete a post")
		}
		return tx.DeletePost(ctx, postID)
	})
	if err != nil {
		return wrapStorage(op, err)
	}

	e.logger.Debug("deleted post",
		zap.Int64("actor_id", actorID),
		zap.Int64("post_id", postID))

	return nil
}
