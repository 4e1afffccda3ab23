package engine

import (
	"context"
	"database/sql"
	"strings"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/models"
)

// MaxCommentLength bounds comment content, matching the column budget.
const MaxCommentLength = 500

// CreateComment inserts a comment and, unless the actor authored the post,
// a COMMENT notification referencing both the post and the new comment.
// Both writes share one atomic unit.
func (e *Engine) CreateComment(ctx context.Context, actorID, postID int64, content string) (*models.Comment, error) {
	const op = "engine.create_comment"
	if actorID <= 0 {
		return nil, E(KindUnauthenticated, op, "no resolved actor")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, E(KindInvalidArgument, op, "comment content is empty")
	}
	if len(content) > MaxCommentLength {
		return nil, E(KindInvalidArgument, op, "comment content too long")
	}

	var (
		comment   *models.Comment
		recipient int64
	)
	err := e.store.Atomic(ctx, func(tx Tx) error {
		post, err := tx.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return E(KindNotFound, op, "post not found")
		}

		c := &models.Comment{
			AuthorID:  actorID,
			PostID:    postID,
			Content:   content,
			CreatedAt: e.now(),
		}
		if err := tx.CreateComment(ctx, c); err != nil {
			return err
		}

		if post.AuthorID != actorID {
			if err := e.notify(ctx, tx, &models.Notification{
				UserID:    post.AuthorID,
				Kind:      models.KindComment,
				CreatorID: actorID,
				CreatedAt: e.now(),
				PostID:    sql.NullInt64{Int64: postID, Valid: true},
				CommentID: sql.NullInt64{Int64: c.ID, Valid: true},
			}); err != nil {
				return err
			}
			recipient = post.AuthorID
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, wrapStorage(op, err)
	}

	e.invalidateUnread(ctx, recipient)

	e.logger.Debug("created comment",
		zap.Int64("actor_id", actorID),
		zap.Int64("post_id", postID),
		zap.Int64("comment_id", comment.ID))

	return comment, nil
}

// DeleteComment removes a comment. Only the comment's author may delete it.
// Previously emitted COMMENT notifications are not retracted; readers
// tolerate the dangling reference.
func (e *Engine) DeleteComment(ctx context.Context, actorID, commentID int64) error {
	const op = "engine.delete_comment"
	if actorID <= 0 {
		return E(KindUnauthenticated, op, "no resolved actor")
	}

	err := e.store.Atomic(ctx, func(tx Tx) error {
		comment, err := tx.GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		if comment == nil {
			return E(KindNotFound, op, "comment not found")
		}
		if comment.AuthorID != actorID {
			return E(KindUnauthorized, op, "only the author may delete a comment")
		}
		return tx.DeleteComment(ctx, commentID)
	})
	if err != nil {
		return wrapStorage(op, err)
	}

	e.logger.Debug("deleted comment",
		zap.Int64("actor_id", actorID),
		zap.Int64("comment_id", commentID))

	return nil
}
