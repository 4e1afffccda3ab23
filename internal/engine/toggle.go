package engine

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/models"
)

// ToggleLike flips the actor's like state on a post. On absent→present the
// like row and (unless the actor authored the post) a LIKE notification
// commit in one atomic unit; on present→absent only the like row is removed
// and notifications stay untouched.
func (e *Engine) ToggleLike(ctx context.Context, actorID, postID int64) (bool, error) {
	const op = "engine.toggle_like"
	if actorID <= 0 {
		return false, E(KindUnauthenticated, op, "no resolved actor")
	}

	var (
		liked     bool
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

		existing, err := tx.GetLike(ctx, actorID, postID)
		if err != nil {
			return err
		}
		if existing != nil {
			// present → absent: delete only, never retract notifications
			if err := tx.DeleteLike(ctx, actorID, postID); err != nil {
				return err
			}
			liked = false
			return nil
		}

		// absent → present
		if err := tx.CreateLike(ctx, &models.Like{
			UserID:    actorID,
			PostID:    postID,
			CreatedAt: e.now(),
		}); err != nil {
			return err
		}

		if post.AuthorID != actorID {
			if err := e.notify(ctx, tx, &models.Notification{
				UserID:    post.AuthorID,
				Kind:      models.KindLike,
				CreatorID: actorID,
				CreatedAt: e.now(),
				PostID:    sql.NullInt64{Int64: postID, Valid: true},
			}); err != nil {
				return err
			}
			recipient = post.AuthorID
		}
		liked = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			// Lost the insert race: a concurrent toggle created the row and
			// its notification. Observe the committed state instead of
			// surfacing the constraint violation.
			return e.observeLike(ctx, op, actorID, postID)
		}
		return false, wrapStorage(op, err)
	}

	e.invalidateUnread(ctx, recipient)

	e.logger.Debug("toggled like",
		zap.Int64("actor_id", actorID),
		zap.Int64("post_id", postID),
		zap.Bool("liked", liked))

	return liked, nil
}

func (e *Engine) observeLike(ctx context.Context, op string, actorID, postID int64) (bool, error) {
	existing, err := e.store.GetLike(ctx, actorID, postID)
	if err != nil {
		return false, wrapStorage(op, err)
	}
	return existing != nil, nil
}

// ToggleFollow flips the actor's follow edge toward a target user. The same
// atomic coupling as ToggleLike applies, with a FOLLOW notification for the
// target. Self-follows are rejected before any storage access.
func (e *Engine) ToggleFollow(ctx context.Context, actorID, targetID int64) (bool, error) {
	const op = "engine.toggle_follow"
	if actorID <= 0 {
		return false, E(KindUnauthenticated, op, "no resolved actor")
	}
	if actorID == targetID {
		return false, E(KindInvalidOperation, op, "cannot follow yourself")
	}

	var (
		following bool
		recipient int64
	)
	err := e.store.Atomic(ctx, func(tx Tx) error {
		target, err := tx.GetUser(ctx, targetID)
		if err != nil {
			return err
		}
		if target == nil {
			return E(KindNotFound, op, "user not found")
		}

		existing, err := tx.GetFollow(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := tx.DeleteFollow(ctx, actorID, targetID); err != nil {
				return err
			}
			following = false
			return nil
		}

		if err := tx.CreateFollow(ctx, &models.Follow{
			FollowerID: actorID,
			FolloweeID: targetID,
			CreatedAt:  e.now(),
		}); err != nil {
			return err
		}

		if err := e.notify(ctx, tx, &models.Notification{
			UserID:    targetID,
			Kind:      models.KindFollow,
			CreatorID: actorID,
			CreatedAt: e.now(),
		}); err != nil {
			return err
		}
		recipient = targetID
		following = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return e.observeFollow(ctx, op, actorID, targetID)
		}
		return false, wrapStorage(op, err)
	}

	e.invalidateUnread(ctx, recipient)

	e.logger.Debug("toggled follow",
		zap.Int64("actor_id", actorID),
		zap.Int64("target_id", targetID),
		zap.Bool("following", following))

	return following, nil
}

func (e *Engine) observeFollow(ctx context.Context, op string, actorID, targetID int64) (bool, error) {
	existing, err := e.store.GetFollow(ctx, actorID, targetID)
	if err != nil {
		return false, wrapStorage(op, err)
	}
	return existing != nil, nil
}
