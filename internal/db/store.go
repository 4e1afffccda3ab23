package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/pulsefeed/pulse/internal/engine"
	"github.com/pulsefeed/pulse/internal/models"
)

// Store exposes the repositories through the interfaces the engine and the
// inbox consume. Atomic rebinds the repositories to a transaction handle, so
// the same methods serve both transactional and standalone access.
type Store struct {
	repo *Repository
}

// NewStore creates a store over an open database connection
func NewStore(d *DB) *Store {
	return &Store{repo: NewRepository(d.DB)}
}

var _ engine.Store = (*Store)(nil)

// Atomic runs fn inside one database transaction. Any error from fn rolls
// the whole unit back.
func (s *Store) Atomic(ctx context.Context, fn func(tx engine.Tx) error) error {
	return s.repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{repo: NewRepository(tx)})
	})
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return NewUserRepository(s.repo).GetByID(ctx, id)
}

func (s *Store) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return NewPostRepository(s.repo).GetByID(ctx, id)
}

func (s *Store) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return NewCommentRepository(s.repo).GetByID(ctx, id)
}

func (s *Store) GetLike(ctx context.Context, userID, postID int64) (*models.Like, error) {
	return NewLikeRepository(s.repo).Get(ctx, userID, postID)
}

func (s *Store) CreateLike(ctx context.Context, like *models.Like) error {
	return NewLikeRepository(s.repo).Create(ctx, like)
}

func (s *Store) DeleteLike(ctx context.Context, userID, postID int64) error {
	return NewLikeRepository(s.repo).Delete(ctx, userID, postID)
}

func (s *Store) GetFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error) {
	return NewFollowRepository(s.repo).Get(ctx, followerID, followeeID)
}

func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return NewFollowRepository(s.repo).Create(ctx, follow)
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	return NewFollowRepository(s.repo).Delete(ctx, followerID, followeeID)
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return NewPostRepository(s.repo).Create(ctx, post)
}

func (s *Store) DeletePost(ctx context.Context, id int64) error {
	return NewPostRepository(s.repo).Delete(ctx, id)
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return NewCommentRepository(s.repo).Create(ctx, comment)
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	return NewCommentRepository(s.repo).Delete(ctx, id)
}

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	return NewNotificationRepository(s.repo).Create(ctx, notification)
}

func (s *Store) FindNotification(ctx context.Context, recipientID int64, kind models.NotificationKind, creatorID, postID int64) (*models.Notification, error) {
	return NewNotificationRepository(s.repo).Find(ctx, recipientID, kind, creatorID, postID)
}

// Inbox-facing reads

func (s *Store) ListByRecipient(ctx context.Context, recipientID, beforeID int64, limit int) ([]*models.Notification, error) {
	return NewNotificationRepository(s.repo).ListByRecipient(ctx, recipientID, beforeID, limit)
}

func (s *Store) MarkRead(ctx context.Context, recipientID int64, ids []int64) (int64, error) {
	return NewNotificationRepository(s.repo).MarkRead(ctx, recipientID, ids)
}

func (s *Store) CountUnread(ctx context.Context, recipientID int64) (int64, error) {
	return NewNotificationRepository(s.repo).CountUnread(ctx, recipientID)
}
