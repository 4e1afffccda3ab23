package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pulsefeed/pulse/internal/models"
)

// errInjected simulates an unavailable store.
var errInjected = errors.New("injected store failure")

type likeKey struct{ userID, postID int64 }
type followKey struct{ followerID, followeeID int64 }

// memStore is an in-memory Store with the same contract as the database
// implementation: composite-key uniqueness on likes and follows, (nil, nil)
// for absent rows, ErrDuplicateKey on insert races and all-or-nothing
// atomic units.
type memStore struct {
	mu            sync.Mutex
	users         map[int64]*models.User
	posts         map[int64]*models.Post
	comments      map[int64]*models.Comment
	likes         map[likeKey]*models.Like
	follows       map[followKey]*models.Follow
	notifications []*models.Notification
	nextID        int64

	// staleToggleReads makes like/follow lookups inside an atomic unit
	// report absent, simulating N writers that all read before any of them
	// wrote. The uniqueness constraint still holds, so losers observe
	// ErrDuplicateKey exactly like a lost database race.
	staleToggleReads bool

	// failCreateNotification simulates a store fault between the relation
	// insert and the notification insert.
	failCreateNotification bool
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*models.User),
		posts:    make(map[int64]*models.Post),
		comments: make(map[int64]*models.Comment),
		likes:    make(map[likeKey]*models.Like),
		follows:  make(map[followKey]*models.Follow),
	}
}

// Test fixtures

func (s *memStore) addUser(username string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &models.User{ID: s.nextID, Name: username, Username: username, CreatedAt: time.Now()}
	s.users[u.ID] = u
	return u
}

func (s *memStore) addPost(authorID int64, content string) *models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p := &models.Post{ID: s.nextID, AuthorID: authorID, Content: content, CreatedAt: time.Now()}
	s.posts[p.ID] = p
	return p
}

func (s *memStore) likeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes)
}

func (s *memStore) followCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.follows)
}

func (s *memStore) commentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

func (s *memStore) notificationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notifications)
}

func (s *memStore) notificationAt(i int) *models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifications[i]
}

// snapshot/restore give Atomic its rollback semantics.

type memSnapshot struct {
	posts         map[int64]*models.Post
	comments      map[int64]*models.Comment
	likes         map[likeKey]*models.Like
	follows       map[followKey]*models.Follow
	notifications []*models.Notification
	nextID        int64
}

func (s *memStore) snapshotLocked() memSnapshot {
	snap := memSnapshot{
		posts:         make(map[int64]*models.Post, len(s.posts)),
		comments:      make(map[int64]*models.Comment, len(s.comments)),
		likes:         make(map[likeKey]*models.Like, len(s.likes)),
		follows:       make(map[followKey]*models.Follow, len(s.follows)),
		notifications: append([]*models.Notification(nil), s.notifications...),
		nextID:        s.nextID,
	}
	for k, v := range s.posts {
		snap.posts[k] = v
	}
	for k, v := range s.comments {
		snap.comments[k] = v
	}
	for k, v := range s.likes {
		snap.likes[k] = v
	}
	for k, v := range s.follows {
		snap.follows[k] = v
	}
	return snap
}

func (s *memStore) restoreLocked(snap memSnapshot) {
	s.posts = snap.posts
	s.comments = snap.comments
	s.likes = snap.likes
	s.follows = snap.follows
	s.notifications = snap.notifications
	s.nextID = snap.nextID
}

// Atomic runs fn against the store under the lock; any error restores the
// pre-unit state, so no partial writes survive.
func (s *memStore) Atomic(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	if err := fn(&memTx{s: s}); err != nil {
		s.restoreLocked(snap)
		return err
	}
	return nil
}

// Unlocked operation cores, shared by the direct reads and the tx view.

func (s *memStore) getUserLocked(id int64) *models.User       { return s.users[id] }
func (s *memStore) getPostLocked(id int64) *models.Post       { return s.posts[id] }
func (s *memStore) getCommentLocked(id int64) *models.Comment { return s.comments[id] }

func (s *memStore) getLikeLocked(userID, postID int64) *models.Like {
	return s.likes[likeKey{userID, postID}]
}

func (s *memStore) getFollowLocked(followerID, followeeID int64) *models.Follow {
	return s.follows[followKey{followerID, followeeID}]
}

func (s *memStore) createLikeLocked(like *models.Like) error {
	key := likeKey{like.UserID, like.PostID}
	if _, ok := s.likes[key]; ok {
		return fmt.Errorf("insert like: %w", ErrDuplicateKey)
	}
	s.likes[key] = like
	return nil
}

func (s *memStore) createFollowLocked(follow *models.Follow) error {
	key := followKey{follow.FollowerID, follow.FolloweeID}
	if _, ok := s.follows[key]; ok {
		return fmt.Errorf("insert follow: %w", ErrDuplicateKey)
	}
	s.follows[key] = follow
	return nil
}

func (s *memStore) createNotificationLocked(n *models.Notification) error {
	if s.failCreateNotification {
		return errInjected
	}
	s.nextID++
	n.ID = s.nextID
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *memStore) findNotificationLocked(recipientID int64, kind models.NotificationKind, creatorID, postID int64) *models.Notification {
	for _, n := range s.notifications {
		if n.UserID != recipientID || n.Kind != kind || n.CreatorID != creatorID {
			continue
		}
		if postID == 0 && n.PostID.Valid {
			continue
		}
		if postID != 0 && (!n.PostID.Valid || n.PostID.Int64 != postID) {
			continue
		}
		return n
	}
	return nil
}

func (s *memStore) deletePostLocked(id int64) {
	delete(s.posts, id)
	// storage-layer cascade
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
	for k := range s.likes {
		if k.postID == id {
			delete(s.likes, k)
		}
	}
}

// Direct (non-transactional) Store reads, used by the engine to observe
// state after a lost race.

func (s *memStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getUserLocked(id), nil
}

func (s *memStore) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPostLocked(id), nil
}

func (s *memStore) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCommentLocked(id), nil
}

func (s *memStore) GetLike(ctx context.Context, userID, postID int64) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLikeLocked(userID, postID), nil
}

func (s *memStore) CreateLike(ctx context.Context, like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLikeLocked(like)
}

func (s *memStore) DeleteLike(ctx context.Context, userID, postID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, likeKey{userID, postID})
	return nil
}

func (s *memStore) GetFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getFollowLocked(followerID, followeeID), nil
}

func (s *memStore) CreateFollow(ctx context.Context, follow *models.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createFollowLocked(follow)
}

func (s *memStore) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.follows, followKey{followerID, followeeID})
	return nil
}

func (s *memStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	post.ID = s.nextID
	s.posts[post.ID] = post
	return nil
}

func (s *memStore) DeletePost(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletePostLocked(id)
	return nil
}

func (s *memStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	comment.ID = s.nextID
	s.comments[comment.ID] = comment
	return nil
}

func (s *memStore) DeleteComment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.comments, id)
	return nil
}

func (s *memStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createNotificationLocked(n)
}

func (s *memStore) FindNotification(ctx context.Context, recipientID int64, kind models.NotificationKind, creatorID, postID int64) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findNotificationLocked(recipientID, kind, creatorID, postID), nil
}

// memTx is the Tx view handed to Atomic callbacks. The store lock is held
// for the whole unit, so these must not re-lock.
type memTx struct {
	s *memStore
}

func (t *memTx) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return t.s.getUserLocked(id), nil
}

func (t *memTx) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	return t.s.getPostLocked(id), nil
}

func (t *memTx) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	return t.s.getCommentLocked(id), nil
}

func (t *memTx) GetLike(ctx context.Context, userID, postID int64) (*models.Like, error) {
	if t.s.staleToggleReads {
		return nil, nil
	}
	return t.s.getLikeLocked(userID, postID), nil
}

func (t *memTx) CreateLike(ctx context.Context, like *models.Like) error {
	return t.s.createLikeLocked(like)
}

func (t *memTx) DeleteLike(ctx context.Context, userID, postID int64) error {
	delete(t.s.likes, likeKey{userID, postID})
	return nil
}

func (t *memTx) GetFollow(ctx context.Context, followerID, followeeID int64) (*models.Follow, error) {
	if t.s.staleToggleReads {
		return nil, nil
	}
	return t.s.getFollowLocked(followerID, followeeID), nil
}

func (t *memTx) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return t.s.createFollowLocked(follow)
}

func (t *memTx) DeleteFollow(ctx context.Context, followerID, followeeID int64) error {
	delete(t.s.follows, followKey{followerID, followeeID})
	return nil
}

func (t *memTx) CreatePost(ctx context.Context, post *models.Post) error {
	t.s.nextID++
	post.ID = t.s.nextID
	t.s.posts[post.ID] = post
	return nil
}

func (t *memTx) DeletePost(ctx context.Context, id int64) error {
	t.s.deletePostLocked(id)
	return nil
}

func (t *memTx) CreateComment(ctx context.Context, comment *models.Comment) error {
	t.s.nextID++
	comment.ID = t.s.nextID
	t.s.comments[comment.ID] = comment
	return nil
}

func (t *memTx) DeleteComment(ctx context.Context, id int64) error {
	delete(t.s.comments, id)
	return nil
}

func (t *memTx) CreateNotification(ctx context.Context, n *models.Notification) error {
	return t.s.createNotificationLocked(n)
}

func (t *memTx) FindNotification(ctx context.Context, recipientID int64, kind models.NotificationKind, creatorID, postID int64) (*models.Notification, error) {
	return t.s.findNotificationLocked(recipientID, kind, creatorID, postID), nil
}
