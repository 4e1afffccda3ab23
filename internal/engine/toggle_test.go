package engine

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/pulsefeed/pulse/internal/models"
)

func newTestEngine(s Store) *Engine {
	return New(s, nil, zap.NewNop())
}

func TestToggleLikeLifecycle(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	post := store.addPost(bob.ID, "hello")
	e := newTestEngine(store)
	ctx := context.Background()

	liked, err := e.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !liked {
		t.Error("first toggle should report liked")
	}
	if store.likeCount() != 1 {
		t.Errorf("expected 1 like row, got %d", store.likeCount())
	}
	if store.notificationCount() != 1 {
		t.Fatalf("expected 1 notification, got %d", store.notificationCount())
	}
	n := store.notificationAt(0)
	if n.UserID != bob.ID || n.CreatorID != alice.ID {
		t.Errorf("notification routed %d -> %d, want %d -> %d", n.CreatorID, n.UserID, alice.ID, bob.ID)
	}
	if n.Kind != models.KindLike {
		t.Errorf("notification kind = %s, want %s", n.Kind, models.KindLike)
	}
	if !n.PostID.Valid || n.PostID.Int64 != post.ID {
		t.Errorf("notification post ref = %+v, want %d", n.PostID, post.ID)
	}
	if n.CommentID.Valid {
		t.Error("like notification must not reference a comment")
	}
	if n.Read {
		t.Error("new notification must start unread")
	}

	liked, err = e.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if liked {
		t.Error("second toggle should report unliked")
	}
	if store.likeCount() != 0 {
		t.Errorf("expected like row removed, got %d rows", store.likeCount())
	}
	if store.notificationCount() != 1 {
		t.Errorf("unlike must not retract the notification, got %d", store.notificationCount())
	}

	liked, err = e.ToggleLike(ctx, alice.ID, post.ID)
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if !liked {
		t.Error("third toggle should report liked again")
	}
	if store.notificationCount() != 1 {
		t.Errorf("re-like must not duplicate the notification, got %d", store.notificationCount())
	}
}

func TestToggleLikeOwnPost(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	post := store.addPost(alice.ID, "mine")
	e := newTestEngine(store)

	liked, err := e.ToggleLike(context.Background(), alice.ID, post.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !liked {
		t.Error("liking own post should succeed")
	}
	if store.likeCount() != 1 {
		t.Errorf("expected 1 like row, got %d", store.likeCount())
	}
	if store.notificationCount() != 0 {
		t.Errorf("self-like must not notify, got %d notifications", store.notificationCount())
	}
}

func TestToggleLikeErrors(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	e := newTestEngine(store)

	tests := []struct {
		name    string
		actorID int64
		postID  int64
		kind    Kind
	}{
		{"unauthenticated", 0, 1, KindUnauthenticated},
		{"negative actor", -3, 1, KindUnauthenticated},
		{"missing post", alice.ID, 999, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ToggleLike(context.Background(), tt.actorID, tt.postID)
			if !IsKind(err, tt.kind) {
				t.Errorf("got %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestToggleLikeRollbackOnNotificationFailure(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	post := store.addPost(bob.ID, "hello")
	store.failCreateNotification = true
	e := newTestEngine(store)

	_, err := e.ToggleLike(context.Background(), alice.ID, post.ID)
	if !IsKind(err, KindStorageFailure) {
		t.Fatalf("got %v, want kind %s", err, KindStorageFailure)
	}
	if store.likeCount() != 0 {
		t.Errorf("rollback must leave no like row, got %d", store.likeCount())
	}
	if store.notificationCount() != 0 {
		t.Errorf("rollback must leave no notification, got %d", store.notificationCount())
	}
}

func TestToggleLikeConcurrentObservation(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	post := store.addPost(bob.ID, "hello")
	// Every writer reads before any of them commits; all but one lose the
	// uniqueness race.
	store.staleToggleReads = true
	e := newTestEngine(store)

	const writers = 16
	results := make([]bool, writers)
	errs := make([]error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.ToggleLike(context.Background(), alice.ID, post.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		if errs[i] != nil {
			t.Errorf("writer %d: unexpected error %v", i, errs[i])
		}
		if !results[i] {
			t.Errorf("writer %d: expected liked=true", i)
		}
	}
	if store.likeCount() != 1 {
		t.Errorf("expected exactly 1 like row, got %d", store.likeCount())
	}
	if store.notificationCount() != 1 {
		t.Errorf("expected exactly 1 notification, got %d", store.notificationCount())
	}
}

func TestToggleFollowLifecycle(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	e := newTestEngine(store)
	ctx := context.Background()

	following, err := e.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !following {
		t.Error("first toggle should report following")
	}
	if store.followCount() != 1 {
		t.Errorf("expected 1 follow row, got %d", store.followCount())
	}
	if store.notificationCount() != 1 {
		t.Fatalf("expected 1 notification, got %d", store.notificationCount())
	}
	n := store.notificationAt(0)
	if n.Kind != models.KindFollow {
		t.Errorf("notification kind = %s, want %s", n.Kind, models.KindFollow)
	}
	if n.UserID != bob.ID || n.CreatorID != alice.ID {
		t.Errorf("notification routed %d -> %d, want %d -> %d", n.CreatorID, n.UserID, alice.ID, bob.ID)
	}
	if n.PostID.Valid || n.CommentID.Valid {
		t.Error("follow notification must not reference content")
	}

	following, err = e.ToggleFollow(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if following {
		t.Error("second toggle should report unfollowed")
	}
	if store.followCount() != 0 {
		t.Errorf("expected follow row removed, got %d rows", store.followCount())
	}
	if store.notificationCount() != 1 {
		t.Errorf("unfollow must not retract the notification, got %d", store.notificationCount())
	}

	if _, err = e.ToggleFollow(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if store.notificationCount() != 1 {
		t.Errorf("re-follow must not duplicate the notification, got %d", store.notificationCount())
	}
}

func TestToggleFollowErrors(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	e := newTestEngine(store)

	tests := []struct {
		name     string
		actorID  int64
		targetID int64
		kind     Kind
	}{
		{"unauthenticated", 0, alice.ID, KindUnauthenticated},
		{"self follow", alice.ID, alice.ID, KindInvalidOperation},
		{"missing target", alice.ID, 999, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.ToggleFollow(context.Background(), tt.actorID, tt.targetID)
			if !IsKind(err, tt.kind) {
				t.Errorf("got %v, want kind %s", err, tt.kind)
			}
			if store.followCount() != 0 {
				t.Errorf("rejected toggle wrote %d follow rows", store.followCount())
			}
		})
	}
}

func TestToggleFollowRollbackOnNotificationFailure(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	store.failCreateNotification = true
	e := newTestEngine(store)

	_, err := e.ToggleFollow(context.Background(), alice.ID, bob.ID)
	if !IsKind(err, KindStorageFailure) {
		t.Fatalf("got %v, want kind %s", err, KindStorageFailure)
	}
	if store.followCount() != 0 {
		t.Errorf("rollback must leave no follow row, got %d", store.followCount())
	}
	if store.notificationCount() != 0 {
		t.Errorf("rollback must leave no notification, got %d", store.notificationCount())
	}
}

func TestToggleFollowConcurrentObservation(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	store.staleToggleReads = true
	e := newTestEngine(store)

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.ToggleFollow(context.Background(), alice.ID, bob.ID)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("writer %d: unexpected error %v", i, err)
		}
	}
	if store.followCount() != 1 {
		t.Errorf("expected exactly 1 follow row, got %d", store.followCount())
	}
	if store.notificationCount() != 1 {
		t.Errorf("expected exactly 1 notification, got %d", store.notificationCount())
	}
}
