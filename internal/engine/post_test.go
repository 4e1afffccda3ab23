package engine

import (
	"context"
	"strings"
	"testing"
)

func TestCreatePost(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	e := newTestEngine(store)

	post, err := e.CreatePost(context.Background(), alice.ID, "  first!  ", "img.png")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == 0 {
		t.Error("post should get an id")
	}
	if post.Content != "first!" {
		t.Errorf("content = %q, want trimmed %q", post.Content, "first!")
	}
	if post.AuthorID != alice.ID {
		t.Errorf("author = %d, want %d", post.AuthorID, alice.ID)
	}
	if store.notificationCount() != 0 {
		t.Errorf("posting must not notify, got %d", store.notificationCount())
	}
}

func TestCreatePostErrors(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	e := newTestEngine(store)

	tests := []struct {
		name    string
		actorID int64
		content string
		kind    Kind
	}{
		{"unauthenticated", 0, "hi", KindUnauthenticated},
		{"empty content", alice.ID, "", KindInvalidArgument},
		{"whitespace content", alice.ID, " \t\n", KindInvalidArgument},
		{"oversized content", alice.ID, strings.Repeat("x", MaxPostLength+1), KindInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CreatePost(context.Background(), tt.actorID, tt.content, "")
			if !IsKind(err, tt.kind) {
				t.Errorf("got %v, want kind %s", err, tt.kind)
			}
		})
	}
}

func TestDeletePost(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("alice")
	bob := store.addUser("bob")
	e := newTestEngine(store)
	ctx := context.Background()

	post, err := e.CreatePost(ctx, alice.ID, "short-lived", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.CreateComment(ctx, bob.ID, post.ID, "a comment"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	if _, err := e.ToggleLike(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("like: %v", err)
	}

	if err := e.DeletePost(ctx, bob.ID, post.ID); !IsKind(err, KindUnauthorized) {
		t.Errorf("non-author delete: got %v, want kind %s", err, KindUnauthorized)
	}
	if err := e.DeletePost(ctx, alice.ID, 999); !IsKind(err, KindNotFound) {
		t.Errorf("missing post: got %v, want kind %s", err, KindNotFound)
	}
	if err := e.DeletePost(ctx, 0, post.ID); !IsKind(err, KindUnauthenticated) {
		t.Errorf("unauthenticated: got %v, want kind %s", err, KindUnauthenticated)
	}

	if err := e.DeletePost(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
	if got, err := store.GetPost(ctx, post.ID); err != nil || got != nil {
		t.Errorf("post still present after delete: %v, %v", got, err)
	}
	if store.commentCount() != 0 {
		t.Errorf("comments should cascade with the post, got %d", store.commentCount())
	}
	if store.likeCount() != 0 {
		t.Errorf("likes should cascade with the post, got %d", store.likeCount())
	}
	// COMMENT and LIKE notifications survive and render as unavailable.
	if store.notificationCount() != 2 {
		t.Errorf("notifications must survive post deletion, got %d", store.notificationCount())
	}
}
