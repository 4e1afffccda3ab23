package inbox

import (
	"fmt"
	"time"

	"github.com/pulsefeed/pulse/internal/models"
)

// View is a notification rendered for display. Creator, Post and Comment are
// nil when the referenced row no longer exists; Message always degrades to
// something presentable.
type View struct {
	ID        int64        `json:"id"`
	Kind      string       `json:"kind"`
	Read      bool         `json:"read"`
	CreatedAt time.Time    `json:"created_at"`
	Message   string       `json:"msg"`
	Creator   *CreatorView `json:"creator,omitempty"`
	Post      *PostView    `json:"post,omitempty"`
	Comment   *CommentView `json:"comment,omitempty"`
}

// CreatorView identifies the user whose action produced the notification.
type CreatorView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
}

// PostView is the referenced post, truncated for inbox display.
type PostView struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// CommentView is the referenced comment, truncated for inbox display.
type CommentView struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

const snippetLength = 80

func render(n *models.Notification) *View {
	v := &View{
		ID:        n.ID,
		Kind:      n.Kind.String(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}

	creator := "someone"
	if n.Creator != nil {
		creator = "@" + n.Creator.Username
		v.Creator = &CreatorView{
			ID:       n.Creator.ID,
			Username: n.Creator.Username,
			Name:     n.Creator.Name,
			Image:    n.Creator.Image,
		}
	}
	if n.Post != nil {
		v.Post = &PostView{ID: n.Post.ID, Content: snippet(n.Post.Content)}
	}
	if n.Comment != nil {
		v.Comment = &CommentView{ID: n.Comment.ID, Content: snippet(n.Comment.Content)}
	}

	switch n.Kind {
	case models.KindLike:
		if v.Post == nil {
			v.Message = fmt.Sprintf("%s liked a post that is no longer available", creator)
		} else {
			v.Message = fmt.Sprintf("%s liked your post", creator)
		}
	case models.KindComment:
		switch {
		case v.Comment != nil:
			v.Message = fmt.Sprintf("%s commented: %s", creator, v.Comment.Content)
		case v.Post != nil:
			v.Message = fmt.Sprintf("%s commented on your post", creator)
		default:
			v.Message = fmt.Sprintf("%s commented on a post that is no longer available", creator)
		}
	case models.KindFollow:
		v.Message = fmt.Sprintf("%s followed you", creator)
	default:
		v.Message = "unknown notification"
	}

	return v
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetLength {
		return s
	}
	return string(runes[:snippetLength]) + "…"
}
