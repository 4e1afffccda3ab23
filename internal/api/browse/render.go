package browse

import (
	"github.com/pulsefeed/pulse/internal/models"
)

// renderUser builds the public view of a user
func renderUser(u *models.User) map[string]interface{} {
	if u == nil {
		return nil
	}
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"name":     u.Name,
		"image":    u.Image,
	}
}

// renderComment builds the view of a comment
func renderComment(c *models.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"author":     renderUser(c.Author),
		"content":    c.Content,
		"created_at": c.CreatedAt,
	}
}

// renderPost builds the view of a post with its author, comments and like
// state. observerID 0 renders without a personal like flag.
func renderPost(p *models.Post, observerID int64) map[string]interface{} {
	comments := make([]map[string]interface{}, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, renderComment(&p.Comments[i]))
	}

	liked := false
	for _, like := range p.Likes {
		if observerID != 0 && like.UserID == observerID {
			liked = true
			break
		}
	}

	return map[string]interface{}{
		"id":            p.ID,
		"author":        renderUser(p.Author),
		"content":       p.Content,
		"image":         p.Image,
		"created_at":    p.CreatedAt,
		"like_count":    len(p.Likes),
		"comment_count": len(p.Comments),
		"liked":         liked,
		"comments":      comments,
	}
}

func renderPosts(posts []*models.Post, observerID int64) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(posts))
	for _, p := range posts {
		out = append(out, renderPost(p, observerID))
	}
	return out
}

func renderUsers(users []*models.User) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, renderUser(u))
	}
	return out
}
