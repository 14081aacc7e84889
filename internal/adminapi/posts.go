package adminapi

import (
	"context"
	"fmt"
	"time"
)

// DefaultPostStatus applies when the backend omits a status.
const DefaultPostStatus = "draft"

// Post is the admin view of a scheduled or published post.
type Post struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Content     string     `json:"content"`
	Platforms   []string   `json:"platforms"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type postWire struct {
	ID          flexID   `json:"id"`
	UserID      flexID   `json:"user_id"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	Status      string   `json:"status"`
	ScheduledAt *string  `json:"scheduled_at"`
	PublishedAt *string  `json:"published_at"`
	CreatedAt   *string  `json:"created_at"`
}

func toPost(w postWire) Post {
	status := w.Status
	if status == "" {
		status = DefaultPostStatus
	}
	platforms := w.Platforms
	if platforms == nil {
		platforms = []string{}
	}

	return Post{
		ID:          string(w.ID),
		UserID:      string(w.UserID),
		Content:     w.Content,
		Platforms:   platforms,
		Status:      status,
		ScheduledAt: optionalTime(w.ScheduledAt),
		PublishedAt: optionalTime(w.PublishedAt),
		CreatedAt:   timeOrZero(w.CreatedAt),
	}
}

// ListPosts fetches one page of posts across all users.
func (c *Client) ListPosts(ctx context.Context, opts ListOptions) (Page[Post], error) {
	opts = opts.normalize()

	var env envelope[postWire]
	if err := c.get(ctx, "/admin/posts", opts.query(), &env); err != nil {
		return Page[Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return toPage(env, opts, toPost), nil
}
