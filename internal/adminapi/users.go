package adminapi

import (
	"context"
	"fmt"
	"time"
)

// UnnamedUser is shown when the backend has no full name.
const UnnamedUser = "Unnamed"

// User is the admin view of a backend user.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	PostsCount int        `json:"postsCount"`
}

type userWire struct {
	ID         flexID  `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  *string `json:"created_at"`
	LastLogin  *string `json:"last_login"`
	PostsCount int     `json:"posts_count"`
}

func toUser(w userWire) User {
	name := w.FullName
	if name == "" {
		name = UnnamedUser
	}
	role := w.Role
	if role == "" {
		role = "user"
	}

	return User{
		ID:         string(w.ID),
		Email:      w.Email,
		FullName:   name,
		Role:       role,
		IsActive:   w.IsActive,
		CreatedAt:  timeOrZero(w.CreatedAt),
		LastLogin:  optionalTime(w.LastLogin),
		PostsCount: w.PostsCount,
	}
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, opts ListOptions) (Page[User], error) {
	opts = opts.normalize()

	var env envelope[userWire]
	if err := c.get(ctx, "/admin/users", opts.query(), &env); err != nil {
		return Page[User]{}, fmt.Errorf("list users: %w", err)
	}
	return toPage(env, opts, toUser), nil
}
