// Package repository persists users, blogs and comments.
package repository

import (
	"context"
	"errors"

	"github.com/dlsystem/blogbackend/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Counter names a reaction counter on a blog or comment.
type Counter string

const (
	CounterLike    Counter = "like"
	CounterDislike Counter = "dislike"
)

func (c Counter) Valid() bool {
	return c == CounterLike || c == CounterDislike
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUserName(ctx context.Context, userName string) (*models.User, error)
	Exists(ctx context.Context, userName string) (bool, error)
}

type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	// Delete removes the blog together with all of its comments.
	Delete(ctx context.Context, id string) error
	// Increment atomically adds one to the named counter.
	Increment(ctx context.Context, id string, counter Counter) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	Increment(ctx context.Context, id string, counter Counter) error
	CountByBlog(ctx context.Context, blogID string) (int64, error)
}

// Store bundles the repositories of one backend.
type Store struct {
	Users    UserRepository
	Blogs    BlogRepository
	Comments CommentRepository
}
