package services

import (
	"context"
	"strings"
	"time"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/google/uuid"
)

type SubmitCommentInput struct {
	Content string
	BlogID  string
}

func (in SubmitCommentInput) Missing() []string {
	return missing(field("content", in.Content), field("blog_id", in.BlogID))
}

type EditCommentInput struct {
	CommentID  string
	NewContent string
}

func (in EditCommentInput) Missing() []string {
	return missing(field("commentId", in.CommentID), field("newContent", in.NewContent))
}

type CommentService struct {
	comments repository.CommentRepository
	blogs    repository.BlogRepository
	users    repository.UserRepository
	now      func() time.Time
}

func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{
		comments: store.Comments,
		blogs:    store.Blogs,
		users:    store.Users,
		now:      time.Now,
	}
}

// Submit adds a comment owned by actor to an existing blog.
func (s *CommentService) Submit(ctx context.Context, actor *models.User, in SubmitCommentInput) (*models.CommentView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	blog, err := s.blogs.GetByID(ctx, strings.TrimSpace(in.BlogID))
	if err != nil {
		return nil, storeError(err, "blog")
	}

	now := s.now().UTC()
	comment := &models.Comment{
		ID:        uuid.NewString(),
		Content:   strings.TrimSpace(in.Content),
		BlogID:    blog.ID,
		OwnerID:   actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeError(err, "blog")
	}
	return comment.View(actor.UserName), nil
}

func (s *CommentService) Edit(ctx context.Context, actor *models.User, in EditCommentInput) (*models.CommentView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	comment, err := s.ownedComment(ctx, actor, in.CommentID)
	if err != nil {
		return nil, err
	}
	comment.Content = strings.TrimSpace(in.NewContent)
	comment.UpdatedAt = s.now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, storeError(err, "comment")
	}
	return comment.View(actor.UserName), nil
}

func (s *CommentService) Remove(ctx context.Context, actor *models.User, commentID string) error {
	if actor == nil {
		return apperr.Authentication(msgNoCredentials)
	}
	if isBlank(commentID) {
		return apperr.Validation("comentId")
	}
	comment, err := s.ownedComment(ctx, actor, commentID)
	if err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return storeError(err, "comment")
	}
	return nil
}

func (s *CommentService) Like(ctx context.Context, actor *models.User, commentID string) (*models.CommentView, error) {
	return s.react(ctx, actor, commentID, repository.CounterLike)
}

func (s *CommentService) Dislike(ctx context.Context, actor *models.User, commentID string) (*models.CommentView, error) {
	return s.react(ctx, actor, commentID, repository.CounterDislike)
}

func (s *CommentService) react(ctx context.Context, actor *models.User, commentID string, counter repository.Counter) (*models.CommentView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if isBlank(commentID) {
		return nil, apperr.Validation("comment_id")
	}
	commentID = strings.TrimSpace(commentID)
	if err := s.comments.Increment(ctx, commentID, counter); err != nil {
		return nil, storeError(err, "comment")
	}
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, storeError(err, "comment")
	}
	return comment.View(lookupOwnerName(ctx, s.users, comment.OwnerID, comment.Owner, actor)), nil
}

func (s *CommentService) ownedComment(ctx context.Context, actor *models.User, commentID string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, strings.TrimSpace(commentID))
	if err != nil {
		return nil, storeError(err, "comment")
	}
	if !models.IsOwner(actor, comment) {
		return nil, apperr.Authorization("you do not own this comment")
	}
	return comment, nil
}
