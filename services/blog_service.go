package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlsystem/blogbackend/apperr"
	"github.com/dlsystem/blogbackend/logger"
	"github.com/dlsystem/blogbackend/models"
	"github.com/dlsystem/blogbackend/repository"
	"github.com/dlsystem/blogbackend/storage"
	"github.com/dlsystem/blogbackend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload is blog content received as a file.
type Upload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

type CreateBlogInput struct {
	Title       string
	Description string
	Content     string
	Tags        string
	File        *Upload
}

func (in CreateBlogInput) Missing() []string {
	content := in.Content
	if in.File != nil {
		content = in.File.FileName
	}
	return missing(
		field("title", in.Title),
		field("description", in.Description),
		field("content", content),
	)
}

type EditBlogInput struct {
	BlogID         string
	NewTitle       string
	NewDescription string
	NewContent     string
	NewTags        string
	File           *Upload
}

func (in EditBlogInput) Missing() []string {
	content := in.NewContent
	if in.File != nil {
		content = in.File.FileName
	}
	return missing(
		field("blog_id", in.BlogID),
		field("new_title", in.NewTitle),
		field("new_description", in.NewDescription),
		field("new_content", content),
		field("new_tags", in.NewTags),
	)
}

type BlogService struct {
	blogs    repository.BlogRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	content  storage.ContentStore
	now      func() time.Time
}

func NewBlogService(store *repository.Store, content storage.ContentStore) *BlogService {
	return &BlogService{
		blogs:    store.Blogs,
		comments: store.Comments,
		users:    store.Users,
		content:  content,
		now:      time.Now,
	}
}

func (s *BlogService) Create(ctx context.Context, actor *models.User, in CreateBlogInput) (*models.BlogView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}

	content, ref, err := s.resolveContent(ctx, actor, in.Content, in.File)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	blog := &models.Blog{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Content:     content,
		ContentRef:  ref,
		Tags:        utils.NormalizeTags(in.Tags),
		Active:      true,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		s.discard(ctx, ref)
		return nil, storeError(err, "blog")
	}
	return blog.View(actor.UserName), nil
}

func (s *BlogService) Edit(ctx context.Context, actor *models.User, in EditBlogInput) (*models.BlogView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if m := in.Missing(); len(m) > 0 {
		return nil, apperr.Validation(m...)
	}
	blog, err := s.ownedBlog(ctx, actor, in.BlogID)
	if err != nil {
		return nil, err
	}

	content, ref, err := s.resolveContent(ctx, actor, in.NewContent, in.File)
	if err != nil {
		return nil, err
	}
	oldRef := blog.ContentRef

	blog.Title = strings.TrimSpace(in.NewTitle)
	blog.Description = strings.TrimSpace(in.NewDescription)
	blog.Content = content
	blog.ContentRef = ref
	blog.Tags = utils.NormalizeTags(in.NewTags)
	blog.UpdatedAt = s.now().UTC()
	if err := s.blogs.Update(ctx, blog); err != nil {
		s.discard(ctx, ref)
		return nil, storeError(err, "blog")
	}
	s.discard(ctx, oldRef)
	return blog.View(actor.UserName), nil
}

// Remove deletes the blog and, with it, every comment on it.
func (s *BlogService) Remove(ctx context.Context, actor *models.User, blogID string) error {
	if actor == nil {
		return apperr.Authentication(msgNoCredentials)
	}
	if isBlank(blogID) {
		return apperr.Validation("blog_id")
	}
	blog, err := s.ownedBlog(ctx, actor, blogID)
	if err != nil {
		return err
	}
	comments, err := s.comments.CountByBlog(ctx, blog.ID)
	if err != nil {
		return storeError(err, "comment")
	}
	if err := s.blogs.Delete(ctx, blog.ID); err != nil {
		return storeError(err, "blog")
	}
	logger.Info("blog removed", zap.String("blog_id", blog.ID), zap.Int64("comments_removed", comments))
	s.discard(ctx, blog.ContentRef)
	return nil
}

func (s *BlogService) Like(ctx context.Context, actor *models.User, blogID string) (*models.BlogView, error) {
	return s.react(ctx, actor, blogID, repository.CounterLike)
}

func (s *BlogService) Dislike(ctx context.Context, actor *models.User, blogID string) (*models.BlogView, error) {
	return s.react(ctx, actor, blogID, repository.CounterDislike)
}

func (s *BlogService) Activate(ctx context.Context, actor *models.User, blogID string) (*models.BlogView, error) {
	return s.setActive(ctx, actor, blogID, true)
}

func (s *BlogService) Deactivate(ctx context.Context, actor *models.User, blogID string) (*models.BlogView, error) {
	return s.setActive(ctx, actor, blogID, false)
}

// react adds one like or dislike. Reactions are not deduplicated per user.
func (s *BlogService) react(ctx context.Context, actor *models.User, blogID string, counter repository.Counter) (*models.BlogView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if isBlank(blogID) {
		return nil, apperr.Validation("blog_id")
	}
	blogID = strings.TrimSpace(blogID)
	if err := s.blogs.Increment(ctx, blogID, counter); err != nil {
		return nil, storeError(err, "blog")
	}
	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	return blog.View(lookupOwnerName(ctx, s.users, blog.OwnerID, blog.Owner, actor)), nil
}

func (s *BlogService) setActive(ctx context.Context, actor *models.User, blogID string, active bool) (*models.BlogView, error) {
	if actor == nil {
		return nil, apperr.Authentication(msgNoCredentials)
	}
	if isBlank(blogID) {
		return nil, apperr.Validation("blog_id")
	}
	blog, err := s.ownedBlog(ctx, actor, blogID)
	if err != nil {
		return nil, err
	}
	blog.Active = active
	blog.UpdatedAt = s.now().UTC()
	if err := s.blogs.Update(ctx, blog); err != nil {
		return nil, storeError(err, "blog")
	}
	return blog.View(actor.UserName), nil
}

func (s *BlogService) ownedBlog(ctx context.Context, actor *models.User, blogID string) (*models.Blog, error) {
	blog, err := s.blogs.GetByID(ctx, strings.TrimSpace(blogID))
	if err != nil {
		return nil, storeError(err, "blog")
	}
	if !models.IsOwner(actor, blog) {
		return nil, apperr.Authorization("you do not own this blog")
	}
	return blog, nil
}

// resolveContent returns inline text as is, or uploads the file and returns
// its reference twice (as content and as the ref to clean up later).
func (s *BlogService) resolveContent(ctx context.Context, actor *models.User, text string, file *Upload) (string, string, error) {
	if file == nil {
		return text, "", nil
	}
	if s.content == nil {
		return "", "", apperr.Invalid("file uploads are not enabled")
	}
	name := storage.ObjectName(actor.ID, filepath.Ext(file.FileName))
	ref, err := s.content.Put(ctx, name, file.Body, file.ContentType)
	if err != nil {
		return "", "", apperr.Internal("failed to store content").WithCause(err)
	}
	return ref, ref, nil
}

// discard deletes an uploaded object. Failures only leave an orphan behind.
func (s *BlogService) discard(ctx context.Context, ref string) {
	if ref == "" || s.content == nil {
		return
	}
	if err := s.content.Delete(ctx, ref); err != nil {
		logger.Warn("failed to delete content object", zap.String("ref", ref), zap.Error(err))
	}
}

func lookupOwnerName(ctx context.Context, users repository.UserRepository, ownerID string, preloaded, actor *models.User) string {
	if preloaded != nil && preloaded.ID == ownerID {
		return preloaded.UserName
	}
	if actor != nil && actor.ID == ownerID {
		return actor.UserName
	}
	owner, err := users.GetByID(ctx, ownerID)
	if err != nil {
		return ""
	}
	return owner.UserName
}
