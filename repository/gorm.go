package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/dlsystem/blogbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewGormStore returns repositories backed by a relational database.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:    &gormUsers{db: db},
		Blogs:    &gormBlogs{db: db},
		Comments: &gormComments{db: db},
	}
}

type gormUsers struct {
	db *gorm.DB
}

func (r *gormUsers) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *gormUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *gormUsers) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	user := &models.User{}
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(user).Error; err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (r *gormUsers) Exists(ctx context.Context, userName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("user_name = ?", userName).Count(&count).Error
	return count > 0, err
}

type gormBlogs struct {
	db *gorm.DB
}

func (r *gormBlogs) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Omit("Owner", "Comments").Create(blog).Error
}

func (r *gormBlogs) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	blog := &models.Blog{}
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(blog).Error; err != nil {
		return nil, translate(err)
	}
	return blog, nil
}

func (r *gormBlogs) Update(ctx context.Context, blog *models.Blog) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", blog.ID).Updates(map[string]interface{}{
		"title":       blog.Title,
		"description": blog.Description,
		"content":     blog.Content,
		"content_ref": blog.ContentRef,
		"tags":        blog.Tags,
		"active":      blog.Active,
		"updated_at":  blog.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormBlogs) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Blog{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *gormBlogs) Increment(ctx context.Context, id string, counter Counter) error {
	column := "likes"
	if counter == CounterDislike {
		column = "dislikes"
	}
	return increment(ctx, r.db, &models.Blog{}, id, column)
}

type gormComments struct {
	db *gorm.DB
}

func (r *gormComments) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(comment).Error
}

func (r *gormComments) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment := &models.Comment{}
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(comment).Error; err != nil {
		return nil, translate(err)
	}
	return comment, nil
}

func (r *gormComments) Update(ctx context.Context, comment *models.Comment) error {
	res := r.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", comment.ID).Updates(map[string]interface{}{
		"content":    comment.Content,
		"updated_at": comment.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormComments) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormComments) Increment(ctx context.Context, id string, counter Counter) error {
	return increment(ctx, r.db, &models.Comment{}, id, string(counter))
}

func (r *gormComments) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&count).Error
	return count, err
}

// increment runs a single UPDATE so concurrent reactions are not lost.
func increment(ctx context.Context, db *gorm.DB, model interface{}, id, column string) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr("? + ?", clause.Column{Name: column}, 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
