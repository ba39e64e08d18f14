package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/dlsystem/blogbackend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const (
	UsersCollection    = "users"
	BlogsCollection    = "blogs"
	CommentsCollection = "comments"
)

// NewMongoStore returns repositories backed by a MongoDB database.
func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    &mongoUsers{col: db.Collection(UsersCollection)},
		Blogs:    &mongoBlogs{col: db.Collection(BlogsCollection), comments: db.Collection(CommentsCollection)},
		Comments: &mongoComments{col: db.Collection(CommentsCollection)},
	}
}

type mongoUsers struct {
	col *mongo.Collection
}

func (r *mongoUsers) Create(ctx context.Context, user *models.User) error {
	if _, err := r.col.InsertOne(ctx, user); err != nil {
		if IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *mongoUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoUsers) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.M{"user_name": userName})
}

func (r *mongoUsers) Exists(ctx context.Context, userName string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"user_name": userName})
	return n > 0, err
}

type mongoBlogs struct {
	col      *mongo.Collection
	comments *mongo.Collection
}

func (r *mongoBlogs) Create(ctx context.Context, blog *models.Blog) error {
	_, err := r.col.InsertOne(ctx, blog)
	return err
}

func (r *mongoBlogs) GetByID(ctx context.Context, id string) (*models.Blog, error) {
	return findOne[models.Blog](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoBlogs) Update(ctx context.Context, blog *models.Blog) error {
	return updateByID(ctx, r.col, blog.ID, bson.M{
		"title":       blog.Title,
		"description": blog.Description,
		"content":     blog.Content,
		"contentRef":  blog.ContentRef,
		"tags":        blog.Tags,
		"active":      blog.Active,
		"updatedAt":   blog.UpdatedAt,
	})
}

// Delete removes the comments first so a failure never leaves orphans.
func (r *mongoBlogs) Delete(ctx context.Context, id string) error {
	if _, err := r.comments.DeleteMany(ctx, bson.M{"blogId": id}); err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoBlogs) Increment(ctx context.Context, id string, counter Counter) error {
	field := "likes"
	if counter == CounterDislike {
		field = "dislikes"
	}
	return incrementField(ctx, r.col, id, field)
}

type mongoComments struct {
	col *mongo.Collection
}

func (r *mongoComments) Create(ctx context.Context, comment *models.Comment) error {
	_, err := r.col.InsertOne(ctx, comment)
	return err
}

func (r *mongoComments) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return findOne[models.Comment](ctx, r.col, bson.M{"_id": id})
}

func (r *mongoComments) Update(ctx context.Context, comment *models.Comment) error {
	return updateByID(ctx, r.col, comment.ID, bson.M{
		"content":   comment.Content,
		"updatedAt": comment.UpdatedAt,
	})
}

func (r *mongoComments) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoComments) Increment(ctx context.Context, id string, counter Counter) error {
	return incrementField(ctx, r.col, id, string(counter))
}

func (r *mongoComments) CountByBlog(ctx context.Context, blogID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"blogId": blogID})
}

func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := col.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func updateByID(ctx context.Context, col *mongo.Collection, id string, set bson.M) error {
	res, err := col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func incrementField(ctx context.Context, col *mongo.Collection, id, field string) error {
	res, err := col.UpdateByID(ctx, id, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// IsDuplicateKey reports a unique index violation from the mongo driver.
func IsDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	return strings.Contains(err.Error(), "E11000 duplicate key error")
}
