package repository

import (
	"context"
	"sync"

	"github.com/dlsystem/blogbackend/models"
)

// NewMemoryStore returns repositories kept in process memory. Records are
// copied on the way in and out so callers never share state with the store.
func NewMemoryStore() *Store {
	m := &memoryDB{
		users:    make(map[string]models.User),
		blogs:    make(map[string]models.Blog),
		comments: make(map[string]models.Comment),
	}
	return &Store{
		Users:    &memoryUsers{m},
		Blogs:    &memoryBlogs{m},
		Comments: &memoryComments{m},
	}
}

type memoryDB struct {
	mu       sync.RWMutex
	users    map[string]models.User
	blogs    map[string]models.Blog
	comments map[string]models.Comment
}

type memoryUsers struct{ m *memoryDB }

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.UserName == user.UserName {
			return ErrDuplicate
		}
	}
	if _, ok := r.m.users[user.ID]; ok {
		return ErrDuplicate
	}
	r.m.users[user.ID] = *user
	return nil
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memoryUsers) GetByUserName(_ context.Context, userName string) (*models.User, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	for _, u := range r.m.users {
		if u.UserName == userName {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) Exists(ctx context.Context, userName string) (bool, error) {
	_, err := r.GetByUserName(ctx, userName)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

type memoryBlogs struct{ m *memoryDB }

func (r *memoryBlogs) Create(_ context.Context, blog *models.Blog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.blogs[blog.ID]; ok {
		return ErrDuplicate
	}
	b := *blog
	b.Owner, b.Comments = nil, nil
	r.m.blogs[blog.ID] = b
	return nil
}

func (r *memoryBlogs) GetByID(_ context.Context, id string) (*models.Blog, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	b, ok := r.m.blogs[id]
	if !ok {
		return nil, ErrNotFound
	}
	if owner, ok := r.m.users[b.OwnerID]; ok {
		b.Owner = &owner
	}
	return &b, nil
}

func (r *memoryBlogs) Update(_ context.Context, blog *models.Blog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.blogs[blog.ID]
	if !ok {
		return ErrNotFound
	}
	b.Title = blog.Title
	b.Description = blog.Description
	b.Content = blog.Content
	b.ContentRef = blog.ContentRef
	b.Tags = blog.Tags
	b.Active = blog.Active
	b.UpdatedAt = blog.UpdatedAt
	r.m.blogs[blog.ID] = b
	return nil
}

func (r *memoryBlogs) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.blogs[id]; !ok {
		return ErrNotFound
	}
	for cid, c := range r.m.comments {
		if c.BlogID == id {
			delete(r.m.comments, cid)
		}
	}
	delete(r.m.blogs, id)
	return nil
}

func (r *memoryBlogs) Increment(_ context.Context, id string, counter Counter) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.blogs[id]
	if !ok {
		return ErrNotFound
	}
	if counter == CounterDislike {
		b.Dislikes++
	} else {
		b.Likes++
	}
	r.m.blogs[id] = b
	return nil
}

type memoryComments struct{ m *memoryDB }

func (r *memoryComments) Create(_ context.Context, comment *models.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[comment.ID]; ok {
		return ErrDuplicate
	}
	// mirrors the foreign key on comments.blog_id
	if _, ok := r.m.blogs[comment.BlogID]; !ok {
		return ErrNotFound
	}
	c := *comment
	c.Owner = nil
	r.m.comments[comment.ID] = c
	return nil
}

func (r *memoryComments) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	c, ok := r.m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	if owner, ok := r.m.users[c.OwnerID]; ok {
		c.Owner = &owner
	}
	return &c, nil
}

func (r *memoryComments) Update(_ context.Context, comment *models.Comment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[comment.ID]
	if !ok {
		return ErrNotFound
	}
	c.Content = comment.Content
	c.UpdatedAt = comment.UpdatedAt
	r.m.comments[comment.ID] = c
	return nil
}

func (r *memoryComments) Delete(_ context.Context, id string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(r.m.comments, id)
	return nil
}

func (r *memoryComments) Increment(_ context.Context, id string, counter Counter) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.comments[id]
	if !ok {
		return ErrNotFound
	}
	if counter == CounterDislike {
		c.Dislike++
	} else {
		c.Like++
	}
	r.m.comments[id] = c
	return nil
}

func (r *memoryComments) CountByBlog(_ context.Context, blogID string) (int64, error) {
	r.m.mu.RLock()
	defer r.m.mu.RUnlock()
	var n int64
	for _, c := range r.m.comments {
		if c.BlogID == blogID {
			n++
		}
	}
	return n, nil
}
