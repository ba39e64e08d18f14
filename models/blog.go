package models

import (
	"strings"
	"time"
)

// DefaultTags is stored when a blog is created without tags.
const DefaultTags = "none"

// TagSeparator joins normalised tags, e.g. "none - lovely - fun".
const TagSeparator = " - "

type Blog struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Title       string    `gorm:"not null" bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Content     string    `gorm:"not null" bson:"content" json:"content"`
	// ContentRef is set when Content points at an uploaded object.
	ContentRef  string    `gorm:"size:512" bson:"contentRef,omitempty" json:"-"`
	Tags        string    `gorm:"not null;default:none" bson:"tags" json:"tags"`
	Likes       int64     `gorm:"not null;default:0" bson:"likes" json:"likes"`
	Dislikes    int64     `gorm:"not null;default:0" bson:"dislikes" json:"dislikes"`
	Active      bool      `gorm:"not null;default:true" bson:"active" json:"active"`
	OwnerID     string    `gorm:"size:36;not null;index" bson:"ownerId" json:"-"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" bson:"-" json:"-"`
	Comments    []Comment `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" bson:"-" json:"-"`
	CreatedAt   time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updated_at"`
}

func (b *Blog) OwnerKey() string { return b.OwnerID }

type BlogView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	Likes       int64     `json:"likes"`
	Dislikes    int64     `json:"dislikes"`
	Active      bool      `json:"active"`
	Owner       string    `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// View renders the blog for clients. owner is the owning user's name.
func (b *Blog) View(owner string) *BlogView {
	return &BlogView{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Content:     b.Content,
		Tags:        SplitTags(b.Tags),
		Likes:       b.Likes,
		Dislikes:    b.Dislikes,
		Active:      b.Active,
		Owner:       owner,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// SplitTags turns the stored tag string back into a list.
func SplitTags(tags string) []string {
	if strings.TrimSpace(tags) == "" {
		return []string{DefaultTags}
	}
	parts := strings.Split(tags, TagSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
