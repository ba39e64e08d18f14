package models

import "time"

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Content   string    `gorm:"not null" bson:"content" json:"content"`
	Like      int64     `gorm:"not null;default:0" bson:"like" json:"like"`
	Dislike   int64     `gorm:"not null;default:0" bson:"dislike" json:"dislike"`
	BlogID    string    `gorm:"size:36;not null;index" bson:"blogId" json:"blog"`
	OwnerID   string    `gorm:"size:36;not null;index" bson:"ownerId" json:"-"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" bson:"-" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updated_at"`
}

func (c *Comment) OwnerKey() string { return c.OwnerID }

type CommentView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Like      int64     `json:"like"`
	Dislike   int64     `json:"dislike"`
	Blog      string    `json:"blog"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Comment) View(owner string) *CommentView {
	return &CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Like:      c.Like,
		Dislike:   c.Dislike,
		Blog:      c.BlogID,
		Owner:     owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
