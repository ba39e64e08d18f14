package models

import "time"

type Role string

const (
	RoleNormal Role = "normal"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleNormal || r == RoleAdmin
}

type User struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	UserName     string    `gorm:"uniqueIndex;size:100;not null" bson:"user_name" json:"user_name"`
	FirstName    string    `gorm:"size:100;not null" bson:"first_name" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" bson:"last_name" json:"last_name"`
	Role         Role      `gorm:"size:16;not null;default:normal" bson:"user_type" json:"user_type"`
	PasswordHash string    `gorm:"size:255;not null" bson:"password_hash" json:"-"` // never expose
	Active       bool      `gorm:"not null;default:true" bson:"active_mode" json:"active_mode"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// UserView is the public projection of a User.
type UserView struct {
	UserName  string `json:"user_name"`
	Role      Role   `json:"user_type"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Active    bool   `json:"active_mode"`
}

func (u *User) View() *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		UserName:  u.UserName,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
	}
}
