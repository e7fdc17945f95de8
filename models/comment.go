package models

import "time"

// Comment is a reply owned exclusively by its parent post.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PostID    uint       `gorm:"index;not null" json:"-"`
	UserID    uint       `gorm:"index;not null" json:"-"`
	Text      string     `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
	User      PublicUser `gorm:"-" json:"user"`
}
