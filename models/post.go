package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TagList stores a post's tags as a JSON array in a text column.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		t = TagList{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src interface{}) error {
	if src == nil {
		*t = TagList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
}

// Post represents a content entry created by a user. Author, Comments
// and Likes are hydrated explicitly by the post service, not preloaded
// by the storage layer.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:100;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Tags      TagList    `gorm:"type:text" json:"tags"`
	Image     string     `gorm:"size:255" json:"image,omitempty"`
	AuthorID  uint       `gorm:"index;not null" json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Author    PublicUser `gorm:"-" json:"author"`
	Comments  []Comment  `gorm:"-" json:"comments,omitempty"`
	Likes     []uint     `gorm:"-" json:"likes"`
}

// PostLike is one user's like on one post. The composite unique index
// makes the like toggle a single-row insert or delete.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user_like" json:"postId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user_like" json:"userId"`
	CreatedAt time.Time `json:"-"`
}
