package models

import (
	"time"
)

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Not stored; batch-filled at query time
	LikesCount   int64  `gorm:"-" json:"likes_count"`
	IsLiked      bool   `gorm:"-" json:"is_liked"`
	CommentCount int64  `gorm:"-" json:"comment_count"`
	ContentHTML  string `gorm:"-" json:"content_html,omitempty"`
}
