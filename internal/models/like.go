package models

import (
	"time"
)

// Like marks that a user liked exactly one of a post or a comment.
// The pair uniqueness and the exclusive target are enforced by the database:
// a duplicate insert fails with a unique violation, which the toggle engine
// relies on to arbitrate concurrent toggles.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_post_like;uniqueIndex:idx_user_comment_like" json:"user_id"`
	PostID    *uint     `gorm:"index;uniqueIndex:idx_user_post_like;check:chk_like_target,(post_id IS NOT NULL AND comment_id IS NULL) OR (post_id IS NULL AND comment_id IS NOT NULL)" json:"post_id"`
	CommentID *uint     `gorm:"index;uniqueIndex:idx_user_comment_like" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
