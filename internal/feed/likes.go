package feed

import (
	"errors"

	"pulse/internal/db"
	"pulse/internal/models"

	"gorm.io/gorm"
)

// ErrInvalidTarget is returned when a like does not reference exactly one of
// a post or a comment.
var ErrInvalidTarget = errors.New("like target must be exactly one of post or comment")

// ToggleLike flips the user's like on the target and returns the new state
// with the post-toggle like count. The insert is attempted first; a unique
// violation means a like already exists (possibly inserted by a concurrent
// toggle losing the race to us), so it is removed instead of surfacing the
// store error. Returns gorm.ErrRecordNotFound when the target is absent.
func ToggleLike(userID uint, postID, commentID *uint) (liked bool, count int64, err error) {
	switch {
	case postID != nil && commentID == nil:
		var post models.Post
		if err := db.DB.Select("id").First(&post, *postID).Error; err != nil {
			return false, 0, err
		}
	case commentID != nil && postID == nil:
		var comment models.Comment
		if err := db.DB.Select("id").First(&comment, *commentID).Error; err != nil {
			return false, 0, err
		}
	default:
		return false, 0, ErrInvalidTarget
	}

	like := models.Like{UserID: userID, PostID: postID, CommentID: commentID}
	switch err := db.DB.Create(&like).Error; {
	case err == nil:
		liked = true
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// Already liked: toggle off. The delete may remove zero rows if a
		// concurrent toggle got there first; the pair then simply ends
		// unliked, which is a consistent state.
		if err := targetScope(postID, commentID).
			Where("user_id = ?", userID).
			Delete(&models.Like{}).Error; err != nil {
			return false, 0, err
		}
		liked = false
	default:
		return false, 0, err
	}

	count, err = CountLikes(postID, commentID)
	if err != nil {
		return liked, 0, err
	}
	return liked, count, nil
}

// CountLikes returns the current number of likes on the target.
func CountLikes(postID, commentID *uint) (int64, error) {
	var count int64
	err := targetScope(postID, commentID).Model(&models.Like{}).Count(&count).Error
	return count, err
}

func targetScope(postID, commentID *uint) *gorm.DB {
	if postID != nil {
		return db.DB.Where("post_id = ?", *postID)
	}
	return db.DB.Where("comment_id = ?", *commentID)
}
