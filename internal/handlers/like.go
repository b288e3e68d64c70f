package handlers

import (
	"errors"
	"log"
	"net/http"

	"pulse/internal/feed"
	"pulse/internal/utils"
	"pulse/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LikeHandler struct {
	hub *ws.Hub
}

func NewLikeHandler(hub *ws.Hub) *LikeHandler {
	return &LikeHandler{hub: hub}
}

// LikePost toggles the current user's like on a post.
func (h *LikeHandler) LikePost(c *gin.Context) {
	h.toggle(c, "post")
}

// LikeComment toggles the current user's like on a comment.
func (h *LikeHandler) LikeComment(c *gin.Context) {
	h.toggle(c, "comment")
}

func (h *LikeHandler) toggle(c *gin.Context, itemType string) {
	user := CurrentUser(c)
	if user == nil {
		jsonError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	id := utils.StringToUint(c.Param("id"))

	var postID, commentID *uint
	if itemType == "post" {
		postID = &id
	} else {
		commentID = &id
	}

	liked, count, err := feed.ToggleLike(user.ID, postID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if itemType == "post" {
				jsonError(c, http.StatusNotFound, "Post not found")
			} else {
				jsonError(c, http.StatusNotFound, "Comment not found")
			}
			return
		}
		log.Printf("Error toggling %s like: %v", itemType, err)
		jsonError(c, http.StatusInternalServerError, "Failed to process like")
		return
	}

	h.hub.Publish(ws.EventLike, gin.H{"type": itemType, "id": id, "likes_count": count})

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": count})
}
