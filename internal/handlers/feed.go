package handlers

import (
	"errors"
	"log"
	"net/http"

	"pulse/internal/db"
	"pulse/internal/feed"
	"pulse/internal/models"
	"pulse/internal/utils"
	"pulse/internal/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const feedPageSize = 100

type FeedHandler struct {
	hub *ws.Hub
}

func NewFeedHandler(hub *ws.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

type CreatePostInput struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

type CreateCommentInput struct {
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	ParentID *uint  `json:"parent_id"`
}

// fillPostAnnotations batch-fills like counts, comment counts and the
// viewer's liked flags for a page of posts.
func fillPostAnnotations(posts []models.Post, viewer *models.User) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		ID    uint
		Count int64
	}

	var likeResults []countResult
	db.DB.Model(&models.Like{}).
		Select("post_id AS id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&likeResults)
	likeMap := make(map[uint]int64, len(likeResults))
	for _, r := range likeResults {
		likeMap[r.ID] = r.Count
	}

	var commentResults []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id AS id, COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&commentResults)
	commentMap := make(map[uint]int64, len(commentResults))
	for _, r := range commentResults {
		commentMap[r.ID] = r.Count
	}

	likedMap := make(map[uint]bool)
	if viewer != nil {
		var likes []models.Like
		db.DB.Select("post_id").
			Where("user_id = ? AND post_id IN ?", viewer.ID, postIDs).
			Find(&likes)
		for _, l := range likes {
			if l.PostID != nil {
				likedMap[*l.PostID] = true
			}
		}
	}

	for i := range posts {
		posts[i].LikesCount = likeMap[posts[i].ID]
		posts[i].CommentCount = commentMap[posts[i].ID]
		posts[i].IsLiked = likedMap[posts[i].ID]
		posts[i].ContentHTML = utils.RenderMarkdown(posts[i].Content)
	}
}

// List returns the feed, newest first, annotated for the current viewer.
func (h *FeedHandler) List(c *gin.Context) {
	var posts []models.Post
	if err := db.DB.Preload("User").
		Order("created_at DESC, id DESC").
		Limit(feedPageSize).
		Find(&posts).Error; err != nil {
		log.Printf("Error fetching posts: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	fillPostAnnotations(posts, CurrentUser(c))
	c.JSON(http.StatusOK, posts)
}

func (h *FeedHandler) Create(c *gin.Context) {
	user := CurrentUser(c)

	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	post := models.Post{
		UserID:  user.ID,
		Content: input.Content,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		log.Printf("Error creating post: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	post.User = *user
	post.ContentHTML = utils.RenderMarkdown(post.Content)

	h.hub.Publish(ws.EventNewPost, post)

	c.JSON(http.StatusCreated, post)
}

// PostDetail is a post with its threaded comments.
type PostDetail struct {
	models.Post
	Comments []*feed.CommentNode `json:"comments"`
}

// Detail returns a post with the full comment tree. The comment tree is
// assembled from a fixed number of queries no matter how many comments the
// post has.
func (h *FeedHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))
	viewer := CurrentUser(c)

	var post models.Post
	if err := db.DB.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error fetching post %d: %v", id, err)
		jsonError(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	posts := []models.Post{post}
	fillPostAnnotations(posts, viewer)
	post = posts[0]

	viewerID := uint(0)
	if viewer != nil {
		viewerID = viewer.ID
	}
	comments, err := feed.CommentTree(post.ID, viewerID)
	if err != nil {
		log.Printf("Error assembling comment tree for post %d: %v", post.ID, err)
		jsonError(c, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	c.JSON(http.StatusOK, PostDetail{Post: post, Comments: comments})
}

// CreateComment adds a root comment or a reply to a post. A reply's parent
// must exist and belong to the same post.
func (h *FeedHandler) CreateComment(c *gin.Context) {
	user := CurrentUser(c)
	postID := utils.StringToUint(c.Param("id"))

	var post models.Post
	if err := db.DB.Select("id, user_id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Post not found")
			return
		}
		log.Printf("Error fetching post %d: %v", postID, err)
		jsonError(c, http.StatusInternalServerError, "Failed to fetch post")
		return
	}

	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		jsonError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Select("id, post_id").First(&parent, *input.ParentID).Error; err != nil {
			jsonError(c, http.StatusNotFound, "Parent comment not found")
			return
		}
		if parent.PostID != post.ID {
			// Replies must stay on the same post
			jsonError(c, http.StatusNotFound, "Parent comment not found")
			return
		}
	}

	comment := models.Comment{
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: input.ParentID,
		Content:  input.Content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Error creating comment: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to create comment")
		return
	}
	comment.User = *user

	h.hub.Publish(ws.EventNewComment, comment)

	c.JSON(http.StatusCreated, comment)
}
