package feed

import (
	"pulse/internal/db"
	"pulse/internal/models"
	"pulse/internal/utils"
)

// CommentNode is a comment annotated with its like state and nested replies.
type CommentNode struct {
	models.Comment
	ContentHTML string         `json:"content_html"`
	LikesCount  int64          `json:"likes_count"`
	IsLiked     bool           `json:"is_liked"`
	Replies     []*CommentNode `json:"replies"`
}

// CommentTree loads every comment of a post and links them into a forest.
// The number of queries is fixed regardless of comment count: one flat fetch
// (plus its author preload), one grouped like count, and one viewer-liked set
// when viewerID is non-zero. Linking happens in memory via an id map, so
// correctness does not depend on parents appearing before children.
func CommentTree(postID uint, viewerID uint) ([]*CommentNode, error) {
	var comments []models.Comment
	if err := db.DB.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	roots := make([]*CommentNode, 0, len(comments))
	if len(comments) == 0 {
		return roots, nil
	}

	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	likeCounts, err := likeCountsByComment(ids)
	if err != nil {
		return nil, err
	}
	liked, err := viewerLikedComments(viewerID, ids)
	if err != nil {
		return nil, err
	}

	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		c := comments[i]
		nodes[c.ID] = &CommentNode{
			Comment:     c,
			ContentHTML: utils.RenderMarkdown(c.Content),
			LikesCount:  likeCounts[c.ID],
			IsLiked:     liked[c.ID],
			Replies:     make([]*CommentNode, 0),
		}
	}

	// Link children in fetch order so siblings stay ordered by created_at.
	// A comment whose parent is not in the fetched set (deleted underneath
	// us) is kept as a root rather than dropped.
	for _, c := range comments {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		} else {
			roots = append(roots, node)
		}
	}

	return roots, nil
}

// likeCountsByComment batch-counts likes for a set of comments in one query.
func likeCountsByComment(ids []uint) (map[uint]int64, error) {
	type countResult struct {
		CommentID uint
		Count     int64
	}
	var results []countResult
	if err := db.DB.Model(&models.Like{}).
		Select("comment_id, COUNT(*) as count").
		Where("comment_id IN ?", ids).
		Group("comment_id").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(results))
	for _, r := range results {
		counts[r.CommentID] = r.Count
	}
	return counts, nil
}

// viewerLikedComments returns the set of comment ids the viewer has liked.
// Anonymous viewers (viewerID 0) get an empty set without touching the store.
func viewerLikedComments(viewerID uint, ids []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if viewerID == 0 {
		return liked, nil
	}

	var likes []models.Like
	if err := db.DB.Select("comment_id").
		Where("user_id = ? AND comment_id IN ?", viewerID, ids).
		Find(&likes).Error; err != nil {
		return nil, err
	}
	for _, l := range likes {
		if l.CommentID != nil {
			liked[*l.CommentID] = true
		}
	}
	return liked, nil
}
