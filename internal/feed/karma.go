package feed

import (
	"fmt"
	"os"
	"sort"
	"time"

	"pulse/internal/db"
	"pulse/internal/models"
	"pulse/internal/utils"
)

// Karma weights: a like on a post is worth 5, a like on a comment 1.
const (
	PostLikeWeight    = 5
	CommentLikeWeight = 1

	defaultWindow = 24 * time.Hour
	defaultTopN   = 5
)

// KarmaEntry is one leaderboard row.
type KarmaEntry struct {
	Username string `json:"username"`
	Karma    int64  `json:"karma"`
}

// Leaderboard ranks users by karma earned inside the trailing window.
//
// Post likes and comment likes are aggregated in two independent grouped
// queries and merged by user id. Joining both relations in a single query
// would fan out into a cross product per (post-like, comment-like) pair and
// inflate every count, so each side must be counted in isolation.
func Leaderboard(now time.Time, window time.Duration, topN int) ([]KarmaEntry, error) {
	cutoff := now.Add(-window)

	postCounts, err := likesReceived(cutoff, "posts", "post_id")
	if err != nil {
		return nil, err
	}
	commentCounts, err := likesReceived(cutoff, "comments", "comment_id")
	if err != nil {
		return nil, err
	}

	karma := make(map[uint]int64, len(postCounts)+len(commentCounts))
	for userID, n := range postCounts {
		karma[userID] += PostLikeWeight * n
	}
	for userID, n := range commentCounts {
		karma[userID] += CommentLikeWeight * n
	}

	ids := make([]uint, 0, len(karma))
	for userID, k := range karma {
		if k > 0 {
			ids = append(ids, userID)
		}
	}
	if len(ids) == 0 {
		return []KarmaEntry{}, nil
	}

	var users []models.User
	if err := db.DB.Select("id, username").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]KarmaEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, KarmaEntry{Username: u.Username, Karma: karma[u.ID]})
	}

	// Karma descending; username breaks ties so the order is reproducible.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Karma != entries[j].Karma {
			return entries[i].Karma > entries[j].Karma
		}
		return entries[i].Username < entries[j].Username
	})

	if len(entries) > topN {
		entries = entries[:topN]
	}
	return entries, nil
}

// likesReceived counts likes created since cutoff, grouped by the author of
// the liked item. table is the owning relation ("posts" or "comments") and fk
// the like column referencing it.
func likesReceived(cutoff time.Time, table, fk string) (map[uint]int64, error) {
	type countResult struct {
		UserID uint
		Count  int64
	}
	var results []countResult
	if err := db.DB.Model(&models.Like{}).
		Select(fmt.Sprintf("%s.user_id AS user_id, COUNT(likes.id) AS count", table)).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = likes.%s", table, table, fk)).
		Where("likes.created_at >= ?", cutoff).
		Group(table + ".user_id").
		Scan(&results).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(results))
	for _, r := range results {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}

// KarmaWindow reads the leaderboard window from KARMA_WINDOW_HOURS,
// defaulting to 24 hours.
func KarmaWindow() time.Duration {
	if h := utils.StringToInt(os.Getenv("KARMA_WINDOW_HOURS")); h > 0 {
		return time.Duration(h) * time.Hour
	}
	return defaultWindow
}

// LeaderboardSize reads the result size from LEADERBOARD_SIZE, defaulting to 5.
func LeaderboardSize() int {
	if n := utils.StringToInt(os.Getenv("LEADERBOARD_SIZE")); n > 0 {
		return n
	}
	return defaultTopN
}
