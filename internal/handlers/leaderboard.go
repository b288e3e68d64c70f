package handlers

import (
	"log"
	"net/http"
	"time"

	"pulse/internal/feed"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct{}

func NewLeaderboardHandler() *LeaderboardHandler {
	return &LeaderboardHandler{}
}

// List returns the karma ranking over the trailing window. Recomputed on
// every call; the window-bounded aggregation keeps this cheap.
func (h *LeaderboardHandler) List(c *gin.Context) {
	entries, err := feed.Leaderboard(time.Now(), feed.KarmaWindow(), feed.LeaderboardSize())
	if err != nil {
		log.Printf("Error computing leaderboard: %v", err)
		jsonError(c, http.StatusInternalServerError, "Failed to compute leaderboard")
		return
	}
	c.JSON(http.StatusOK, entries)
}
