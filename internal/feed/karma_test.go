package feed

import (
	"fmt"
	"testing"
	"time"
)

func TestLeaderboardWeightsAreAdditive(t *testing.T) {
	setupTestDB(t)
	alice := newUser(t, "alice")
	bob := newUser(t, "bob")
	carol := newUser(t, "carol")

	post := newPost(t, alice, "post")
	comment := newComment(t, alice, post, nil, "comment")

	// Two post likes and two comment likes for the same author. Counting
	// through a single joined query would square the counts and report 24.
	addPostLike(t, bob, post)
	addPostLike(t, carol, post)
	addCommentLike(t, bob, comment)
	addCommentLike(t, carol, comment)

	entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Username != "alice" {
		t.Errorf("Expected alice on top, got %q", entries[0].Username)
	}
	if entries[0].Karma != 2*PostLikeWeight+2*CommentLikeWeight {
		t.Errorf("Expected karma 12, got %d", entries[0].Karma)
	}
}

func TestLeaderboardWindowExcludesOldLikes(t *testing.T) {
	setupTestDB(t)
	alice := newUser(t, "alice")
	bob := newUser(t, "bob")
	carol := newUser(t, "carol")

	post := newPost(t, alice, "post")
	addPostLike(t, bob, post)
	stale := addPostLike(t, carol, post)

	entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Karma != 2*PostLikeWeight {
		t.Fatalf("Expected alice with karma 10, got %+v", entries)
	}

	// Push one like past the window edge; only the fresh one should count.
	ageLike(t, stale, 25*time.Hour)

	entries, err = Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Karma != PostLikeWeight {
		t.Fatalf("Expected alice with karma 5 after decay, got %+v", entries)
	}
}

func TestLeaderboardExcludesZeroKarma(t *testing.T) {
	setupTestDB(t)
	alice := newUser(t, "alice")
	bob := newUser(t, "bob")
	newUser(t, "lurker")

	post := newPost(t, alice, "post")
	addPostLike(t, bob, post)
	// bob posted too but earned nothing.
	newPost(t, bob, "ignored post")

	entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected only earners listed, got %+v", entries)
	}
	if entries[0].Username != "alice" {
		t.Errorf("Expected alice, got %q", entries[0].Username)
	}
}

func TestLeaderboardOrderAndTruncation(t *testing.T) {
	setupTestDB(t)

	liker := newUser(t, "liker")

	// author i earns i+1 post likes, so karma runs 5, 10, ..., 30.
	for i := 0; i < 6; i++ {
		author := newUser(t, fmt.Sprintf("author%d", i))
		post := newPost(t, author, fmt.Sprintf("post %d", i))
		addPostLike(t, liker, post)
		for j := 0; j < i; j++ {
			voter := newUser(t, fmt.Sprintf("voter%d_%d", i, j))
			addPostLike(t, voter, post)
		}
	}

	entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("Expected top 5 of 6 earners, got %d", len(entries))
	}
	for i, e := range entries {
		want := int64((6 - i) * PostLikeWeight)
		if e.Karma != want {
			t.Errorf("Entry %d: karma = %d, want %d", i, e.Karma, want)
		}
	}
	if entries[0].Username != "author5" {
		t.Errorf("Expected author5 first, got %q", entries[0].Username)
	}
	for _, e := range entries {
		if e.Username == "author0" {
			t.Error("author0 (karma 5) should have been cut by the top-5 limit")
		}
	}
}

func TestLeaderboardTieBreakIsStable(t *testing.T) {
	setupTestDB(t)
	liker := newUser(t, "liker")

	zed := newUser(t, "zed")
	amy := newUser(t, "amy")
	addPostLike(t, liker, newPost(t, zed, "zed post"))
	addPostLike(t, liker, newPost(t, amy, "amy post"))

	for i := 0; i < 3; i++ {
		entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
		if err != nil {
			t.Fatalf("Leaderboard failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].Username != "amy" || entries[1].Username != "zed" {
			t.Errorf("Run %d: tie not broken by username: %+v", i, entries)
		}
	}
}

func TestLeaderboardEmpty(t *testing.T) {
	setupTestDB(t)
	newUser(t, "alice")

	entries, err := Leaderboard(time.Now(), 24*time.Hour, 5)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if entries == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %+v", entries)
	}
}

func TestKarmaWindowConfig(t *testing.T) {
	t.Setenv("KARMA_WINDOW_HOURS", "")
	if got := KarmaWindow(); got != 24*time.Hour {
		t.Errorf("Default window = %v, want 24h", got)
	}
	t.Setenv("KARMA_WINDOW_HOURS", "48")
	if got := KarmaWindow(); got != 48*time.Hour {
		t.Errorf("Configured window = %v, want 48h", got)
	}

	t.Setenv("LEADERBOARD_SIZE", "")
	if got := LeaderboardSize(); got != 5 {
		t.Errorf("Default size = %d, want 5", got)
	}
	t.Setenv("LEADERBOARD_SIZE", "10")
	if got := LeaderboardSize(); got != 10 {
		t.Errorf("Configured size = %d, want 10", got)
	}
}
