package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"pulse/internal/db"
	"pulse/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-wide handle at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	g, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// The in-memory database exists per connection; pin the pool to one so
	// every query sees the same data.
	sqlDB, err := g.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(g); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = g
}

func newUser(t *testing.T, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", Password: "x"}
	if err := db.DB.Create(&u).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return u
}

func newPost(t *testing.T, author models.User, content string) models.Post {
	t.Helper()
	p := models.Post{UserID: author.ID, Content: content}
	if err := db.DB.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	return p
}

func newComment(t *testing.T, author models.User, post models.Post, parentID *uint, content string) models.Comment {
	t.Helper()
	c := models.Comment{PostID: post.ID, UserID: author.ID, ParentID: parentID, Content: content}
	if err := db.DB.Create(&c).Error; err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	return c
}

func addPostLike(t *testing.T, user models.User, post models.Post) models.Like {
	t.Helper()
	l := models.Like{UserID: user.ID, PostID: &post.ID}
	if err := db.DB.Create(&l).Error; err != nil {
		t.Fatalf("Failed to create post like: %v", err)
	}
	return l
}

func addCommentLike(t *testing.T, user models.User, comment models.Comment) models.Like {
	t.Helper()
	l := models.Like{UserID: user.ID, CommentID: &comment.ID}
	if err := db.DB.Create(&l).Error; err != nil {
		t.Fatalf("Failed to create comment like: %v", err)
	}
	return l
}

// ageLike backdates a like so window-boundary behavior can be exercised.
func ageLike(t *testing.T, like models.Like, age time.Duration) {
	t.Helper()
	if err := db.DB.Model(&models.Like{}).
		Where("id = ?", like.ID).
		UpdateColumn("created_at", time.Now().Add(-age)).Error; err != nil {
		t.Fatalf("Failed to age like: %v", err)
	}
}

// countingLogger counts executed statements via Trace.
type countingLogger struct {
	mu      sync.Mutex
	queries int
}

func (l *countingLogger) LogMode(logger.LogLevel) logger.Interface               { return l }
func (l *countingLogger) Info(context.Context, string, ...interface{})           {}
func (l *countingLogger) Warn(context.Context, string, ...interface{})           {}
func (l *countingLogger) Error(context.Context, string, ...interface{})          {}
func (l *countingLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	l.mu.Lock()
	l.queries++
	l.mu.Unlock()
}

// countQueries runs fn with a counting logger swapped into the global handle
// and reports how many statements it issued.
func countQueries(t *testing.T, fn func()) int {
	t.Helper()
	orig := db.DB
	counter := &countingLogger{}
	db.DB = orig.Session(&gorm.Session{Logger: counter})
	defer func() { db.DB = orig }()
	fn()
	return counter.queries
}
