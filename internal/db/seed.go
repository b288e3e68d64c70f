package db

import (
	"fmt"
	"log"
	"math/rand"

	"pulse/internal/models"
	"pulse/internal/utils"
)

// SeedDemo fills an empty database with demo users, posts, nested comments
// and likes. A no-op when users already exist.
func SeedDemo() {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Demo data already seeded, skipping")
		return
	}

	log.Println("Seeding demo data...")

	users := make([]models.User, 0, 10)
	for i := 0; i < 10; i++ {
		hash, err := utils.HashPassword("password")
		if err != nil {
			log.Printf("Failed to hash demo password: %v", err)
			return
		}
		u := models.User{
			Username: fmt.Sprintf("user%d", i),
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: hash,
		}
		if err := DB.Create(&u).Error; err != nil {
			log.Printf("Failed to create demo user %s: %v", u.Username, err)
			continue
		}
		users = append(users, u)
	}
	if len(users) == 0 {
		return
	}

	posts := make([]models.Post, 0, 5)
	for i := 0; i < 5; i++ {
		p := models.Post{
			UserID:  users[rand.Intn(len(users))].ID,
			Content: fmt.Sprintf("This is post number %d from Pulse!\n\nWe are building great social software.", i),
		}
		if err := DB.Create(&p).Error; err != nil {
			log.Printf("Failed to create demo post: %v", err)
			continue
		}
		posts = append(posts, p)
	}

	// Three root comments per post, each with a two-deep reply chain
	var comments []models.Comment
	for _, p := range posts {
		for i := 0; i < 3; i++ {
			root := models.Comment{
				PostID:  p.ID,
				UserID:  users[rand.Intn(len(users))].ID,
				Content: fmt.Sprintf("Root discussion point %d", i),
			}
			DB.Create(&root)
			reply := models.Comment{
				PostID:   p.ID,
				UserID:   users[rand.Intn(len(users))].ID,
				ParentID: &root.ID,
				Content:  "I agree with this point!",
			}
			DB.Create(&reply)
			counter := models.Comment{
				PostID:   p.ID,
				UserID:   users[rand.Intn(len(users))].ID,
				ParentID: &reply.ID,
				Content:  "Actually, I have a counterpoint.",
			}
			DB.Create(&counter)
			comments = append(comments, root, reply, counter)
		}
	}

	// Each user likes one random post and one random comment. Duplicate pairs
	// are rejected by the unique indexes, which is fine for seed data.
	for _, u := range users {
		if len(posts) > 0 {
			p := posts[rand.Intn(len(posts))]
			DB.Create(&models.Like{UserID: u.ID, PostID: &p.ID})
		}
		if len(comments) > 0 {
			c := comments[rand.Intn(len(comments))]
			DB.Create(&models.Like{UserID: u.ID, CommentID: &c.ID})
		}
	}

	log.Println("Demo data seeded successfully")
}
