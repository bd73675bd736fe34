package main

import (
	"context"
	"flag"
	"log"

	"babydiary/internal/config"
	"babydiary/internal/database"
	"babydiary/internal/models"
	"babydiary/internal/repository"
	"babydiary/internal/security"
)

// Tables in dependency order, children first
var seedTables = []string{"likes", "comments", "post_tags", "posts", "uploads", "family_members", "families", "users"}

type seedPost struct {
	author    string
	content   string
	mediaURLs []string
	mediaType string
	tags      []string
	comments  []seedComment
	likedBy   []string
}

type seedComment struct {
	author  string
	content string
}

func main() {
	clearData := flag.Bool("clear", false, "Delete all existing data before seeding (WARNING: destructive)")
	flag.Parse()

	ctx := context.Background()
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if *clearData {
		for _, table := range seedTables {
			if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				log.Fatalf("Failed to clear %s: %v", table, err)
			}
		}
		log.Println("Existing data cleared")
	}

	if err := seed(ctx, db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seed data created. Log in as john@example.com or jane@example.com with password123")
}

func seed(ctx context.Context, db *database.DB) error {
	return db.WithTx(ctx, func(tx *database.Tx) error {
		users := repository.NewUserRepository(tx)
		families := repository.NewFamilyRepository(tx)
		posts := repository.NewPostRepository(tx)
		comments := repository.NewCommentRepository(tx)
		likes := repository.NewLikeRepository(tx)

		family, err := families.CreateFamily(ctx, "Smith family", "SMITH1")
		if err != nil {
			return err
		}

		hash, err := security.HashPassword("password123")
		if err != nil {
			return err
		}

		members := map[string]*models.User{}
		for _, m := range []struct{ email, name, role string }{
			{"john@example.com", "John Smith", models.RoleAdmin},
			{"jane@example.com", "Jane Smith", models.RoleMember},
		} {
			user, err := users.CreateUser(ctx, m.email, hash, m.name)
			if err != nil {
				return err
			}
			if err := families.AddFamilyMember(ctx, family.ID, user.ID, m.role); err != nil {
				return err
			}
			members[m.email] = user
		}

		for _, p := range demoPosts() {
			post := &models.Post{
				Content:   p.content,
				MediaURLs: p.mediaURLs,
				Tags:      p.tags,
				AuthorID:  members[p.author].ID,
				FamilyID:  family.ID,
			}
			if p.mediaType != "" {
				post.MediaType = &p.mediaType
			}
			if err := posts.CreatePost(ctx, post); err != nil {
				return err
			}
			for _, c := range p.comments {
				if _, err := comments.CreateComment(ctx, post.ID, members[c.author].ID, c.content); err != nil {
					return err
				}
			}
			for _, email := range p.likedBy {
				if err := likes.CreateLike(ctx, post.ID, members[email].ID); err != nil {
					return err
				}
			}
		}

		log.Printf("Created family %q (invite code %s) with %d members", family.Name, family.InviteCode, len(members))
		return nil
	})
}

func demoPosts() []seedPost {
	return []seedPost{
		{
			author:  "john@example.com",
			content: "Welcome home, little one! First night in the nursery.",
			tags:    []string{"newborn", "home"},
			comments: []seedComment{
				{"jane@example.com", "Slept for three whole hours!"},
			},
			likedBy: []string{"jane@example.com"},
		},
		{
			author:    "jane@example.com",
			content:   "First bath went better than expected.",
			mediaURLs: []string{"https://images.example.com/first-bath.jpg"},
			mediaType: models.MediaTypeImage,
			tags:      []string{"bath", "firsts"},
			comments: []seedComment{
				{"john@example.com", "Not a single tear"},
				{"jane@example.com", "Until the towel came out"},
			},
			likedBy: []string{"john@example.com", "jane@example.com"},
		},
		{
			author:    "john@example.com",
			content:   "Caught the first giggle on video",
			mediaURLs: []string{"https://videos.example.com/first-giggle.mp4"},
			mediaType: models.MediaTypeVideo,
			tags:      []string{"milestone", "firsts"},
			likedBy:   []string{"jane@example.com"},
		},
	}
}
