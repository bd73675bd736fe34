package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"babydiary/internal/models"
)

func TestAuthorizePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.register(t, "a@example.com", "Alice", "")
	member := env.register(t, "b@example.com", "Bob", author.Family.InviteCode)
	outsider := env.register(t, "c@example.com", "Carol", "")
	post := env.createPost(t, author, "hello")

	tests := []struct {
		name    string
		postID  int64
		userID  int64
		mutate  bool
		wantErr error
	}{
		{"author reads", post.ID, author.User.ID, false, nil},
		{"author mutates", post.ID, author.User.ID, true, nil},
		{"member reads", post.ID, member.User.ID, false, nil},
		{"member mutates", post.ID, member.User.ID, true, ErrForbidden},
		{"outsider reads", post.ID, outsider.User.ID, false, ErrForbidden},
		{"outsider mutates", post.ID, outsider.User.ID, true, ErrForbidden},
		{"missing post", post.ID + 100, author.User.ID, false, ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.posts.AuthorizePost(ctx, tt.postID, tt.userID, tt.mutate)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AuthorizePost() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AuthorizePost() error = %v", err)
			}
			if got.ID != post.ID {
				t.Errorf("AuthorizePost() post = %d, want %d", got.ID, post.ID)
			}
		})
	}
}

func TestCreateAndUpdatePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "a@example.com", "Alice", "")

	tags := []string{" first ", "first", "", "bath"}
	created, err := env.posts.CreatePost(ctx, author.User.ID, author.Family.ID, PostInput{
		Content:   strPtr("Bath time"),
		MediaURLs: &[]string{"https://cdn.example.com/photo.png"},
		Tags:      &tags,
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if created.MediaType == nil || *created.MediaType != models.MediaTypeImage {
		t.Errorf("media type = %v, want IMAGE", created.MediaType)
	}
	if len(created.Tags) != 2 || created.Tags[0] != "first" || created.Tags[1] != "bath" {
		t.Errorf("tags = %v, want [first bath]", created.Tags)
	}
	if created.Author == nil || created.Author.Name != "Alice" || created.Count == nil {
		t.Errorf("created post lacks author or counters: %+v", created.Post)
	}

	// Content only: media type stays
	updated, err := env.posts.UpdatePost(ctx, &created.Post, PostInput{Content: strPtr("Bath time!")})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if updated.Content != "Bath time!" || updated.MediaType == nil || len(updated.Tags) != 2 {
		t.Errorf("content-only update = %+v", updated.Post)
	}

	// Clearing the media clears the type
	updated, err = env.posts.UpdatePost(ctx, &updated.Post, PostInput{MediaURLs: &[]string{}})
	if err != nil {
		t.Fatalf("UpdatePost() error = %v", err)
	}
	if updated.MediaType != nil || len(updated.MediaURLs) != 0 {
		t.Errorf("media cleared update = %+v", updated.Post)
	}
}

func TestMediaTypeFromUploadRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "a@example.com", "Alice", "")

	// The URL mentions "image" but the recorded upload is a video
	url := "https://cdn.example.com/baby-diary/image-exports/clip.mov"
	err := env.uploadRepo.CreateUpload(ctx, &models.Upload{
		UserID:       author.User.ID,
		StorageKey:   "baby-diary/videos/clip.mov",
		URL:          url,
		OriginalName: "clip.mov",
		Mimetype:     "video/quicktime",
		Size:         10,
		ResourceType: models.ResourceVideo,
	})
	if err != nil {
		t.Fatalf("CreateUpload() error = %v", err)
	}

	post, err := env.posts.CreatePost(ctx, author.User.ID, author.Family.ID, PostInput{
		Content:   strPtr("clip"),
		MediaURLs: &[]string{url},
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if post.MediaType == nil || *post.MediaType != models.MediaTypeVideo {
		t.Errorf("media type = %v, want VIDEO", post.MediaType)
	}
}

func TestGuessMediaType(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/a.jpg", models.MediaTypeImage},
		{"https://example.com/a.PNG", models.MediaTypeImage},
		{"https://example.com/image/123", models.MediaTypeImage},
		{"https://example.com/a.mp4", models.MediaTypeVideo},
		{"https://example.com/video/123", models.MediaTypeVideo},
		{"https://example.com/a.gif", ""},
	}
	for _, tt := range tests {
		got := guessMediaType(tt.url)
		if tt.want == "" {
			if got != nil {
				t.Errorf("guessMediaType(%q) = %q, want nil", tt.url, *got)
			}
			continue
		}
		if got == nil || *got != tt.want {
			t.Errorf("guessMediaType(%q) = %v, want %q", tt.url, got, tt.want)
		}
	}
}

func TestListPostsPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "a@example.com", "Alice", "")

	for i := 0; i < 120; i++ {
		env.createPost(t, author, fmt.Sprintf("post %03d", i))
	}

	tests := []struct {
		name      string
		page      int
		limit     int
		wantCount int
		wantPage  models.Pagination
	}{
		{"first page", 1, 50, 50, models.Pagination{Current: 1, Total: 3, Count: 50, TotalCount: 120, HasNext: true}},
		{"last page", 3, 50, 20, models.Pagination{Current: 3, Total: 3, Count: 20, TotalCount: 120, HasPrev: true}},
		{"defaults", 0, 0, 10, models.Pagination{Current: 1, Total: 12, Count: 10, TotalCount: 120, HasNext: true}},
		{"limit clamped", 1, 500, 50, models.Pagination{Current: 1, Total: 3, Count: 50, TotalCount: 120, HasNext: true}},
		{"past the end", 9, 50, 0, models.Pagination{Current: 9, Total: 3, Count: 0, TotalCount: 120, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := env.posts.ListPosts(ctx, ListPostsInput{FamilyID: author.Family.ID, Page: tt.page, Limit: tt.limit})
			if err != nil {
				t.Fatalf("ListPosts() error = %v", err)
			}
			if len(result.Posts) != tt.wantCount {
				t.Errorf("got %d posts, want %d", len(result.Posts), tt.wantCount)
			}
			if result.Pagination != tt.wantPage {
				t.Errorf("pagination = %+v, want %+v", result.Pagination, tt.wantPage)
			}
		})
	}

	first, err := env.posts.ListPosts(ctx, ListPostsInput{FamilyID: author.Family.ID, Page: 1, Limit: 1})
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if first.Posts[0].Content != "post 119" {
		t.Errorf("newest post = %q, want post 119", first.Posts[0].Content)
	}
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "a@example.com", "Alice", "")
	member := env.register(t, "b@example.com", "Bob", author.Family.InviteCode)
	post := env.createPost(t, author, "like me")

	want := []bool{true, false, true}
	for i, w := range want {
		liked, err := env.posts.ToggleLike(ctx, post.ID, member.User.ID)
		if err != nil {
			t.Fatalf("ToggleLike() #%d error = %v", i+1, err)
		}
		if liked != w {
			t.Errorf("ToggleLike() #%d = %t, want %t", i+1, liked, w)
		}
		n, err := env.likeRepo.CountLikes(ctx, post.ID, member.User.ID)
		if err != nil {
			t.Fatalf("CountLikes() error = %v", err)
		}
		if n > 1 {
			t.Fatalf("%d like rows for one (post, user) pair", n)
		}
	}

	detail, err := env.posts.GetPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetPost() error = %v", err)
	}
	if len(detail.Likes) != 1 || detail.Likes[0].User.Name != "Bob" || detail.Count.Likes != 1 {
		t.Errorf("likes = %+v, count = %+v", detail.Likes, detail.Count)
	}
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.register(t, "a@example.com", "Alice", "")
	post := env.createPost(t, author, "bye")

	if err := env.posts.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost() error = %v", err)
	}
	if _, err := env.posts.GetPost(ctx, post.ID); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("GetPost() after delete error = %v, want ErrPostNotFound", err)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 25, 2, 25},
		{1, 51, 1, MaxPageSize},
	}
	for _, tt := range tests {
		page, limit := normalizePage(tt.page, tt.limit, DefaultPostPageSize)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("normalizePage(%d, %d) = %d, %d; want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}
