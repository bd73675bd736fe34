package models

import "time"

// Media types
const (
	MediaTypeImage = "IMAGE"
	MediaTypeVideo = "VIDEO"
)

// Post is a diary entry scoped to its author's family
type Post struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	MediaURLs []string       `json:"mediaUrls"`
	MediaType *string        `json:"mediaType"`
	Tags      []string       `json:"tags"`
	AuthorID  int64          `json:"authorId"`
	FamilyID  int64          `json:"familyId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Author    *UserSummary   `json:"author,omitempty"`
	Family    *FamilySummary `json:"family,omitempty"`
	Count     *PostCount     `json:"_count,omitempty"`
}

// PostCount holds the like and comment counters of a post
type PostCount struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// PostDetail is a post with its comments and likes loaded
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
	Likes    []Like    `json:"likes"`
}

// PostFilter narrows a family's post listing
type PostFilter struct {
	FamilyID int64
	Search   string
	Author   string
	Tags     []string
	Limit    int
	Offset   int
}

// Comment is a reply on a post
type Comment struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	PostID    int64        `json:"postId"`
	AuthorID  int64        `json:"authorId"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Author    *UserSummary `json:"author,omitempty"`
}

// Like records that a user liked a post; unique per (post, user)
type Like struct {
	ID        int64        `json:"id"`
	PostID    int64        `json:"postId"`
	UserID    int64        `json:"userId"`
	CreatedAt time.Time    `json:"createdAt"`
	User      *UserSummary `json:"user,omitempty"`
}
