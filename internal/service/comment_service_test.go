package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCommentAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.register(t, "a@example.com", "Alice", "")
	member := env.register(t, "b@example.com", "Bob", author.Family.InviteCode)
	outsider := env.register(t, "c@example.com", "Carol", "")
	post := env.createPost(t, author, "first steps")

	comment, err := env.comments.CreateComment(ctx, post.ID, member.User.ID, "  so cute  ")
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if comment.Content != "so cute" || comment.Author == nil || comment.Author.Name != "Bob" {
		t.Errorf("CreateComment() = %+v", comment)
	}

	if _, err := env.comments.CreateComment(ctx, post.ID, outsider.User.ID, "hi"); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider CreateComment() error = %v, want ErrForbidden", err)
	}
	if _, err := env.comments.CreateComment(ctx, post.ID+100, member.User.ID, "hi"); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("missing post CreateComment() error = %v, want ErrPostNotFound", err)
	}
	if _, err := env.comments.ListComments(ctx, post.ID, outsider.User.ID, 1, 10); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider ListComments() error = %v, want ErrForbidden", err)
	}

	// Only the comment author may change it, not even the post author
	tests := []struct {
		name    string
		userID  int64
		id      int64
		wantErr error
	}{
		{"post author", author.User.ID, comment.ID, ErrForbidden},
		{"outsider", outsider.User.ID, comment.ID, ErrForbidden},
		{"missing comment", member.User.ID, comment.ID + 100, ErrCommentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.comments.UpdateComment(ctx, tt.id, tt.userID, "edited"); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateComment() error = %v, want %v", err, tt.wantErr)
			}
			if err := env.comments.DeleteComment(ctx, tt.id, tt.userID); !errors.Is(err, tt.wantErr) {
				t.Errorf("DeleteComment() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	updated, err := env.comments.UpdateComment(ctx, comment.ID, member.User.ID, "even cuter")
	if err != nil {
		t.Fatalf("UpdateComment() error = %v", err)
	}
	if updated.Content != "even cuter" {
		t.Errorf("content = %q, want even cuter", updated.Content)
	}

	if err := env.comments.DeleteComment(ctx, comment.ID, member.User.ID); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if _, err := env.comments.UpdateComment(ctx, comment.ID, member.User.ID, "gone"); !errors.Is(err, ErrCommentNotFound) {
		t.Errorf("UpdateComment() after delete error = %v, want ErrCommentNotFound", err)
	}
}

func TestListCommentsPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.register(t, "a@example.com", "Alice", "")
	post := env.createPost(t, author, "many replies")
	for i := 0; i < 25; i++ {
		if _, err := env.comments.CreateComment(ctx, post.ID, author.User.ID, fmt.Sprintf("comment %02d", i)); err != nil {
			t.Fatalf("CreateComment() error = %v", err)
		}
	}

	first, err := env.comments.ListComments(ctx, post.ID, author.User.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(first.Comments) != DefaultCommentPageSize || !first.Pagination.HasNext {
		t.Errorf("first page: %d comments, pagination %+v", len(first.Comments), first.Pagination)
	}
	if first.Comments[0].Content != "comment 00" {
		t.Errorf("oldest comment = %q, want comment 00", first.Comments[0].Content)
	}

	second, err := env.comments.ListComments(ctx, post.ID, author.User.ID, 2, 20)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(second.Comments) != 5 || second.Pagination.HasNext || second.Pagination.TotalCount != 25 {
		t.Errorf("second page: %d comments, pagination %+v", len(second.Comments), second.Pagination)
	}
}
