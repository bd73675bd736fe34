package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"babydiary/internal/database"
	"babydiary/internal/media"
	"babydiary/internal/models"
	"babydiary/internal/repository"
	"babydiary/internal/security"
	"babydiary/internal/storage"
)

// fakeMailer records invitations instead of sending them
type fakeMailer struct {
	enabled bool

	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) IsEnabled() bool {
	return m.enabled
}

func (m *fakeMailer) SendFamilyInviteEmail(ctx context.Context, toEmail, inviterName, familyName, inviteCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, toEmail+":"+inviteCode)
	return nil
}

type testEnv struct {
	db         *database.DB
	store      *storage.LocalStore
	mailer     *fakeMailer
	userRepo   *repository.UserRepository
	familyRepo *repository.FamilyRepository
	postRepo   *repository.PostRepository
	likeRepo   *repository.LikeRepository
	uploadRepo *repository.UploadRepository
	auth       *AuthService
	families   *FamilyService
	posts      *PostService
	comments   *CommentService
	uploads    *UploadService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	db, err := database.Initialize(filepath.Join(dir, "service.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.RunMigrations(context.Background()); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := storage.NewLocalStore(filepath.Join(dir, "uploads"), "")
	if err != nil {
		t.Fatalf("NewLocalStore() error = %v", err)
	}

	env := &testEnv{
		db:         db,
		store:      store,
		mailer:     &fakeMailer{},
		userRepo:   repository.NewUserRepository(db),
		familyRepo: repository.NewFamilyRepository(db),
		postRepo:   repository.NewPostRepository(db),
		likeRepo:   repository.NewLikeRepository(db),
		uploadRepo: repository.NewUploadRepository(db),
	}
	commentRepo := repository.NewCommentRepository(db)

	env.auth = NewAuthService(db, env.userRepo, env.familyRepo, security.NewTokenIssuer("test-secret", time.Hour))
	env.families = NewFamilyService(env.familyRepo, env.mailer)
	env.posts = NewPostService(db, env.postRepo, commentRepo, env.likeRepo, env.uploadRepo, env.families)
	env.comments = NewCommentService(commentRepo, env.postRepo, env.families)
	env.uploads = NewUploadService(store, media.NewProcessor(1920, 85, 400), env.uploadRepo, UploadLimits{
		MaxFiles:    5,
		MaxFileSize: 10 * 1024 * 1024,
	})
	return env
}

// register creates a user, joining the family of inviteCode when given
func (e *testEnv) register(t *testing.T, email, name, inviteCode string) *AuthResult {
	t.Helper()
	result, err := e.auth.Register(context.Background(), RegisterInput{
		Email:      email,
		Password:   "password123",
		Name:       name,
		InviteCode: inviteCode,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", email, err)
	}
	return result
}

func (e *testEnv) createPost(t *testing.T, author *AuthResult, content string) *models.PostDetail {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), author.User.ID, author.Family.ID, PostInput{Content: &content})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	return post
}

func strPtr(s string) *string {
	return &s
}
