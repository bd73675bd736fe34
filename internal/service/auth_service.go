package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"babydiary/internal/database"
	"babydiary/internal/models"
	"babydiary/internal/repository"
	"babydiary/internal/security"
)

// inviteCodeAttempts bounds regeneration when a generated code is already taken
const inviteCodeAttempts = 5

// TokenManager issues and verifies access tokens
type TokenManager interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// AuthService handles registration, login and token authentication
type AuthService struct {
	db         *database.DB
	userRepo   *repository.UserRepository
	familyRepo *repository.FamilyRepository
	tokens     TokenManager

	// dummyHash is compared against when the email is unknown so both
	// login failures cost one bcrypt comparison
	dummyHash func() string
}

// NewAuthService creates a new auth service
func NewAuthService(db *database.DB, userRepo *repository.UserRepository, familyRepo *repository.FamilyRepository, tokens TokenManager) *AuthService {
	return &AuthService{
		db:         db,
		userRepo:   userRepo,
		familyRepo: familyRepo,
		tokens:     tokens,
		dummyHash: sync.OnceValue(func() string {
			hash, _ := security.HashPassword("not-a-real-password")
			return hash
		}),
	}
}

// RegisterInput is a validated registration request
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	FamilyName string
	InviteCode string
}

// AuthResult is returned by register and login
type AuthResult struct {
	User   *models.User       `json:"user"`
	Family *models.Membership `json:"family"`
	Token  string             `json:"token"`
}

// Register creates the user and either joins the family of the invite code
// or creates a new family, all in one transaction
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)

	existingUser, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	var membership *models.Membership

	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		users := s.userRepo.WithTx(tx)
		families := s.familyRepo.WithTx(tx)

		user, err = users.CreateUser(ctx, email, passwordHash, strings.TrimSpace(in.Name))
		if err != nil {
			if users.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}

		var family *models.Family
		role := models.RoleAdmin

		if code := strings.ToUpper(strings.TrimSpace(in.InviteCode)); code != "" {
			family, err = families.GetFamilyByInviteCode(ctx, code)
			if err != nil {
				return err
			}
			if family == nil {
				return ErrInvalidInviteCode
			}
			role = models.RoleMember
		} else {
			family, err = createFamily(ctx, families, familyNameFor(in.FamilyName, user.Name))
			if err != nil {
				return err
			}
		}

		if err := families.AddFamilyMember(ctx, family.ID, user.ID, role); err != nil {
			return err
		}

		membership = models.NewMembership(family, role)
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Family: membership, Token: token}, nil
}

// createFamily picks an unused invite code and inserts the family. Codes are
// checked before the insert because a failed statement aborts a postgres
// transaction.
func createFamily(ctx context.Context, families *repository.FamilyRepository, name string) (*models.Family, error) {
	for attempt := 0; attempt < inviteCodeAttempts; attempt++ {
		code, err := security.GenerateInviteCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate invite code: %w", err)
		}

		taken, err := families.GetFamilyByInviteCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			continue
		}

		return families.CreateFamily(ctx, name, code)
	}
	return nil, errors.New("failed to generate a unique invite code")
}

func familyNameFor(familyName, userName string) string {
	if name := strings.TrimSpace(familyName); name != "" {
		return name
	}
	return userName + "의 가족"
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		security.CheckPassword(password, s.dummyHash())
		return nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	membership, err := s.familyRepo.GetFirstMembership(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{User: user, Family: membership, Token: token}, nil
}

// Authenticate resolves a bearer token to its user
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, security.ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}
	return user, nil
}

// Me returns the user and their first family membership, which may be nil
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, *models.Membership, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	membership, err := s.familyRepo.GetFirstMembership(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, membership, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
