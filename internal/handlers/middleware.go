package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"babydiary/internal/models"
	"babydiary/internal/security"
	"babydiary/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey   ContextKey = "user"
	FamilyContextKey ContextKey = "family"
	PostContextKey   ContextKey = "post"
)

// Stage is one step of a request pipeline
type Stage func(http.HandlerFunc) http.HandlerFunc

// Chain composes stages so the first one runs first
func Chain(h http.HandlerFunc, stages ...Stage) http.HandlerFunc {
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}

// AccessMode selects how RequirePostAccess classifies a request
type AccessMode int

const (
	// AccessByMethod treats GET and HEAD as reads and every other verb as a mutation
	AccessByMethod AccessMode = iota
	// AccessRead always treats the request as a read
	AccessRead
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService   *service.AuthService
	familyService *service.FamilyService
	postService   *service.PostService
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, familyService *service.FamilyService, postService *service.PostService) *Middleware {
	return &Middleware{
		authService:   authService,
		familyService: familyService,
		postService:   postService,
	}
}

// RequireAuth is middleware that requires a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			respondWithError(w, http.StatusUnauthorized, ErrTokenRequired, "", nil)
			return
		}

		user, err := m.authService.Authenticate(r.Context(), token)
		if err != nil {
			if errors.Is(err, security.ErrInvalidToken) {
				respondWithError(w, http.StatusUnauthorized, ErrInvalidToken, "", nil)
				return
			}
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Authentication error", err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireFamily attaches the authenticated user's family membership.
// It must run after RequireAuth.
func (m *Middleware) RequireFamily(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if user == nil {
			respondWithError(w, http.StatusUnauthorized, ErrTokenRequired, "", nil)
			return
		}

		membership, err := m.familyService.ResolveMembership(r.Context(), user.ID)
		if err != nil {
			respondWithServiceError(w, err, "Family lookup error")
			return
		}

		ctx := context.WithValue(r.Context(), FamilyContextKey, membership)
		next(w, r.WithContext(ctx))
	}
}

// RequirePostAccess loads the post named by the {id} path value and applies
// the ownership rules before attaching it to the request
func (m *Middleware) RequirePostAccess(mode AccessMode) Stage {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				respondWithError(w, http.StatusUnauthorized, ErrTokenRequired, "", nil)
				return
			}

			postID, err := pathID(r, "id")
			if err != nil {
				respondWithError(w, http.StatusBadRequest, ErrInvalidID, "", nil)
				return
			}

			mutate := mode == AccessByMethod && r.Method != http.MethodGet && r.Method != http.MethodHead
			post, err := m.postService.AuthorizePost(r.Context(), postID, user.ID, mutate)
			if err != nil {
				respondWithServiceError(w, err, "Post access error")
				return
			}

			ctx := context.WithValue(r.Context(), PostContextKey, post)
			next(w, r.WithContext(ctx))
		}
	}
}

// RateLimit rejects clients exceeding limiter with 429
func RateLimit(limiter *security.RateLimiter) Stage {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := limiter.Allow(security.GetClientIP(r))
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
				return
			}
			next(w, r)
		}
	}
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetMembershipFromContext retrieves the family membership from the request context
func GetMembershipFromContext(ctx context.Context) *models.Membership {
	membership, ok := ctx.Value(FamilyContextKey).(*models.Membership)
	if !ok {
		return nil
	}
	return membership
}

// GetPostFromContext retrieves the authorized post from the request context
func GetPostFromContext(ctx context.Context) *models.Post {
	post, ok := ctx.Value(PostContextKey).(*models.Post)
	if !ok {
		return nil
	}
	return post
}

// pathID parses a positive integer path value
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
