package handlers

import (
	"net/http"

	"babydiary/internal/security"
)

// Router bundles the handlers served by the API
type Router struct {
	Middleware *Middleware
	Auth       *AuthHandler
	Posts      *PostHandler
	Comments   *CommentHandler
	Family     *FamilyHandler
	Uploads    *UploadHandler
	Health     *HealthHandler

	// AuthLimiter throttles login and registration attempts per client
	AuthLimiter *security.RateLimiter

	// UploadRoot is served at /uploads/ when media is stored on local disk
	UploadRoot string
}

// Register adds every route to mux
func (rt *Router) Register(mux *http.ServeMux) {
	m := rt.Middleware
	authed := func(h http.HandlerFunc, stages ...Stage) http.HandlerFunc {
		return Chain(h, append([]Stage{m.RequireAuth}, stages...)...)
	}

	mux.HandleFunc("GET /health", rt.Health.Health)

	if rt.UploadRoot != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(rt.UploadRoot))))
	}

	// Auth
	limit := RateLimit(rt.AuthLimiter)
	mux.HandleFunc("POST /api/auth/register", Chain(rt.Auth.Register, limit))
	mux.HandleFunc("POST /api/auth/login", Chain(rt.Auth.Login, limit))
	mux.HandleFunc("GET /api/auth/me", authed(rt.Auth.Me))
	mux.HandleFunc("POST /api/auth/logout", authed(rt.Auth.Logout))

	// Family
	mux.HandleFunc("GET /api/family", authed(rt.Family.GetFamily, m.RequireFamily))
	mux.HandleFunc("POST /api/family/invite", authed(rt.Family.Invite, m.RequireFamily))

	// Posts
	mux.HandleFunc("GET /api/posts", authed(rt.Posts.ListPosts, m.RequireFamily))
	mux.HandleFunc("POST /api/posts", authed(rt.Posts.CreatePost, m.RequireFamily))
	mux.HandleFunc("GET /api/posts/{id}", authed(rt.Posts.GetPost, m.RequireFamily, m.RequirePostAccess(AccessByMethod)))
	mux.HandleFunc("PUT /api/posts/{id}", authed(rt.Posts.UpdatePost, m.RequireFamily, m.RequirePostAccess(AccessByMethod)))
	mux.HandleFunc("DELETE /api/posts/{id}", authed(rt.Posts.DeletePost, m.RequireFamily, m.RequirePostAccess(AccessByMethod)))
	mux.HandleFunc("POST /api/posts/{id}/like", authed(rt.Posts.ToggleLike, m.RequireFamily, m.RequirePostAccess(AccessRead)))

	// Comments
	mux.HandleFunc("GET /api/posts/{postId}/comments", authed(rt.Comments.ListComments, m.RequireFamily))
	mux.HandleFunc("POST /api/posts/{postId}/comments", authed(rt.Comments.CreateComment, m.RequireFamily))
	mux.HandleFunc("PUT /api/comments/{id}", authed(rt.Comments.UpdateComment))
	mux.HandleFunc("DELETE /api/comments/{id}", authed(rt.Comments.DeleteComment))

	// Uploads
	mux.HandleFunc("POST /api/upload/files", authed(rt.Uploads.UploadFiles))
	mux.HandleFunc("DELETE /api/upload/files", authed(rt.Uploads.DeleteFile))
}
