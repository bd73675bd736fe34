package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInviteCode  = errors.New("invalid invite code")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoFamily           = errors.New("user does not belong to a family")
	ErrForbidden          = errors.New("access denied")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrFileNotFound       = errors.New("file not found")
)

// Page bounds shared by paginated listings
const MaxPageSize = 50

// normalizePage applies defaults to page and limit and clamps limit to MaxPageSize
func normalizePage(page, limit, defaultLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
