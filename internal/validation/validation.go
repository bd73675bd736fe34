package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Limits shared by the request validators
const (
	MinPasswordLength = 6
	MinNameLength     = 2
	MaxNameLength     = 50
	MaxPostLength     = 2000
	MaxCommentLength  = 1000
	MaxTags           = 10
	MaxTagLength      = 20
)

// ValidationError represents a single violated field rule
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// Errors collects every violated rule of a request
type Errors []ValidationError

// Add appends err when it is non-nil
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	if ve, ok := err.(ValidationError); ok {
		*e = append(*e, ve)
		return
	}
	*e = append(*e, ValidationError{Message: err.Error()})
}

// Messages returns one message per violated rule
func (e Errors) Messages() []string {
	messages := make([]string, len(e))
	for i, ve := range e {
		messages[i] = ve.Message
	}
	return messages
}

// Err returns nil when no rule was violated
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	return strings.Join(e.Messages(), "; ")
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// ValidateRequired checks that a field is present
func ValidateRequired(field, value string) error {
	if value == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	return ValidateLength("name", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateFamilyName checks an optional family name; empty means "use the default"
func ValidateFamilyName(name string) error {
	if name == "" {
		return nil
	}
	return ValidateLength("familyName", strings.TrimSpace(name), MinNameLength, MaxNameLength)
}

// ValidateLength checks that value has between min and max characters
func ValidateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if n < min {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at least %d characters", field, min)}
	}
	if n > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, max)}
	}
	return nil
}

// ValidateMediaURL accepts absolute http(s) URLs and locally served /uploads/ paths
func ValidateMediaURL(raw string) error {
	if strings.HasPrefix(raw, "/uploads/") && !strings.Contains(raw, "..") {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ValidationError{Field: "mediaUrls", Message: fmt.Sprintf("mediaUrls must contain valid URLs: %q", raw)}
	}
	return nil
}

// ValidateTags checks the number and length of tags
func ValidateTags(tags []string) error {
	if len(tags) > MaxTags {
		return ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags are allowed", MaxTags)}
	}
	for _, tag := range tags {
		n := utf8.RuneCountInString(strings.TrimSpace(tag))
		if n == 0 {
			return ValidationError{Field: "tags", Message: "tags must not be empty"}
		}
		if n > MaxTagLength {
			return ValidationError{Field: "tags", Message: fmt.Sprintf("tags must be at most %d characters", MaxTagLength)}
		}
	}
	return nil
}
