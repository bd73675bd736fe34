package repository

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrParentNotFound is returned when an insert references a post or user
// that no longer exists
var ErrParentNotFound = errors.New("referenced row does not exist")

// likeEscaper escapes LIKE wildcards; '!' works as an escape character on every dialect
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a case-folded LIKE pattern matching s anywhere
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// placeholders returns "?, ?, ?" for n arguments
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
