package validation

import (
	"strings"
	"testing"
)

func TestAccountFields(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		input    string
		wantMsg  string
	}{
		{"email", ValidateEmail, "jane@example.com", ""},
		{"email with plus tag", ValidateEmail, "jane+diary@mail.example.com", ""},
		{"email padded", ValidateEmail, "  jane@example.com ", ""},
		{"email missing", ValidateEmail, "", "email is required"},
		{"email without domain", ValidateEmail, "jane@", "invalid email format"},
		{"email without tld", ValidateEmail, "jane@example", "invalid email format"},
		{"email with space", ValidateEmail, "jane doe@example.com", "invalid email format"},

		{"password", ValidatePassword, "password123", ""},
		{"password at minimum", ValidatePassword, "abc123", ""},
		{"password short", ValidatePassword, "abc12", "password must be at least 6 characters"},
		{"password missing", ValidatePassword, "", "password is required"},

		{"name", ValidateName, "Jane Smith", ""},
		{"name hangul", ValidateName, "김민지", ""},
		{"name one letter", ValidateName, "J", "name must be at least 2 characters"},
		{"name blank", ValidateName, "   ", "name is required"},
		{"name long", ValidateName, strings.Repeat("n", MaxNameLength+1), "name must be at most 50 characters"},

		{"family name omitted", ValidateFamilyName, "", ""},
		{"family name", ValidateFamilyName, "The Smiths", ""},
		{"family name one letter", ValidateFamilyName, "S", "familyName must be at least 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate(tt.input)
			if tt.wantMsg == "" {
				if err != nil {
					t.Errorf("unexpected error for %q: %v", tt.input, err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("error for %q = %v, want %q", tt.input, err, tt.wantMsg)
			}
		})
	}
}

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		min     int
		max     int
		wantErr bool
	}{
		{name: "within bounds", value: "hello", min: 1, max: 10, wantErr: false},
		{name: "empty", value: "", min: 1, max: 10, wantErr: true},
		{name: "at max", value: strings.Repeat("x", 10), min: 1, max: 10, wantErr: false},
		{name: "over max", value: strings.Repeat("x", 11), min: 1, max: 10, wantErr: true},
		{name: "multibyte counted as characters", value: strings.Repeat("가", 10), min: 1, max: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLength("content", tt.value, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLength(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMediaURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https url", url: "https://cdn.example.com/a.jpg", wantErr: false},
		{name: "http url", url: "http://localhost:3001/uploads/images/a.jpg", wantErr: false},
		{name: "local upload path", url: "/uploads/images/a.jpg", wantErr: false},
		{name: "path traversal", url: "/uploads/../secret", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/a.jpg", wantErr: true},
		{name: "bare word", url: "photo", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMediaURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMediaURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{name: "no tags", tags: nil, wantErr: false},
		{name: "ten tags", tags: strings.Split("a,b,c,d,e,f,g,h,i,j", ","), wantErr: false},
		{name: "eleven tags", tags: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ","), wantErr: true},
		{name: "tag too long", tags: []string{strings.Repeat("t", 21)}, wantErr: true},
		{name: "blank tag", tags: []string{"  "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTags(%v) error = %v, wantErr %v", tt.tags, err, tt.wantErr)
			}
		})
	}
}

func TestErrorsCollectsMessages(t *testing.T) {
	var errs Errors
	errs.Add(ValidateEmail("bad"))
	errs.Add(ValidatePassword("123"))
	errs.Add(ValidateName("Jo"))

	if len(errs) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(errs), errs.Messages())
	}
	if errs.Err() == nil {
		t.Error("Err() should be non-nil when rules are violated")
	}

	var none Errors
	none.Add(nil)
	if none.Err() != nil {
		t.Errorf("Err() = %v, want nil", none.Err())
	}
}
