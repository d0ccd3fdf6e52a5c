package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with underscore", "alice_b", false},
		{"valid with digits", "alice99", false},
		{"minimum length", "abc", false},
		{"maximum length", strings.Repeat("a", 20), false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 21), true},
		{"empty", "", true},
		{"contains space", "alice b", true},
		{"contains dash", "alice-b", true},
		{"contains at sign", "alice@b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "alice@example.com", false},
		{"valid with plus", "alice+tag@example.com", false},
		{"valid subdomain", "alice@mail.example.co.uk", false},
		{"missing at", "aliceexample.com", true},
		{"missing domain", "alice@", true},
		{"missing tld", "alice@example", true},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 250) + "@example.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("password123"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 8)))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", 72)))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(""))

	// past the 72-byte bcrypt input limit the validator must reject, so the
	// hasher never reports the failure as an internal error
	assert.Error(t, ValidatePassword(strings.Repeat("p", 73)))
	assert.Error(t, ValidatePassword(strings.Repeat("p", 100)))
}

func TestValidateDisplayName(t *testing.T) {
	assert.NoError(t, ValidateDisplayName("Alice"))
	assert.NoError(t, ValidateDisplayName(strings.Repeat("a", 50)))
	assert.Error(t, ValidateDisplayName(""))
	assert.Error(t, ValidateDisplayName(strings.Repeat("a", 51)))

	// length is counted in runes, not bytes
	assert.NoError(t, ValidateDisplayName(strings.Repeat("é", 50)))
}

func TestValidateBio(t *testing.T) {
	assert.NoError(t, ValidateBio(""))
	assert.NoError(t, ValidateBio(strings.Repeat("a", 500)))
	assert.Error(t, ValidateBio(strings.Repeat("a", 501)))
}

func TestValidateAvatarURL(t *testing.T) {
	assert.NoError(t, ValidateAvatarURL(""))
	assert.NoError(t, ValidateAvatarURL("https://cdn.example.com/a.png"))
	assert.NoError(t, ValidateAvatarURL("http://cdn.example.com/a.png"))
	assert.Error(t, ValidateAvatarURL("ftp://cdn.example.com/a.png"))
	assert.Error(t, ValidateAvatarURL("not a url"))
	assert.Error(t, ValidateAvatarURL("/relative/path.png"))
}
