package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"roomie/internal/models"
)

// ValidateTitle checks post title length bounds
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return fmt.Errorf("title must not exceed 200 characters")
	}
	return nil
}

// ValidateContent checks that content is non-empty and, for media kinds,
// a usable media URL. Interpretation follows the content type discriminant.
func ValidateContent(content string, contentType models.ContentType) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	if contentType.IsMedia() {
		parsed, err := url.Parse(content)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("content must be a valid %s URL", contentType)
		}
	}
	return nil
}

// ValidateContentType checks the discriminant against the supported kinds
func ValidateContentType(contentType models.ContentType) error {
	if !contentType.Valid() {
		return fmt.Errorf("content type must be one of: markdown, audio, video, gif")
	}
	return nil
}
