package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateRoomName checks room name length bounds
func ValidateRoomName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("room name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("room name must not exceed 100 characters")
	}
	return nil
}

// ValidateJSONObject checks that raw is a JSON object. Empty input is
// allowed; callers substitute the empty-object default.
func ValidateJSONObject(field string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) || firstByte(raw) != '{' {
		return fmt.Errorf("%s must be a JSON object", field)
	}
	return nil
}

// ValidateJSONArray checks that raw is a JSON array. Empty input is
// allowed; callers substitute the empty-array default.
func ValidateJSONArray(field string, raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	if !json.Valid(raw) || firstByte(raw) != '[' {
		return fmt.Errorf("%s must be a JSON array", field)
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
