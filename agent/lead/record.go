package lead

import (
	"fmt"
	"regexp"
	"strings"
)

// Platforms is the canonical vocabulary, in match-priority order.
var Platforms = []string{
	"YouTube", "Instagram", "TikTok", "Facebook", "Twitter", "Twitch", "LinkedIn",
}

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Field names, in the fixed priority order used by MissingFields.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPlatform = "platform"
)

// Record accumulates lead slots across turns. The empty string means the
// slot has not been captured yet; a non-empty slot is never overwritten
// within a session (first-write-wins).
type Record struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Platform string `json:"platform,omitempty"`
}

// IsComplete reports whether all three slots are set and individually valid.
func (r Record) IsComplete() bool {
	if r.Name == "" || r.Email == "" || r.Platform == "" {
		return false
	}
	return ValidateName(r.Name) == nil &&
		ValidateEmail(r.Email) == nil &&
		ValidatePlatform(r.Platform) == nil
}

// MissingFields returns the unset slots in priority order (name, email,
// platform).
func (r Record) MissingFields() []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, FieldName)
	}
	if r.Email == "" {
		missing = append(missing, FieldEmail)
	}
	if r.Platform == "" {
		missing = append(missing, FieldPlatform)
	}
	return missing
}

// Known returns the captured slots as a map for prompt payloads.
func (r Record) Known() map[string]string {
	known := make(map[string]string, 3)
	if r.Name != "" {
		known[FieldName] = r.Name
	}
	if r.Email != "" {
		known[FieldEmail] = r.Email
	}
	if r.Platform != "" {
		known[FieldPlatform] = r.Platform
	}
	return known
}

// FieldError is an expected validation failure on a single slot. The field
// name appears in the error text; the capture guard selects its corrective
// message from it.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) < 2 {
		return &FieldError{Field: FieldName, Reason: "must be at least 2 characters"}
	}
	return nil
}

func ValidateEmail(email string) error {
	if emailPattern.FindString(email) != strings.TrimSpace(email) {
		return &FieldError{Field: FieldEmail, Reason: "is not a valid email address"}
	}
	return nil
}

func ValidatePlatform(platform string) error {
	if _, ok := CanonicalPlatform(platform); !ok {
		return &FieldError{Field: FieldPlatform, Reason: "is not a supported platform"}
	}
	return nil
}

// CanonicalPlatform maps any casing of a known platform name to its
// canonical form.
func CanonicalPlatform(platform string) (string, bool) {
	trimmed := strings.TrimSpace(platform)
	for _, p := range Platforms {
		if strings.EqualFold(trimmed, p) {
			return p, true
		}
	}
	return "", false
}
