package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels overrides the generated label for fields whose JSON name reads badly.
var FieldLabels = map[string]string{
	"linkedin_url":    "LinkedIn URL",
	"github_url":      "GitHub URL",
	"repo_url":        "Repository URL",
	"live_url":        "Live URL",
	"icon_url":        "Icon URL",
	"website_url":     "Website URL",
	"avatar_url":      "Avatar URL",
	"credential_url":  "Credential URL",
	"credential_id":   "Credential ID",
	"cover_image_url": "Cover image URL",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into a single string.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()
	isString := e.Kind().String() == "string" || e.Kind().String() == "ptr"

	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s items", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at most %s items", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", label, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", label, param)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "uuid", "uuid4", "uuid_rfc4122":
		return fmt.Sprintf("%s must be a valid UUID", label)
	case "date_only":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and . ' - ,", label)
	case "valid_phone":
		return fmt.Sprintf("%s must be a valid phone number (7-15 digits, optional +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "slug":
		return fmt.Sprintf("%s must be lowercase letters, digits and dashes", label)
	case "dive":
		return fmt.Sprintf("%s contains an invalid item", label)
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	// tags[2] -> tags
	if i := strings.IndexByte(field, '['); i > 0 {
		field = field[:i]
	}
	words := strings.Split(field, "_")
	if len(words) > 0 && words[0] != "" {
		words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	}
	return strings.Join(words, " ")
}
