package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the only date format accepted in request bodies.
const DateLayout = "2006-01-02"

var (
	// Letters, spaces and common name punctuation: . ' - ,
	nameRegex = regexp.MustCompile(`^[\p{L} .',-]+$`)

	// E164-like phone: optional +, digits 7-15 length, spaces/dashes tolerated
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// New returns a validator that reports JSON field names and knows the custom
// tags used by the request DTOs.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("date_only", DateOnly)
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("slug", Slug)
}

// DateOnly accepts YYYY-MM-DD calendar dates. Empty strings pass so the tag
// composes with omitempty/required.
func DateOnly(fl validator.FieldLevel) bool {
	val := fieldString(fl)
	if val == "" {
		return true
	}
	_, err := time.Parse(DateLayout, val)
	return err == nil
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fieldString(fl)
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fieldString(fl)
	if val == "" {
		return true
	}
	val = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(val)
	return phoneRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fieldString(fl) {
		// Supplementary planes are mostly emoji/pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// Slug accepts lowercase kebab-case identifiers.
func Slug(fl validator.FieldLevel) bool {
	val := fieldString(fl)
	if val == "" {
		return true
	}
	return slugRegex.MatchString(val)
}

// DateNotBefore reports whether end is empty or on/after start. Unparseable
// inputs return true; format errors are reported by date_only.
func DateNotBefore(start, end string) bool {
	if start == "" || end == "" {
		return true
	}
	s, errS := time.Parse(DateLayout, start)
	e, errE := time.Parse(DateLayout, end)
	if errS != nil || errE != nil {
		return true
	}
	return !e.Before(s)
}

// fieldString dereferences optional *string fields used by PATCH DTOs.
func fieldString(fl validator.FieldLevel) string {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return ""
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}
