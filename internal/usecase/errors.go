package usecase

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/supabase"
	"portfolio-backend/pkg/validation"
)

var errNotAuthenticated = apperror.Unauthorized("authentication required")

// validateStruct runs the DTO's validate tags and returns a BadRequest listing
// every failed field.
func validateStruct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}

// providerError maps Supabase failures onto AppErrors. Client-side failures
// carry the provider's own message.
func providerError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var sbErr *supabase.Error
	if errors.As(err, &sbErr) {
		switch {
		case sbErr.Status == http.StatusUnauthorized:
			return apperror.New(http.StatusUnauthorized, sbErr.Message, err)
		case sbErr.Status == http.StatusForbidden:
			return apperror.New(http.StatusForbidden, sbErr.Message, err)
		case sbErr.Status == http.StatusNotFound:
			return apperror.New(http.StatusNotFound, sbErr.Message, err)
		case sbErr.Status == http.StatusTooManyRequests:
			return apperror.New(http.StatusTooManyRequests, sbErr.Message, err)
		case sbErr.Status >= 500:
			return apperror.ServiceUnavailable("upstream provider unavailable", err)
		default:
			return apperror.New(http.StatusBadRequest, sbErr.Message, err)
		}
	}

	return apperror.ServiceUnavailable("upstream provider unavailable", err)
}

// isCredentialFailure reports a rejected password or refresh grant.
func isCredentialFailure(err error) bool {
	var sbErr *supabase.Error
	if !errors.As(err, &sbErr) {
		return false
	}
	return sbErr.Status == http.StatusBadRequest || sbErr.Status == http.StatusUnauthorized
}

func requirePrincipal(p *domain.Principal) error {
	if p == nil || p.ID == "" {
		return errNotAuthenticated
	}
	return nil
}

// requireOwner is the ownership step of exists → owner → mutate.
func requireOwner(p *domain.Principal, ownerID, resource string) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if ownerID != p.ID {
		return apperror.Forbidden("you do not own this " + resource)
	}
	return nil
}

// optionalString caps s at max bytes without splitting a UTF-8 sequence.
func optionalString(s string, max int) *string {
	s = strings.ToValidUTF8(s, "")
	if s == "" {
		return nil
	}
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return &s
}

func requireAdmin(p *domain.Principal) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if !p.IsAdmin() {
		return apperror.Forbidden("role required")
	}
	return nil
}
