package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"portfolio-backend/internal/domain"
)

// Claims are the fields GoTrue puts into access tokens.
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	AppMetadata  map[string]any `json:"app_metadata"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// Verifier checks access tokens locally: HS256 with the project secret, or
// RS256/ES256 against the JWKS endpoint.
type Verifier struct {
	secret []byte
	jwks   *Provider
}

func NewVerifier(secret string, jwks *Provider) *Verifier {
	return &Verifier{secret: []byte(secret), jwks: jwks}
}

// VerifyToken returns (nil, nil) for tokens that are expired, malformed or
// signed with the wrong key.
func (v *Verifier) VerifyToken(ctx context.Context, tokenString string) (*domain.ProviderUser, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.keyFunc(ctx),
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
		jwt.WithAudience("authenticated"),
	)
	if err != nil {
		if isRejection(err) {
			return nil, nil
		}
		return nil, err
	}
	// Tokens without exp never expire; GoTrue always sets it
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, nil
	}

	return &domain.ProviderUser{
		ID:           claims.Subject,
		Email:        claims.Email,
		AppMetadata:  claims.AppMetadata,
		UserMetadata: claims.UserMetadata,
	}, nil
}

func (v *Verifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		switch token.Method.(type) {
		case *jwt.SigningMethodHMAC:
			if len(v.secret) == 0 {
				return nil, errors.New("hmac tokens are not accepted")
			}
			return v.secret, nil
		case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
			if v.jwks == nil {
				return nil, errors.New("no jwks configured")
			}
			kid, ok := token.Header["kid"].(string)
			if !ok {
				return nil, fmt.Errorf("kid header not found")
			}
			key, err := v.jwks.GetKey(ctx, kid)
			if err != nil {
				return nil, err
			}
			return key.PublicKey()
		default:
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
	}
}

func isRejection(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed) ||
		errors.Is(err, jwt.ErrTokenExpired) ||
		errors.Is(err, jwt.ErrTokenNotValidYet) ||
		errors.Is(err, jwt.ErrTokenSignatureInvalid) ||
		errors.Is(err, jwt.ErrTokenInvalidAudience) ||
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing)
}
