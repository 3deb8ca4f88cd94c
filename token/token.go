package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/pkg/errors"
)

// ErrMalformedToken is returned when a token cannot be decoded
var ErrMalformedToken = apperrors.ErrMalformedToken

// Jwt is the login response body. Token is opaque to everything except Decode.
type Jwt struct {
	Token string `json:"token"`
}

// DecodedJwt is the payload of a session token. It is decoded without
// checking the signature and must only be used for display.
type DecodedJwt struct {
	User *users.DisplayUser `json:"user"`
	jwtlib.RegisteredClaims
}

// Expiry returns the exp claim, or the zero time when the token has none
func (d *DecodedJwt) Expiry() time.Time {
	if d.ExpiresAt == nil {
		return time.Time{}
	}
	return d.ExpiresAt.Time
}

// Decode extracts the payload segment of a three part token. The signature is
// not verified. A token that cannot be split, decoded or that carries no user
// claim fails with ErrMalformedToken.
func Decode(rawToken string) (*DecodedJwt, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, errors.Wrap(ErrMalformedToken, "[token.Decode] empty token")
	}
	if strings.Count(rawToken, ".") != 2 {
		return nil, errors.Wrap(ErrMalformedToken, "[token.Decode] token must have three segments")
	}

	claims := &DecodedJwt{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, errors.Wrapf(ErrMalformedToken, "[token.Decode] %v", err)
	}
	if claims.User == nil {
		return nil, errors.Wrap(ErrMalformedToken, "[token.Decode] token has no user claim")
	}
	return claims, nil
}
