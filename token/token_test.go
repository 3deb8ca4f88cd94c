package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/token/keys"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := keys.NewHMACSigner("test-secret").Sign(claims)
	require.NoError(t, err)
	return raw
}

func TestDecode(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, jwtlib.MapClaims{
		"user": map[string]any{"id": "u-1", "name": "Ann", "email": "a@b.com"},
		"iat":  time.Now().Unix(),
		"exp":  exp.Unix(),
	})

	decoded, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", decoded.User.Email)
	require.Equal(t, "u-1", decoded.User.ID)
	require.Equal(t, "Ann", decoded.User.Name)
	require.True(t, exp.Equal(decoded.Expiry()))
}

func TestDecode_IsDeterministic(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"user": map[string]any{"email": "a@b.com"}})

	first, err := token.Decode(raw)
	require.NoError(t, err)
	second, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestDecode_IgnoresSignature(t *testing.T) {
	raw := signedToken(t, jwtlib.MapClaims{"user": map[string]any{"email": "a@b.com"}})
	tampered := raw[:len(raw)-4] + "AAAA"

	decoded, err := token.Decode(tampered)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", decoded.User.Email)
}

func TestDecode_Malformed(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	notJSON := base64.RawURLEncoding.EncodeToString([]byte(`not json`))
	noUser := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"1"}`))

	cases := map[string]string{
		"empty":            "",
		"one segment":      "abc",
		"two segments":     "abc.def",
		"four segments":    "a.b.c.d",
		"payload not b64":  header + ".%%%." + "sig",
		"payload not json": header + "." + notJSON + ".sig",
		"no user claim":    header + "." + noUser + ".sig",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			decoded, err := token.Decode(raw)
			require.Nil(t, decoded)
			require.ErrorIs(t, err, token.ErrMalformedToken)
		})
	}
}
