package token_test

import (
	"context"
	"crypto"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/token/keys"
	"github.com/stretchr/testify/require"
)

const testIssuer = "http://api.test"

func TestKeySetVerifier(t *testing.T) {
	kp, err := keys.GenerateRSAKeyPair("kid-1", 2048)
	require.NoError(t, err)
	signer := keys.NewKeyPairSigner(kp)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{kp.PublicKey}}
	verifier := token.NewKeySetVerifier(keySet, testIssuer)

	claims := func(exp time.Time) jwtlib.MapClaims {
		return jwtlib.MapClaims{
			"iss":  testIssuer,
			"sub":  "u-1",
			"user": map[string]any{"email": "a@b.com"},
			"iat":  time.Now().Unix(),
			"exp":  exp.Unix(),
		}
	}

	t.Run("valid signature", func(t *testing.T) {
		raw, err := signer.Sign(claims(time.Now().Add(time.Hour)))
		require.NoError(t, err)
		require.NoError(t, verifier.Verify(context.Background(), raw))
	})

	t.Run("expired", func(t *testing.T) {
		raw, err := signer.Sign(claims(time.Now().Add(-time.Hour)))
		require.NoError(t, err)
		require.ErrorIs(t, verifier.Verify(context.Background(), raw), apperrors.ErrInvalidToken)
	})

	t.Run("signed by another key", func(t *testing.T) {
		other, err := keys.GenerateRSAKeyPair("kid-2", 2048)
		require.NoError(t, err)
		raw, err := keys.NewKeyPairSigner(other).Sign(claims(time.Now().Add(time.Hour)))
		require.NoError(t, err)
		require.ErrorIs(t, verifier.Verify(context.Background(), raw), apperrors.ErrInvalidToken)
	})
}
