package apistub_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront/apistub"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/token/keys"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/stretchr/testify/require"
)

const testSecret = "stub-secret"

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, h http.Handler, email string) users.DisplayUser {
	t.Helper()
	rec := post(t, h, apistub.RouteRegister, users.NewUser{Name: "Ann", Email: email, Password: "secret1"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var displayUser users.DisplayUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &displayUser))
	return displayUser
}

func login(t *testing.T, h http.Handler, email, password string) (int, token.Jwt) {
	t.Helper()
	rec := post(t, h, apistub.RouteLogin, users.LoginUser{Email: email, Password: password})
	var jwt token.Jwt
	_ = json.Unmarshal(rec.Body.Bytes(), &jwt)
	return rec.Code, jwt
}

func TestRegister(t *testing.T) {
	s := apistub.New(testSecret)

	displayUser := register(t, s, "a@b.com")
	require.NotEmpty(t, displayUser.ID)
	require.Equal(t, "Ann", displayUser.Name)
	require.Equal(t, "a@b.com", displayUser.Email)

	t.Run("duplicate email", func(t *testing.T) {
		rec := post(t, s, apistub.RouteRegister, users.NewUser{Name: "Ann", Email: "A@B.com", Password: "secret1"})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := post(t, s, apistub.RouteRegister, users.NewUser{Name: "A", Email: "nope", Password: "1"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "email must be an email")
	})

	t.Run("password is never echoed", func(t *testing.T) {
		rec := post(t, s, apistub.RouteRegister, users.NewUser{Name: "Bob", Email: "bob@b.com", Password: "secret1"})
		require.NotContains(t, rec.Body.String(), "secret1")
	})
}

func TestLogin(t *testing.T) {
	s := apistub.New(testSecret)
	displayUser := register(t, s, "a@b.com")

	t.Run("valid credentials", func(t *testing.T) {
		code, jwt := login(t, s, "a@b.com", "secret1")
		require.Equal(t, http.StatusCreated, code)

		decoded, err := token.Decode(jwt.Token)
		require.NoError(t, err)
		require.Equal(t, displayUser, *decoded.User)
		require.Equal(t, displayUser.ID, decoded.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		code, _ := login(t, s, "a@b.com", "wrong12")
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("unknown user", func(t *testing.T) {
		code, _ := login(t, s, "who@b.com", "secret1")
		require.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestVerifyJwt(t *testing.T) {
	s := apistub.New(testSecret, apistub.WithTokenExpiry(time.Minute))
	register(t, s, "a@b.com")
	_, jwt := login(t, s, "a@b.com", "secret1")

	t.Run("valid token", func(t *testing.T) {
		rec := post(t, s, apistub.RouteVerifyJwt, map[string]string{"jwt": jwt.Token})
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Exp int64 `json:"exp"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Greater(t, body.Exp, time.Now().Unix())
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, apistub.RouteVerifyJwt, bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Authorization", "Bearer "+jwt.Token)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty body with bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, apistub.RouteVerifyJwt, http.NoBody)
		req.Header.Set("Authorization", "Bearer "+jwt.Token)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, apistub.RouteVerifyJwt, strings.NewReader(`{"jwt":`))
		req.Header.Set("Authorization", "Bearer "+jwt.Token)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := apistub.New("other-secret")
		rec := post(t, other, apistub.RouteVerifyJwt, map[string]string{"jwt": jwt.Token})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired", func(t *testing.T) {
		defer func() { apistub.NowTimeFunc = time.Now }()
		apistub.NowTimeFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }

		rec := post(t, s, apistub.RouteVerifyJwt, map[string]string{"jwt": jwt.Token})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestJWKS(t *testing.T) {
	t.Run("not served for HMAC", func(t *testing.T) {
		rec := httptest.NewRecorder()
		apistub.New(testSecret).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, apistub.RouteJWKS, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("served for key pair", func(t *testing.T) {
		kp, err := keys.GenerateRSAKeyPair("stub-key", 2048)
		require.NoError(t, err)
		s := apistub.New("", apistub.WithSigner(keys.NewKeyPairSigner(kp)))

		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, apistub.RouteJWKS, nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var jwks keys.JWKS
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jwks))
		require.Len(t, jwks.Keys, 1)
		require.Equal(t, "stub-key", jwks.Keys[0].Kid)
	})
}

func TestCors(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	s := apistub.New(testSecret, apistub.WithCors(config.Cors{}))

	t.Run("preflight allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, apistub.RouteLogin, nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("preflight from unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, apistub.RouteLogin, nil)
		req.Header.Set("Origin", "http://evil.test")
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := apistub.HashPassword("secret1")
	require.NoError(t, err)
	require.True(t, apistub.CheckPasswordHash("secret1", hash))
	require.False(t, apistub.CheckPasswordHash("secret2", hash))
}
