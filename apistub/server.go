// Package apistub is an in-process stand-in for the storefront remote API.
// It implements the registration, login and token verification endpoints
// the auth client consumes, for tests and local development.
package apistub

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/token/keys"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Route path constants
const (
	RouteRegister  = "/auth/register"
	RouteLogin     = "/auth/login"
	RouteVerifyJwt = "/auth/verify-jwt"
	RouteJWKS      = "/.well-known/jwks.json"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Server struct {
	mux         *http.ServeMux
	users       *userRepo
	signer      keys.Signer
	issuer      string
	tokenExpiry time.Duration
	cors        config.CorsConfig
}

type Option func(*Server)

// WithSigner replaces the default HS256 signer
func WithSigner(signer keys.Signer) Option {
	return func(s *Server) {
		s.signer = signer
	}
}

func WithIssuer(issuer string) Option {
	return func(s *Server) {
		s.issuer = issuer
	}
}

func WithTokenExpiry(expiry time.Duration) Option {
	return func(s *Server) {
		s.tokenExpiry = expiry
	}
}

// WithCors enables CORS headers for the configured origins
func WithCors(cors config.CorsConfig) Option {
	return func(s *Server) {
		s.cors = cors
	}
}

// New builds a stub API signing HS256 tokens with secret unless WithSigner is given
func New(secret string, options ...Option) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		users:       newUserRepo(),
		signer:      keys.NewHMACSigner(secret),
		tokenExpiry: time.Hour,
	}
	for _, opt := range options {
		opt(s)
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("POST "+RouteRegister, s.corsMiddleware(s.RegisterHandler()))
	s.mux.HandleFunc("POST "+RouteLogin, s.corsMiddleware(s.LoginHandler()))
	s.mux.HandleFunc("POST "+RouteVerifyJwt, s.corsMiddleware(s.VerifyJwtHandler()))
	s.mux.HandleFunc("OPTIONS /auth/{action}", s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {}))

	if _, ok := s.signer.(*keys.KeyPairSigner); ok {
		s.mux.HandleFunc("GET "+RouteJWKS, s.JWKSHandler())
	}
}

// RegisterHandler creates an account and returns the DisplayUser
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newUser users.NewUser
		if err := json.NewDecoder(r.Body).Decode(&newUser); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if errs := validateNewUser(newUser); len(errs) > 0 {
			writeError(w, http.StatusBadRequest, errs...)
			return
		}

		acc, err := s.users.create(newUser)
		if err == ErrEmailTaken {
			writeError(w, http.StatusConflict, "An account with that email already exists!")
			return
		}
		if err != nil {
			log.Err(err).Msg("Register: failed to create account")
			writeError(w, http.StatusInternalServerError, "failed to create account")
			return
		}

		writeJSON(w, http.StatusCreated, acc.DisplayUser)
	}
}

// LoginHandler checks credentials and returns {token}
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var login users.LoginUser
		if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		acc, err := s.users.getByEmail(login.Email)
		if err != nil || !CheckPasswordHash(login.Password, acc.PasswordHash) {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		signed, err := s.signToken(acc.DisplayUser)
		if err != nil {
			log.Err(err).Msg("Login: failed to sign token")
			writeError(w, http.StatusInternalServerError, "failed to sign token")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"token": signed})
	}
}

// VerifyJwtHandler validates {jwt} (or a bearer token) and returns {exp}
func (s *Server) VerifyJwtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Jwt string `json:"jwt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		raw := body.Jwt
		if raw == "" {
			raw = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if strings.TrimSpace(raw) == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parsed, err := jwtlib.ParseWithClaims(raw, jwtlib.MapClaims{}, s.signer.GetVerificationKey,
			jwtlib.WithTimeFunc(NowTimeFunc))
		if err != nil || !parsed.Valid {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		exp, err := parsed.Claims.GetExpirationTime()
		if err != nil || exp == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"exp": exp.Unix()})
	}
}

// JWKSHandler publishes the public signing key
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		signer, ok := s.signer.(*keys.KeyPairSigner)
		if !ok {
			writeError(w, http.StatusNotFound, "Not Found")
			return
		}
		jwks, err := signer.GetJWKS()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build JWKS")
			return
		}
		writeJSON(w, http.StatusOK, jwks)
	}
}

func (s *Server) signToken(user users.DisplayUser) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"user": user,
		"sub":  user.ID,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenExpiry).Unix(),
		"jti":  uuid.New().String(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}
	return s.signer.Sign(claims)
}

func validateNewUser(newUser users.NewUser) []string {
	var errs []string
	if !users.ValidateNameLength(newUser.Name) {
		errs = append(errs, "name must be at least 2 characters")
	}
	if !users.ValidateEmail(newUser.Email) {
		errs = append(errs, "email must be an email")
	}
	if !users.ValidatePasswordLength(newUser.Password) {
		errs = append(errs, "password must be between 6 and 20 characters")
	}
	return errs
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to write response")
	}
}

// writeError mirrors the {statusCode, message, error} body of the real API
func writeError(w http.ResponseWriter, status int, messages ...string) {
	var message any = http.StatusText(status)
	switch len(messages) {
	case 0:
	case 1:
		message = messages[0]
	default:
		message = messages
	}
	writeJSON(w, status, map[string]any{
		"statusCode": status,
		"message":    message,
		"error":      http.StatusText(status),
	})
}
