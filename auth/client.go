package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultTimeout = 10 * time.Second

// Client performs the session affecting operations against the remote API
// and is the only component that writes the session store.
type Client struct {
	baseURL    string           // Remote API root, without trailing slash
	store      *sessions.Store  // Session persistence
	httpClient *http.Client     // Transport for anonymous calls
	timeout    time.Duration    // Upper bound for each remote call
	verifier   token.Verifier   // Optional signature check on login
	logger     zerolog.Logger   // Structured logger
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every remote call. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithVerifier enables signature verification of the token returned by login.
// Without it the token is decoded for display only.
func WithVerifier(verifier token.Verifier) ClientOption {
	return func(c *Client) {
		c.verifier = verifier
	}
}

// WithLogger replaces the global zerolog logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

// NewClient initializes a Client for the API rooted at baseURL.
func NewClient(baseURL string, store *sessions.Store, options ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, errors.New("[NewClient] session store is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[NewClient] invalid base URL %q", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     log.Logger,
		nowTime:    time.Now,
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// Register creates an account. It never creates a session.
func (c *Client) Register(ctx context.Context, newUser users.NewUser) (*users.DisplayUser, error) {
	displayUser := &users.DisplayUser{}
	if err := c.postJSON(ctx, c.httpClient, RouteRegister, newUser, displayUser); err != nil {
		c.logger.Err(err).Str("email", newUser.Email).Msg("Register failed")
		return nil, errors.Wrap(err, "[Client.Register]")
	}

	c.logger.Info().Str("email", displayUser.Email).Msg("Registered user")
	return displayUser, nil
}

// Login exchanges credentials for a token, decodes the user from it and
// stores both as one session. On any failure the stored session is untouched.
func (c *Client) Login(ctx context.Context, credentials users.LoginUser) (*sessions.Session, error) {
	jwt := token.Jwt{}
	if err := c.postJSON(ctx, c.httpClient, RouteLogin, users.LoginUser{
		Email:    credentials.Email,
		Password: credentials.Password,
	}, &jwt); err != nil {
		c.logger.Err(err).Str("email", credentials.Email).Msg("Login failed")
		return nil, errors.Wrap(err, "[Client.Login]")
	}

	decoded, err := token.Decode(jwt.Token)
	if err != nil {
		c.logger.Err(err).Msg("Login returned an undecodable token")
		return nil, errors.Wrap(err, "[Client.Login] decode token")
	}

	if c.verifier != nil {
		if err := c.verifier.Verify(ctx, jwt.Token); err != nil {
			c.logger.Err(err).Msg("Login returned a token that failed verification")
			return nil, fmt.Errorf("[Client.Login] verify token: %w: %w", AuthenticationErr, err)
		}
	}

	session := sessions.Session{Jwt: jwt, User: *decoded.User}
	if err := c.store.SetSession(ctx, session); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] store.SetSession")
	}

	c.logger.Info().
		Str("email", session.User.Email).
		Time("expires_at", decoded.Expiry()).
		Msg("Logged in")
	return &session, nil
}

// Logout clears the stored session. It makes no network call and succeeds
// when there is no session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.ClearSession(ctx); err != nil {
		return errors.Wrap(err, "[Client.Logout]")
	}
	c.logger.Info().Msg("Logged out")
	return nil
}

// Session returns the stored user and token, or NoSessionErr
func (c *Client) Session(ctx context.Context) (*sessions.Session, error) {
	return c.store.Session(ctx)
}

// VerifyResult is the remote API's view of the stored token
type VerifyResult struct {
	Exp int64 `json:"exp"`
}

// ExpiresAt converts Exp to a time
func (v VerifyResult) ExpiresAt() time.Time {
	return time.Unix(v.Exp, 0)
}

// Expired reports whether the remote expiry has passed at now
func (v VerifyResult) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt())
}

// VerifyJwt asks the remote API to validate the stored token. The stored
// session is not modified, whatever the answer.
func (c *Client) VerifyJwt(ctx context.Context) (*VerifyResult, error) {
	jwt, err := c.store.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.VerifyJwt]")
	}

	httpClient, err := c.HTTPClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.VerifyJwt]")
	}

	result := &VerifyResult{}
	body := map[string]string{"jwt": jwt.Token}
	if err := c.postJSON(ctx, httpClient, RouteVerifyJwt, body, result); err != nil {
		return nil, errors.Wrap(err, "[Client.VerifyJwt]")
	}

	if result.Expired(c.nowTime()) {
		c.logger.Warn().Time("expires_at", result.ExpiresAt()).Msg("Stored token has expired")
	}
	return result, nil
}

// HTTPClient returns a client that sends the stored token as a bearer
// Authorization header, for calls to protected API routes.
func (c *Client) HTTPClient(ctx context.Context) (*http.Client, error) {
	jwt, err := c.store.Token(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.HTTPClient]")
	}

	oauthToken := &oauth2.Token{AccessToken: jwt.Token, TokenType: "Bearer"}
	if decoded, err := token.Decode(jwt.Token); err == nil {
		oauthToken.Expiry = decoded.Expiry()
	}

	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(baseCtx, oauth2.StaticTokenSource(oauthToken)), nil
}
