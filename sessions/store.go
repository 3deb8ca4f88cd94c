package sessions

import (
	"context"
	"encoding/json"

	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/pkg/errors"
)

// ErrNoSession is returned when no complete session is stored
var ErrNoSession = apperrors.ErrNoSession

// Store is the only writer of the session record. It serializes both halves
// of a session and hands them to the repo in a single WriteAll.
type Store struct {
	repo Repo
}

// NewStore wraps repo in a typed session store
func NewStore(repo Repo) *Store {
	return &Store{repo: repo}
}

// SetSession overwrites any existing session
func (s *Store) SetSession(ctx context.Context, session Session) error {
	jwtJSON, err := json.Marshal(session.Jwt)
	if err != nil {
		return errors.Wrap(err, "[Store.SetSession] marshal jwt")
	}
	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return errors.Wrap(err, "[Store.SetSession] marshal user")
	}

	if err := s.repo.WriteAll(ctx, map[Slot]string{
		SlotJwt:  string(jwtJSON),
		SlotUser: string(userJSON),
	}); err != nil {
		return errors.Wrap(err, "[Store.SetSession] repo.WriteAll")
	}
	return nil
}

// Session returns the stored session. Both slots are read in one ReadAll so
// the identity always belongs to the returned token. A repo holding only one
// of the two slots reads as ErrNoSession.
func (s *Store) Session(ctx context.Context) (*Session, error) {
	values, err := s.repo.ReadAll(ctx, Slots...)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Session] repo.ReadAll")
	}
	rawJwt, hasJwt := values[SlotJwt]
	rawUser, hasUser := values[SlotUser]
	if !hasJwt || !hasUser {
		return nil, ErrNoSession
	}

	session := &Session{}
	if err := json.Unmarshal([]byte(rawJwt), &session.Jwt); err != nil {
		return nil, errors.Wrap(err, "[Store.Session] unmarshal jwt")
	}
	if err := json.Unmarshal([]byte(rawUser), &session.User); err != nil {
		return nil, errors.Wrap(err, "[Store.Session] unmarshal user")
	}
	return session, nil
}

// Token returns the stored session token
func (s *Store) Token(ctx context.Context) (token.Jwt, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return token.Jwt{}, err
	}
	return session.Jwt, nil
}

// Identity returns the user decoded from the stored token
func (s *Store) Identity(ctx context.Context) (users.DisplayUser, error) {
	session, err := s.Session(ctx)
	if err != nil {
		return users.DisplayUser{}, err
	}
	return session.User, nil
}

// ClearSession removes both slots. It succeeds when nothing is stored.
func (s *Store) ClearSession(ctx context.Context) error {
	if err := s.repo.Clear(ctx, Slots...); err != nil {
		return errors.Wrap(err, "[Store.ClearSession] repo.Clear")
	}
	return nil
}

// Close closes the underlying repo
func (s *Store) Close() error {
	return s.repo.Close()
}
