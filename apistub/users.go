package apistub

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmailTaken = errors.New("email already registered")

// account is a registered user as the remote API stores it
type account struct {
	users.DisplayUser
	PasswordHash string
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// userRepo is an in-memory account store keyed by lower-cased email
type userRepo struct {
	accounts map[string]*account
	lock     sync.RWMutex
}

func newUserRepo() *userRepo {
	return &userRepo{
		accounts: make(map[string]*account),
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) create(newUser users.NewUser) (*account, error) {
	hash, err := HashPassword(newUser.Password)
	if err != nil {
		return nil, errors.Wrap(err, "[userRepo.create] hash password")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	key := emailKey(newUser.Email)
	if _, ok := r.accounts[key]; ok {
		return nil, ErrEmailTaken
	}

	acc := &account{
		DisplayUser: users.DisplayUser{
			ID:    uuid.New().String(),
			Name:  newUser.Name,
			Email: newUser.Email,
		},
		PasswordHash: hash,
	}
	r.accounts[key] = acc
	return acc, nil
}

func (r *userRepo) getByEmail(email string) (*account, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	acc, ok := r.accounts[emailKey(email)]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return acc, nil
}
