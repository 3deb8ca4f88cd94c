package sessions

import (
	"github.com/jrsteele09/go-storefront/token"
	"github.com/jrsteele09/go-storefront/users"
)

// Slot names a persisted value. The names match the keys the browser client
// used in local storage so stored sessions stay readable by both.
type Slot string

const (
	SlotJwt  Slot = "jwt"  // JSON encoded token.Jwt
	SlotUser Slot = "user" // JSON encoded users.DisplayUser decoded from the token
)

// Slots lists every slot that makes up a session
var Slots = []Slot{SlotJwt, SlotUser}

// Session is the persisted pair of session token and decoded identity.
// Either both halves exist or there is no session.
type Session struct {
	Jwt  token.Jwt         `json:"jwt"`
	User users.DisplayUser `json:"user"`
}

// Token returns the raw session token
func (s Session) Token() string {
	return s.Jwt.Token
}
