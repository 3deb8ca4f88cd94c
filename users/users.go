package users

// NewUser is the registration body sent to the remote API. The password
// confirmation field of the form is never part of it.
type NewUser struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser is the login body sent to the remote API
type LoginUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DisplayUser is the server side representation of a user. It is returned by
// registration and carried as the "user" claim of the session token.
type DisplayUser struct {
	ID    string `json:"id,omitempty"`    // Unique identifier for the user
	Name  string `json:"name,omitempty"`  // Display name
	Email string `json:"email,omitempty"` // User's email address
}
