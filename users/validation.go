package users

import (
	"regexp"
	"unicode/utf8"
)

const (
	MinNameLength     = 2
	MinPasswordLength = 6
	MaxPasswordLength = 20
)

// Field identifies a form input
type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
)

// Messages shown next to a field whose predicate failed
var fieldMessages = map[Field]string{
	FieldName:            "Enter your name",
	FieldEmail:           "Enter a valid email",
	FieldPassword:        "Enter a valid password",
	FieldConfirmPassword: "Password must match",
}

// ErrorMessage returns the message a form displays for an invalid field
func ErrorMessage(field Field) string {
	return fieldMessages[field]
}

// FieldValidator is a pure predicate over a single field value
type FieldValidator func(text string) bool

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func ValidateNameLength(text string) bool {
	return utf8.RuneCountInString(text) >= MinNameLength
}

func ValidateEmail(text string) bool {
	return emailPattern.MatchString(text)
}

func ValidatePasswordLength(text string) bool {
	n := utf8.RuneCountInString(text)
	return n >= MinPasswordLength && n <= MaxPasswordLength
}

// ValidatePasswordsMatch compares the confirmation byte for byte
func ValidatePasswordsMatch(password, confirmPassword string) bool {
	return password == confirmPassword
}

// FieldErrors maps each rejected field to its display message. An empty
// FieldErrors means the form may be submitted.
type FieldErrors map[Field]string

func (fe FieldErrors) Valid() bool {
	return len(fe) == 0
}

func (fe FieldErrors) Has(field Field) bool {
	_, ok := fe[field]
	return ok
}

func (fe FieldErrors) add(field Field) {
	fe[field] = ErrorMessage(field)
}

// RegistrationForm holds the raw values of the registration form
type RegistrationForm struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// ValidateRegistration is the submission gate for the registration form.
// Empty fields, failed predicates and a confirmation that differs from the
// password all reject the submission.
func ValidateRegistration(form RegistrationForm) FieldErrors {
	errs := FieldErrors{}
	check := func(field Field, value string, valid FieldValidator) {
		if value == "" || !valid(value) {
			errs.add(field)
		}
	}
	check(FieldName, form.Name, ValidateNameLength)
	check(FieldEmail, form.Email, ValidateEmail)
	check(FieldPassword, form.Password, ValidatePasswordLength)
	check(FieldConfirmPassword, form.ConfirmPassword, ValidatePasswordLength)

	if !ValidatePasswordsMatch(form.Password, form.ConfirmPassword) {
		errs.add(FieldConfirmPassword)
	}
	return errs
}

// NewUser builds the request body; call it only once ValidateRegistration passed
func (f RegistrationForm) NewUser() NewUser {
	return NewUser{Name: f.Name, Email: f.Email, Password: f.Password}
}

// ValidateLogin is the submission gate for the sign-in form
func ValidateLogin(user LoginUser) FieldErrors {
	errs := FieldErrors{}
	if user.Email == "" || !ValidateEmail(user.Email) {
		errs.add(FieldEmail)
	}
	if user.Password == "" || !ValidatePasswordLength(user.Password) {
		errs.add(FieldPassword)
	}
	return errs
}
