package server

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/auth"
	"github.com/jrsteele09/go-storefront/users"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// PageData is the template model shared by every page
type PageData struct {
	AppName string
	User    *users.DisplayUser
	Notice  string
	Error   string
	Form    users.RegistrationForm // Name and email survive a rejected submission; passwords never do
	Fields  users.FieldErrors
}

// FieldError returns the message for a rejected form field, or ""
func (p PageData) FieldError(field string) string {
	return p.Fields[users.Field(field)]
}

// HomeHandler shows the signed in user, or sends the visitor to sign in
func (s *Server) HomeHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("home.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.auth.Session(r.Context())
		if errors.Is(err, auth.NoSessionErr) {
			redirectSuccess(w, r, RouteSignIn)
			return
		}
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			http.Error(w, "Failed to read session", http.StatusInternalServerError)
			return
		}

		s.render(w, r, tmpl, http.StatusOK, PageData{User: &session.User})
	}, nil
}

// SignInGetHandler renders the sign-in page
func (s *Server) SignInGetHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("signin.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		s.render(w, r, tmpl, http.StatusOK, PageData{
			Notice: query.Get("notice"),
			Error:  query.Get("error"),
			Form:   users.RegistrationForm{Email: query.Get("email")},
		})
	}, nil
}

// SignInPostHandler validates the sign-in form, logs in and goes home
func (s *Server) SignInPostHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("signin.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		credentials := users.LoginUser{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		data := PageData{Form: users.RegistrationForm{Email: credentials.Email}}

		if fieldErrors := users.ValidateLogin(credentials); !fieldErrors.Valid() {
			data.Fields = fieldErrors
			s.render(w, r, tmpl, http.StatusUnprocessableEntity, data)
			return
		}

		if _, err := s.auth.Login(r.Context(), credentials); err != nil {
			status, message := failureMessage(err)
			data.Error = message
			s.render(w, r, tmpl, status, data)
			return
		}

		redirectSuccess(w, r, "/")
	}, nil
}

// RegisterGetHandler renders the registration page
func (s *Server) RegisterGetHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, r, tmpl, http.StatusOK, PageData{Error: r.URL.Query().Get("error")})
	}, nil
}

// RegisterPostHandler gates the form on the credential validators before
// calling the remote API. A successful registration does not sign in.
func (s *Server) RegisterPostHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("register.html")
	if err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := users.RegistrationForm{
			Name:            r.FormValue("name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirmPassword"),
		}
		data := PageData{Form: users.RegistrationForm{Name: form.Name, Email: form.Email}}

		if fieldErrors := users.ValidateRegistration(form); !fieldErrors.Valid() {
			data.Fields = fieldErrors
			s.render(w, r, tmpl, http.StatusUnprocessableEntity, data)
			return
		}

		displayUser, err := s.auth.Register(r.Context(), form.NewUser())
		if err != nil {
			status, message := failureMessage(err)
			data.Error = message
			s.render(w, r, tmpl, status, data)
			return
		}

		redirectSuccess(w, r, RouteSignIn+"?notice="+url.QueryEscape("Account created, sign in to continue")+
			"&email="+url.QueryEscape(displayUser.Email))
	}, nil
}

// LogoutHandler clears the session and returns to the sign-in page
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(r.Context()); err != nil {
			logError(r.Method, r.URL.Path, err)
			http.Error(w, "Failed to sign out", http.StatusInternalServerError)
			return
		}
		redirectSuccess(w, r, RouteSignIn)
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, tmpl *template.Template, status int, data PageData) {
	data.AppName = s.appName
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Str("path", r.URL.Path).Msg("Failed to render template")
	}
}

// failureMessage turns an auth client error into a status and a message fit
// for display. The form stays populated so the user can correct it.
func failureMessage(err error) (int, string) {
	var apiErr *auth.APIError
	switch {
	case errors.Is(err, auth.AuthenticationErr):
		return http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, auth.ValidationErr):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return http.StatusUnprocessableEntity, apiErr.Message
		}
		return http.StatusUnprocessableEntity, "The details were rejected, check them and try again"
	case errors.Is(err, auth.TimeoutErr):
		return http.StatusGatewayTimeout, "The store took too long to answer, try again"
	case errors.Is(err, auth.MalformedTokenErr):
		return http.StatusBadGateway, "The store returned an unreadable session, try again"
	default:
		return http.StatusBadGateway, "The store could not be reached, try again"
	}
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}
